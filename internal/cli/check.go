package cli

import (
	"context"
	"fmt"

	"github.com/Defacto2/rpfsort"
	"github.com/Defacto2/rpfsort/internal/cli/config"
	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdCheck(paths *config.Paths, file *config.File) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Locate the RPF extraction tool and confirm it runs",
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			settings, err := file.Load()
			if err != nil {
				logger.Warn("settings could not be loaded, using the defaults", "error", err)
			}
			tool := paths.Tool
			if tool == "" {
				tool = settings.Tool
			}
			if tool == "" {
				if tool, err = rpfsort.Locate(); err != nil {
					return goerr.Wrap(err, "failed to locate the extraction tool")
				}
			}
			if err := rpfsort.Probe(ctx, tool); err != nil {
				return goerr.Wrap(err, "failed to run the extraction tool", goerr.V("tool", tool))
			}
			fmt.Fprintf(c.Root().Writer, "%s %s\n", color.GreenString("Found"), tool)
			return nil
		},
	}
}
