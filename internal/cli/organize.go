package cli

import (
	"context"

	"github.com/Defacto2/rpfsort"
	"github.com/Defacto2/rpfsort/internal/cli/config"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdOrganize(paths *config.Paths, opts *config.Extract, file *config.File) *cli.Command {
	return &cli.Command{
		Name:      "organize",
		Usage:     "Sort an already extracted directory without running the tool",
		ArgsUsage: "[directory]",
		Action: func(ctx context.Context, c *cli.Command) error {
			dir := paths.Output
			if c.Args().Present() {
				dir = c.Args().First()
			}
			if err := (rpfsort.Paths{Output: dir}).ValidateOutput(); err != nil {
				return goerr.Wrap(err, "failed to organize", goerr.V("output", dir))
			}
			settings, err := file.Load()
			if err != nil {
				return goerr.Wrap(err, "failed to load the settings")
			}
			o := rpfsort.Organizer{Root: dir, Rules: settings.Rules.Merge()}
			r, err := o.Organize(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to organize", goerr.V("output", dir))
			}
			report(c.Root().Writer, dir, r, opts.List)
			if opts.Pack != "" {
				return pack(ctx, dir, opts.Pack)
			}
			return nil
		},
	}
}
