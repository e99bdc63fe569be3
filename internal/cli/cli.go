// Package cli is the rpfsort command line interface.
package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Defacto2/rpfsort"
	"github.com/Defacto2/rpfsort/internal/cli/config"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

// Version is replaced at build time.
var Version = "dev"

// Exit codes of the rpfsort program.
const (
	ExitOK               = 0
	ExitError            = 1
	ExitPathNotFound     = 2
	ExitExtractionFailed = 3
)

// ExitCode returns the program exit code for the error returned by Run.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, rpfsort.ErrPathNotFound):
		return ExitPathNotFound
	case errors.Is(err, rpfsort.ErrExtractionFailed):
		return ExitExtractionFailed
	}
	return ExitError
}

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	app := New()
	if err := app.Run(ctx, args); err != nil {
		slog.Default().Error("CLI execution failed", slog.Any("error", err))
		failure(app.ErrWriter, err)
		return err
	}
	return nil
}

// New returns the root command. The Reader, Writer and ErrWriter
// fields may be replaced before it is run.
func New() *cli.Command {
	var (
		loggerCfg  config.Logger
		fileCfg    config.File
		pathsCfg   config.Paths
		extractCfg config.Extract
	)

	flags := append(loggerCfg.Flags(), fileCfg.Flags()...)
	flags = append(flags, pathsCfg.Flags()...)
	flags = append(flags, extractCfg.Flags()...)

	app := &cli.Command{
		Name:    "rpfsort",
		Usage:   "Extract an RPF package and sort it into the stream and data folders of a FiveM resource",
		Version: Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := loggerCfg.Configure(c.Root().ErrWriter)
			if err != nil {
				return nil, err
			}
			logger = logger.With("run", uuid.NewString())
			slog.SetDefault(logger)
			return ctxlog.With(ctx, logger), nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return extract(ctx, c, &pathsCfg, &extractCfg, &fileCfg)
		},
		Commands: []*cli.Command{
			cmdExtract(&pathsCfg, &extractCfg, &fileCfg),
			cmdCheck(&pathsCfg, &fileCfg),
			cmdOrganize(&pathsCfg, &extractCfg, &fileCfg),
		},
	}
	return app
}
