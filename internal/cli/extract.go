package cli

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"

	"github.com/Defacto2/rpfsort"
	"github.com/Defacto2/rpfsort/internal/cli/config"
	"github.com/Defacto2/rpfsort/rezip"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdExtract(paths *config.Paths, opts *config.Extract, file *config.File) *cli.Command {
	return &cli.Command{
		Name:    "extract",
		Aliases: []string{"x"},
		Usage:   "Extract the package and sort the files, the default command",
		Action: func(ctx context.Context, c *cli.Command) error {
			return extract(ctx, c, paths, opts, file)
		},
	}
}

// extract runs the extraction tool on the archive and sorts the output.
func extract(ctx context.Context, c *cli.Command, paths *config.Paths, opts *config.Extract, file *config.File) error {
	logger := ctxlog.From(ctx)
	settings, loadErr := file.Load()
	if loadErr != nil {
		logger.Warn("settings could not be loaded, using the defaults", "error", loadErr)
	}
	root := c.Root()
	p := resolve(newPrompter(root.Reader, root.ErrWriter), *paths, settings)

	job, err := opts.Job(p, settings, c.IsSet)
	if err != nil {
		return err
	}
	r, err := job.Run(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to extract the package",
			goerr.V("tool", p.Tool), goerr.V("archive", p.Archive), goerr.V("output", p.Output))
	}
	report(root.Writer, p.Output, r, opts.List)

	// a file that could not be parsed is left for the user to fix
	if loadErr == nil {
		settings.Tool = absolute(p.Tool)
		settings.LastDirectory = absolute(p.Output)
		if err := file.Save(settings); err != nil {
			logger.Warn("settings could not be saved", "error", err)
		}
	}
	if opts.Pack != "" {
		return pack(ctx, p.Output, opts.Pack)
	}
	return nil
}

// resolve fills the empty paths with the answers to prompts,
// falling back to the saved settings and the located tool.
func resolve(ask *prompter, p config.Paths, s config.Settings) config.Paths {
	if p.Tool == "" {
		def := s.Tool
		if def == "" {
			def, _ = rpfsort.Locate()
		}
		p.Tool = ask.path("Path to the RPF extraction tool", def)
	}
	if p.Archive == "" {
		p.Archive = ask.path("Path to the RPF package", "")
	}
	if p.Output == "" {
		def := s.LastDirectory
		if def == "" && p.Archive != "" {
			def = filepath.Dir(p.Archive)
		}
		p.Output = ask.path("Output directory", def)
	}
	return p
}

// pack zips the stream and data folders and tests the new archive.
func pack(ctx context.Context, output, dest string) error {
	logger := ctxlog.From(ctx)
	n, err := rezip.Pack(output, dest)
	if err != nil {
		return goerr.Wrap(err, "failed to pack the resource", goerr.V("dest", dest))
	}
	logger.Info("packed resource", "dest", dest, "bytes", n)
	if err := rezip.Test(ctx, dest); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			logger.Debug("unzip is not installed, the packed resource is not tested")
			return nil
		}
		return goerr.Wrap(err, "packed resource failed the test", goerr.V("dest", dest))
	}
	return nil
}

func absolute(name string) string {
	abs, err := filepath.Abs(name)
	if err != nil {
		return name
	}
	return abs
}
