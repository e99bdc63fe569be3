package rpfsort

// Package file extract.go contains the invocation of the external extraction tool.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Defacto2/helper"
	"github.com/Defacto2/rpfsort/command"
	"github.com/m-mizutani/ctxlog"
)

const (
	ArchiveArg = "{archive}" // ArchiveArg is replaced with the archive path in the argument template.
	OutputArg  = "{output}"  // OutputArg is replaced with the destination directory in the argument template.
)

// DefaultArgs returns the argument template understood by rpf-cli.
func DefaultArgs() []string {
	return []string{"extract", ArchiveArg}
}

// Extractor runs the external tool to extract the source RPF package
// into the destination directory.
//
//	func Extract() {
//	    x := rpfsort.Extractor{
//	        Tool:        "/opt/rpf/rpf-cli",
//	        Source:      "dlc.rpf",
//	        Destination: "out",
//	    }
//	    if err := x.Extract(context.Background()); err != nil {
//	        fmt.Fprintf(os.Stderr, "error: %v\n", err)
//	    }
//	}
type Extractor struct {
	Tool        string        // Tool is the extraction program, either a path or a name found in PATH.
	Source      string        // Source is the RPF package to extract.
	Destination string        // Destination is the existing directory used as the working directory.
	Args        []string      // Args is the argument template, nil uses DefaultArgs.
	Timeout     time.Duration // Timeout is the time allowed for the tool, zero uses command.TimeoutExtract.
	InPlace     bool          // InPlace passes the Source path to the tool instead of a copy in Destination.
}

// Extract runs the tool and waits for it to exit.
//
// Like many DOS era archivers, rpf-cli does not support a target directory and
// writes beside the working directory. To work around this, unless InPlace is set,
// Extract duplicates the source package into the destination directory, uses that
// as the working directory and extracts the copy. The copy is removed afterwards.
// When the destination already holds another file of the same name, the copy
// is given a unique name and the existing file is left untouched.
//
// A tool that cannot be started, exits with a non-zero status or runs past the
// timeout returns an error wrapping ErrExtractionFailed.
func (x Extractor) Extract(ctx context.Context) error {
	src, dst := x.Source, x.Destination
	if dst == "" {
		return ErrDest
	}
	if st, err := os.Stat(dst); err != nil {
		return fmt.Errorf("extractor %w: %w", ErrPathNotFound, err)
	} else if !st.IsDir() {
		return fmt.Errorf("extractor %w: not a directory: %s", ErrPathNotFound, dst)
	}
	prog, err := x.program()
	if err != nil {
		return fmt.Errorf("extractor %w: %w", ErrExtractionFailed, err)
	}
	archive, cleanup, err := x.stage()
	if err != nil {
		return fmt.Errorf("extractor stage %w", err)
	}
	defer cleanup()

	timeout := x.Timeout
	if timeout <= 0 {
		timeout = command.TimeoutExtract
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	abs, err := filepath.Abs(dst)
	if err != nil {
		abs = dst
	}
	args := Expand(x.Args, archive, abs)
	logger := ctxlog.From(ctx)
	logger.Debug("running extraction command",
		"program", prog, "args", args, "dir", dst, "source", src)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, prog, args...)
	cmd.Dir = dst
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()
	if out := strings.TrimSpace(stdout.String()); out != "" {
		logger.Debug("extraction output", "stdout", out)
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("extractor %w: %s: timed out after %s", ErrExtractionFailed, prog, timeout)
		}
		if s := strings.TrimSpace(stderr.String()); s != "" {
			return fmt.Errorf("extractor %w: %s: %w: %q", ErrExtractionFailed, prog, err, s)
		}
		return fmt.Errorf("extractor %w: %s: %w", ErrExtractionFailed, prog, err)
	}
	if s := strings.TrimSpace(stderr.String()); s != "" {
		logger.Warn("extraction warnings", "stderr", s)
	}
	return nil
}

// program returns the full path of the tool.
// A bare program name is looked up in the PATH.
func (x Extractor) program() (string, error) {
	if x.Tool == "" {
		return "", ErrToolMissing
	}
	if !strings.ContainsRune(x.Tool, filepath.Separator) && !strings.ContainsRune(x.Tool, '/') {
		return exec.LookPath(x.Tool)
	}
	return filepath.Abs(x.Tool)
}

// stage returns the archive argument to give to the tool and a func to remove
// anything that was created for the run.
func (x Extractor) stage() (string, func(), error) {
	none := func() {}
	src, err := filepath.Abs(x.Source)
	if err != nil {
		return "", none, err
	}
	if x.InPlace {
		return src, none, nil
	}
	srcInDst, err := filepath.Abs(filepath.Join(x.Destination, filepath.Base(src)))
	if err != nil {
		return "", none, err
	}
	if srcInDst == src {
		// the package already sits in the destination, never remove it
		return filepath.Base(src), none, nil
	}
	if _, err := os.Stat(srcInDst); err == nil {
		// an unrelated file has the name, so the copy gets a unique one
		ext := filepath.Ext(src)
		tmp, err := os.CreateTemp(x.Destination, strings.TrimSuffix(filepath.Base(src), ext)+"-*"+ext)
		if err != nil {
			return "", none, err
		}
		tmp.Close()
		srcInDst = tmp.Name()
		if _, err := helper.DuplicateOW(src, srcInDst); err != nil {
			os.Remove(srcInDst)
			return "", none, err
		}
		return filepath.Base(srcInDst), func() { os.Remove(srcInDst) }, nil
	}
	if _, err := helper.Duplicate(src, srcInDst); err != nil {
		return "", none, err
	}
	return filepath.Base(src), func() { os.Remove(srcInDst) }, nil
}

// Expand replaces the placeholders of the args template.
// A nil or empty template uses DefaultArgs.
func Expand(args []string, archive, output string) []string {
	if len(args) == 0 {
		args = DefaultArgs()
	}
	r := strings.NewReplacer(ArchiveArg, archive, OutputArg, output)
	expanded := make([]string, len(args))
	for i, arg := range args {
		expanded[i] = r.Replace(arg)
	}
	return expanded
}
