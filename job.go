package rpfsort

// Package file job.go contains the extraction run that ties the tool and the organizer together.

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Defacto2/rpfsort/container"
	"github.com/m-mizutani/ctxlog"
)

// Job is a single extraction run of one archive.
//
//	func Run() {
//	    j := rpfsort.Job{
//	        Paths: rpfsort.Paths{
//	            Tool:    "/opt/rpf/rpf-cli",
//	            Archive: "dlc.rpf",
//	            Output:  "out",
//	        },
//	        Rules:       rpfsort.DefaultRules(),
//	        AutoCleanup: true,
//	    }
//	    r, err := j.Run(context.Background())
//	    if err != nil {
//	        fmt.Fprintf(os.Stderr, "error: %v\n", err)
//	        return
//	    }
//	    fmt.Printf("stream %d, data %d\n", r.Stream, r.Data)
//	}
type Job struct {
	Paths
	Rules       Rules         // Rules classify the extracted files.
	Args        []string      // Args is the tool argument template, nil uses DefaultArgs.
	Timeout     time.Duration // Timeout is the time allowed for each tool run.
	InPlace     bool          // InPlace runs the tool on the archive where it is, instead of a copy.
	Nested      bool          // Nested extracts and sorts the RPF packages found in the extracted files.
	Unwrap      bool          // Unwrap extracts a zip, 7z, rar or tar download to find the RPF package.
	AutoCleanup bool          // AutoCleanup removes the scratch directories of nested packages.
}

// Run validates the paths, runs the extraction tool and sorts the extracted files.
//
// A missing path returns an error wrapping ErrPathNotFound before the tool is run.
// A failed tool returns an error wrapping ErrExtractionFailed and nothing is sorted.
func (j Job) Run(ctx context.Context) (Report, error) {
	if err := j.Validate(); err != nil {
		return Report{}, err
	}
	logger := ctxlog.From(ctx)
	archive := j.Archive
	if container.Is(archive) {
		if !j.Unwrap {
			logger.Warn("archive looks like a container download, passing it to the tool as is",
				"archive", archive)
		} else {
			pkg, cleanup, err := j.unwrap(ctx)
			defer cleanup()
			if err != nil {
				return Report{}, err
			}
			archive = pkg
		}
	}

	logger.Info("extracting package", "archive", archive, "output", j.Output)
	if err := j.extractor(archive, j.Output).Extract(ctx); err != nil {
		return Report{}, err
	}

	logger.Info("organizing extracted files", "output", j.Output)
	r, err := Organizer{Root: j.Output, Rules: j.Rules}.Organize(ctx)
	if err != nil {
		return r, err
	}
	if j.Nested {
		self, _ := filepath.Abs(archive)
		r.Add(j.nested(ctx, j.Output, self, 1))
	}
	logger.Info("extraction complete",
		"stream", r.Stream, "data", r.Data, "skipped", r.Skipped, "failed", r.Failed)
	return r, nil
}

func (j Job) extractor(src, dst string) Extractor {
	return Extractor{
		Tool:        j.Tool,
		Source:      src,
		Destination: dst,
		Args:        j.Args,
		Timeout:     j.Timeout,
		InPlace:     j.InPlace,
	}
}

// unwrap extracts the container archive to a temporary directory and
// returns the path of the best matching RPF package within it.
func (j Job) unwrap(ctx context.Context) (string, func(), error) {
	none := func() {}
	tmp, err := os.MkdirTemp("", "rpfsort-unwrap-*")
	if err != nil {
		return "", none, fmt.Errorf("unwrap %w", err)
	}
	cleanup := func() { os.RemoveAll(tmp) }
	x := container.Extractor{Source: j.Archive, Destination: tmp}
	if err := x.Extract(ctx); err != nil {
		return "", cleanup, fmt.Errorf("unwrap %w: %w", ErrExtractionFailed, err)
	}
	files, err := Packages(tmp)
	if err != nil {
		return "", cleanup, fmt.Errorf("unwrap %w", err)
	}
	name := Package(filepath.Base(j.Archive), files...)
	if name == "" {
		return "", cleanup, fmt.Errorf("unwrap %w: %w: %s", ErrPathNotFound, ErrNoCandidate, j.Archive)
	}
	ctxlog.From(ctx).Info("unwrapped container download",
		"archive", j.Archive, "package", name, "candidates", len(files))
	return filepath.Join(tmp, filepath.FromSlash(name)), cleanup, nil
}

// nested extracts the RPF packages found under root into scratch directories
// and sorts their content into the stream and data folders of the output.
// The self package is never extracted again.
func (j Job) nested(ctx context.Context, root, self string, depth int) Report {
	var r Report
	logger := ctxlog.From(ctx)
	if depth > MaxDepth {
		logger.Warn("nested packages are too deep, not extracting", "root", root, "depth", depth)
		return r
	}
	files, err := Packages(root)
	if err != nil {
		r.Failed++
		r.Failures = append(r.Failures, Failure{Path: root, Err: err})
		return r
	}
	rules := j.Rules.Merge()
	for _, name := range files {
		if ctx.Err() != nil {
			return r
		}
		if ignored(rules, name) {
			continue
		}
		pkg := filepath.Join(root, filepath.FromSlash(name))
		if abs, _ := filepath.Abs(pkg); abs == self {
			continue
		}
		r.Add(j.extractNested(ctx, pkg, depth))
	}
	return r
}

func (j Job) extractNested(ctx context.Context, pkg string, depth int) Report {
	var r Report
	logger := ctxlog.From(ctx)
	base := filepath.Base(pkg)
	tmp := filepath.Join(filepath.Dir(pkg), scratch+base+suffix)
	if err := os.MkdirAll(tmp, DirMode); err != nil {
		r.Failed++
		r.Failures = append(r.Failures, Failure{Path: pkg, Err: err})
		return r
	}
	if j.AutoCleanup {
		defer func() {
			if err := os.RemoveAll(tmp); err != nil {
				logger.Warn("cleanup failed", "dir", tmp, "error", err)
			}
		}()
	}
	logger.Info("extracting nested package", "package", pkg, "depth", depth)
	x := j.extractor(pkg, tmp)
	x.InPlace = false
	if err := x.Extract(ctx); err != nil {
		logger.Warn("nested package failed", "package", pkg, "error", err)
		r.Failed++
		r.Failures = append(r.Failures, Failure{Path: pkg, Err: err})
		return r
	}
	sorted, err := Organizer{Root: tmp, Output: j.Output, Rules: j.Rules}.Organize(ctx)
	if err != nil {
		r.Failed++
		r.Failures = append(r.Failures, Failure{Path: pkg, Err: err})
		return r
	}
	sorted.Nested = append(sorted.Nested, pkg)
	r.Add(sorted)
	r.Add(j.nested(ctx, tmp, "", depth+1))
	return r
}

// ignored returns true if the slash separated name, or any of its folders,
// is in the ignored list of the rules.
func ignored(rules Rules, name string) bool {
	parts := strings.Split(name, "/")
	return slices.ContainsFunc(parts, func(part string) bool {
		return containsFold(rules.Ignored, part)
	})
}
