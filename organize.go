package rpfsort

// Package file organize.go contains the sorting of extracted files into the stream and data folders.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/maruel/natural"
	"github.com/spf13/afero"
)

// Move is a file relocated by the organizer.
type Move struct {
	From   string // From is the extracted location.
	To     string // To is the new location within the stream or data folder.
	Bucket Bucket // Bucket is the classification of the file.
}

// Failure is a file that could not be relocated.
type Failure struct {
	Path string // Path is the extracted location of the file.
	Err  error  // Err is the reason for the failure.
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// Report is the result of an organize pass.
type Report struct {
	Stream   int       // Stream is the number of files moved to the stream folder.
	Data     int       // Data is the number of files moved to the data folder.
	Skipped  int       // Skipped is the number of files left in place.
	Failed   int       // Failed is the number of files that could not be moved.
	Moves    []Move    // Moves lists the relocated files in natural order of their new location.
	Failures []Failure // Failures lists the files that could not be moved.
	Nested   []string  // Nested lists the nested packages that were extracted.
}

// Add merges the counts and lists of another report.
func (r *Report) Add(o Report) {
	r.Stream += o.Stream
	r.Data += o.Data
	r.Skipped += o.Skipped
	r.Failed += o.Failed
	r.Moves = append(r.Moves, o.Moves...)
	r.Failures = append(r.Failures, o.Failures...)
	r.Nested = append(r.Nested, o.Nested...)
	r.sort()
}

// Moved returns the total number of relocated files.
func (r Report) Moved() int {
	return r.Stream + r.Data
}

func (r *Report) sort() {
	slices.SortStableFunc(r.Moves, func(a, b Move) int {
		switch {
		case natural.Less(a.To, b.To):
			return -1
		case natural.Less(b.To, a.To):
			return 1
		}
		return 0
	})
}

// Organizer moves the classified files found under Root into
// the stream and data folders of Output.
//
//	func Sort() {
//	    o := rpfsort.Organizer{
//	        Fs:    afero.NewOsFs(),
//	        Root:  "out",
//	        Rules: rpfsort.DefaultRules(),
//	    }
//	    r, err := o.Organize(context.Background())
//	    if err != nil {
//	        fmt.Fprintf(os.Stderr, "error: %v\n", err)
//	        return
//	    }
//	    fmt.Println(r.Stream, r.Data, r.Skipped)
//	}
type Organizer struct {
	Fs     afero.Fs // Fs is the filesystem to use, nil uses the operating system.
	Root   string   // Root is the directory to scan.
	Output string   // Output holds the stream and data folders, an empty value uses Root.
	Rules  Rules    // Rules classify the files, empty lists use the defaults.
}

// Organize walks the Root directory and moves every streamed asset to
// Output/stream/<path> and every data file to Output/data/<path>, where
// <path> is the location of the file relative to Root.
// Unclassified files are left in place.
//
// The stream and data folders are never scanned, so running Organize a second
// time is a no-op. A file is never overwritten: when the destination exists,
// a numeric suffix is appended to the name. A file that cannot be moved, or a
// directory that cannot be read, is recorded in the report and does not stop the pass.
func (o Organizer) Organize(ctx context.Context) (Report, error) {
	var r Report
	if o.Root == "" {
		return r, ErrDest
	}
	fsys := o.fs()
	out := o.Output
	if out == "" {
		out = o.Root
	}
	rules := o.Rules.Merge()
	logger := ctxlog.From(ctx)

	files, failures, err := o.scan(fsys, out)
	if err != nil {
		return r, err
	}
	for _, f := range failures {
		r.Failed++
		r.Failures = append(r.Failures, f)
		logger.Warn("could not read directory", "path", f.Path, "error", f.Err)
	}
	emptied := map[string]struct{}{}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return r, fmt.Errorf("organize %w", err)
		}
		src := filepath.Join(o.Root, rel)
		bucket := rules.Classify(rel)
		if bucket == None {
			r.Skipped++
			logger.Debug("file left in place", "path", src)
			continue
		}
		dst, err := move(fsys, src, filepath.Join(out, bucket.Dir(), rel))
		if err != nil {
			r.Failed++
			r.Failures = append(r.Failures, Failure{Path: src, Err: err})
			logger.Warn("could not move file", "path", src, "error", err)
			continue
		}
		switch bucket {
		case Stream:
			r.Stream++
		case Data:
			r.Data++
		}
		r.Moves = append(r.Moves, Move{From: src, To: dst, Bucket: bucket})
		emptied[filepath.Dir(src)] = struct{}{}
		logger.Debug("file moved", "from", src, "to", dst, "bucket", bucket.String())
	}
	for dir := range emptied {
		prune(fsys, dir, o.Root)
	}
	r.sort()
	return r, nil
}

func (o Organizer) fs() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

// scan returns the regular files under Root as relative paths,
// skipping the stream and data folders of out.
// A directory that cannot be read is returned as a failure and skipped,
// only an unreadable Root is an error.
func (o Organizer) scan(fsys afero.Fs, out string) ([]string, []Failure, error) {
	skip := []string{
		filepath.Clean(filepath.Join(out, Stream.Dir())),
		filepath.Clean(filepath.Join(out, Data.Dir())),
	}
	root := filepath.Clean(o.Root)
	var files []string
	var failures []Failure
	err := afero.Walk(fsys, o.Root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			if filepath.Clean(path) == root {
				return err
			}
			failures = append(failures, Failure{Path: path, Err: err})
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if slices.Contains(skip, filepath.Clean(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(o.Root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("organize walk %w", err)
	}
	return files, failures, nil
}

// move renames src to dst, creating the parent directories.
// When dst exists, the name is suffixed with _1, _2 and so on.
// The final destination is returned.
func move(fsys afero.Fs, src, dst string) (string, error) {
	if err := fsys.MkdirAll(filepath.Dir(dst), DirMode); err != nil {
		return "", fmt.Errorf("mkdir %w", err)
	}
	dst, err := unique(fsys, dst)
	if err != nil {
		return "", err
	}
	if err := fsys.Rename(src, dst); err != nil {
		return "", fmt.Errorf("rename %w", err)
	}
	return dst, nil
}

// unique returns the name, or the first suffixed variant of the name, that does not exist.
func unique(fsys afero.Fs, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	try := name
	for i := 1; ; i++ {
		_, err := fsys.Stat(try)
		if errors.Is(err, fs.ErrNotExist) {
			return try, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %w", err)
		}
		try = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
}

// prune removes dir and its parents while they are empty, stopping at root.
func prune(fsys afero.Fs, dir, root string) {
	root = filepath.Clean(root)
	for dir = filepath.Clean(dir); dir != root && strings.HasPrefix(dir, root+string(os.PathSeparator)); dir = filepath.Dir(dir) {
		empty, err := afero.IsEmpty(fsys, dir)
		if err != nil || !empty {
			return
		}
		if err := fsys.Remove(dir); err != nil {
			return
		}
	}
}
