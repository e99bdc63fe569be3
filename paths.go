package rpfsort

// Package file paths.go contains the three required inputs of an extraction run.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Paths are the filesystem inputs of a single extraction run.
//
//	p := rpfsort.Paths{
//	    Tool:    "/opt/rpf/rpf-cli",
//	    Archive: "dlc.rpf",
//	    Output:  "resources/[cars]/mycar",
//	}
//	if err := p.Validate(); err != nil {
//	    fmt.Fprintf(os.Stderr, "error: %v\n", err)
//	}
type Paths struct {
	Tool    string // Tool is the extractor executable.
	Archive string // Archive is the source RPF package or container download.
	Output  string // Output is the existing directory that receives the extracted files.
}

// Validate confirms the tool and archive are files and the output is a directory.
// Any missing path, or a path of the wrong kind, returns an error wrapping ErrPathNotFound.
func (p Paths) Validate() error {
	if err := isFile("tool", p.Tool); err != nil {
		return err
	}
	if err := isFile("archive", p.Archive); err != nil {
		return err
	}
	return isDir("output", p.Output)
}

func isFile(input, name string) error {
	st, err := stat(input, name)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("%s %w: is a directory: %s", input, ErrPathNotFound, name)
	}
	return nil
}

func isDir(input, name string) error {
	st, err := stat(input, name)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%s %w: is not a directory: %s", input, ErrPathNotFound, name)
	}
	return nil
}

func stat(input, name string) (fs.FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("%s %w: no path given", input, ErrPathNotFound)
	}
	st, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s %w: %s", input, ErrPathNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s %w: %w", input, ErrPathNotFound, err)
	}
	return st, nil
}

// ValidateOutput confirms only the output is a directory, for runs that
// sort files that were extracted earlier.
func (p Paths) ValidateOutput() error {
	return isDir("output", p.Output)
}
