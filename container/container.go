// Package container extracts the general purpose archives that RPF packages
// are shared in, so the package within can be handed to the RPF extraction tool.
//
// The file archive formats supported are 7-Zip, RAR, TAR (including the gzip,
// bzip2, xz and zstd compressed variants) and ZIP.
//
// The package uses following terminal programs.
//
//  1. [7zz] - 7-Zip for Linux: console version
//  2. [bsdtar] - BSD tar from libarchive
//  3. [unrar] - 6.24 freeware by Alexander Roshal, not the common [unrar-free] which is feature incomplete
//  4. [unzip] - UnZip by the Info-ZIP workgroup
//
// [7zz]: https://www.7-zip.org/
// [bsdtar]: https://man.freebsd.org/cgi/man.cgi?query=bsdtar&sektion=1&format=html
// [unrar]: https://www.rarlab.com/rar_add.htm
// [unrar-free]: https://gitlab.com/bgermann/unrar-free
// [unzip]: https://infozip.sourceforge.net/
package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Defacto2/magicnumber"
	"github.com/Defacto2/rpfsort/command"
)

var (
	ErrDest         = errors.New("destination is empty")
	ErrNotContainer = errors.New("file is not a container archive")
	ErrProg         = errors.New("program error")
)

// Signature returns the archive signature of the named file.
// An unrecognized file returns magicnumber.Unknown.
func Signature(src string) (magicnumber.Signature, error) {
	r, err := os.Open(src)
	if err != nil {
		return magicnumber.Unknown, fmt.Errorf("container signature open %w", err)
	}
	defer r.Close()
	sign, err := magicnumber.Archive(r)
	if err != nil {
		return magicnumber.Unknown, fmt.Errorf("container signature magic %w", err)
	}
	return sign, nil
}

// Is returns true if the named file is a container archive that can be extracted.
func Is(src string) bool {
	sign, err := Signature(src)
	if err != nil {
		return false
	}
	return supported(sign)
}

func supported(sign magicnumber.Signature) bool {
	switch sign { //nolint:exhaustive
	case
		magicnumber.GzipCompressArchive,
		magicnumber.Bzip2CompressArchive,
		magicnumber.TapeARchive,
		magicnumber.XZCompressArchive,
		magicnumber.ZStandardArchive,
		magicnumber.PKWAREZip,
		magicnumber.PKWAREZip64,
		magicnumber.RoshalARchive,
		magicnumber.RoshalARchivev5,
		magicnumber.X7zCompressArchive:
		return true
	}
	return false
}

// Extractor uses system archiver programs to extract the src container archive.
//
//	func Unwrap() {
//	    x := container.Extractor{
//	        Source:      "mycar.zip",
//	        Destination: os.TempDir(),
//	    }
//	    if err := x.Extract(context.Background()); err != nil {
//	        fmt.Fprintf(os.Stderr, "error: %v\n", err)
//	    }
//	}
type Extractor struct {
	Source      string // The source container archive.
	Destination string // The extraction destination directory.
}

// Extract all the files of the source archive to the destination directory
// using the system archive program that matches the file signature.
func (x Extractor) Extract(ctx context.Context) error {
	sign, err := Signature(x.Source)
	if err != nil {
		return fmt.Errorf("extractor %w", err)
	}
	switch sign { //nolint:exhaustive
	case
		magicnumber.GzipCompressArchive,
		magicnumber.Bzip2CompressArchive,
		magicnumber.TapeARchive,
		magicnumber.XZCompressArchive,
		magicnumber.ZStandardArchive:
		return x.Tar(ctx)
	case
		magicnumber.PKWAREZip,
		magicnumber.PKWAREZip64:
		return x.Zips(ctx)
	case
		magicnumber.RoshalARchive,
		magicnumber.RoshalARchivev5:
		return x.Rar(ctx)
	case magicnumber.X7zCompressArchive:
		return x.Zip7(ctx)
	}
	return fmt.Errorf("%w, %s", ErrNotContainer, sign)
}

// Zips attempts the unzip program and falls back to bsdtar,
// which also reads most ZIP files.
func (x Extractor) Zips(ctx context.Context) error {
	err := x.Zip(ctx)
	if err == nil {
		return nil
	}
	if errTar := x.Tar(ctx); errTar != nil {
		return fmt.Errorf("container zip extract all methods: %w", err)
	}
	return nil
}

// run executes the named program with the args and
// folds any standard error output into the returned error.
func (x Extractor) run(ctx context.Context, name, label string, args ...string) error {
	prog, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("container %s extract %w", label, err)
	}
	if x.Destination == "" {
		return ErrDest
	}
	var b bytes.Buffer
	ctx, cancel := context.WithTimeout(ctx, command.TimeoutUnwrap)
	defer cancel()
	cmd := exec.CommandContext(ctx, prog, args...)
	cmd.Stderr = &b
	if err = cmd.Run(); err != nil {
		if b.String() != "" {
			return fmt.Errorf("container %s %w: %s: %s", label, ErrProg, prog, strings.TrimSpace(b.String()))
		}
		return fmt.Errorf("container %s %w: %s", label, err, prog)
	}
	return nil
}
