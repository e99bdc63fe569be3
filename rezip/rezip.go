// Package rezip provides compression for the sorted stream and data folders to create
// zip archives using the universal Deflate compression method.
package rezip

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Defacto2/helper"
	"github.com/Defacto2/rpfsort/command"
)

const (
	testArg = "-t"

	createUnique = os.O_RDWR | os.O_CREATE | os.O_EXCL
)

var (
	ErrTest  = errors.New("rezip test failed")
	ErrEmpty = errors.New("nothing to pack")
)

// Folders are the sorted resource folders packed by Pack.
func Folders() []string {
	return []string{"stream", "data"}
}

// Pack compresses the stream and data folders of the output directory into
// the dest zip file using the Deflate method. The zip entries keep the folder names,
// so the archive extracts as a ready to use resource. The total number of
// uncompressed bytes written to the zip file is returned.
//
// The dest must be a valid file path and should include the .zip extension.
// If the dest file already exists, an error is returned.
// If neither folder exists, ErrEmpty is returned and no file is created.
func Pack(output, dest string) (int64, error) {
	var dirs []string
	for _, name := range Folders() {
		dir := filepath.Join(output, name)
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return 0, fmt.Errorf("rezip pack %w: %s", ErrEmpty, output)
	}
	zipfile, err := os.OpenFile(dest, createUnique, helper.WriteWriteRead)
	if err != nil {
		return 0, fmt.Errorf("rezip pack failed to open file: %w", err)
	}
	defer zipfile.Close()

	deflater := zip.NewWriter(zipfile)
	var written int64
	for _, dir := range dirs {
		n, err := addDir(deflater, output, dir)
		written += n
		if err != nil {
			deflater.Close()
			return 0, fmt.Errorf("rezip pack failed to add file: %w", err)
		}
	}
	if err := deflater.Close(); err != nil {
		return 0, fmt.Errorf("rezip pack failed to close: %w", err)
	}
	return written, nil
}

// addDir deflates every file in dir, named relative to base with forward slashes.
func addDir(deflater *zip.Writer, base, dir string) (int64, error) {
	var written int64
	addFile := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("add file: %w", err)
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return fmt.Errorf("add file: %w", err)
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("add file: %w", err)
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate
		dst, err := deflater.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("add file: %w", err)
		}
		src, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("add file: %w", err)
		}
		defer src.Close()

		const size = 64 * 1024
		buf := make([]byte, size)
		n, err := io.CopyBuffer(dst, src, buf)
		if err != nil {
			return fmt.Errorf("add file: %w", err)
		}
		written += n
		return nil
	}
	err := filepath.Walk(dir, addFile)
	return written, err
}

// Test runs the unzip test command on the named file. If the file is a directory
// or empty, an error is returned. If the test command fails, an error is returned.
// Unzip warnings, exit status 1, are not treated as failures.
func Test(ctx context.Context, name string) error {
	path, err := exec.LookPath(command.Unzip)
	if err != nil {
		return fmt.Errorf("rezip test failed to find unzip executable: %w", err)
	}
	inf, err := os.Stat(name)
	if err != nil {
		return fmt.Errorf("rezip test failed to stat file: %w", err)
	}
	if inf.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrTest, name)
	}
	if inf.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", ErrTest, name)
	}
	ctx, cancel := context.WithTimeout(ctx, command.TimeoutList)
	defer cancel()
	err = exec.CommandContext(ctx, path, "-qq", testArg, name).Run()
	if err == nil {
		return nil
	}
	const warning = 1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == warning {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTest, err)
}
