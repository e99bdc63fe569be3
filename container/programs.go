package container

// Package file programs.go contains the arguments given to each archiver program.

import (
	"context"

	"github.com/Defacto2/rpfsort/command"
)

// Zip extracts the content of the src ZIP archive using the [unzip program].
// The format is credited to Phil Katz.
//
// [unzip program]: https://www.linux.org/docs/man1/unzip.html
func (x Extractor) Zip(ctx context.Context) error {
	const (
		notimestamps   = "-DD" // skip restoration of timestamps
		overwrite      = "-o"  // overwrite existing files without prompting
		quieter        = "-qq" // quieter
		targetDir      = "-d"  // target directory to extract files to
		allowCtrlChars = "-^"  // allow control characters in filenames
	)
	// unzip [-options] file[.zip] [-d exdir]
	args := []string{quieter, notimestamps, allowCtrlChars, overwrite, x.Source, targetDir, x.Destination}
	return x.run(ctx, command.Unzip, "unzip", args...)
}

// Zip7 extracts the source 7z archive using the [7z program].
//
// On some Linux distributions the 7z program is named 7zz.
// The legacy version of the 7z program, the p7zip package
// should not be used!
//
// [7z program]: https://www.7-zip.org/
func (x Extractor) Zip7(ctx context.Context) error {
	const (
		extract   = "x"    // x extract files with full paths
		overwrite = "-aoa" // -aoa overwrite all
		quiet     = "-bb0" // -bb0 quiet
		targetDir = "-o"   // -o output directory
		yes       = "-y"   // -y assume yes to all queries
	)
	args := []string{extract, overwrite, quiet, yes, targetDir + x.Destination, x.Source}
	return x.run(ctx, command.Zip7, "7z", args...)
}

// Rar extracts the source RAR archive using the [unrar program].
//
// On Linux there are two versions of the unrar program, the freeware
// version by Alexander Roshal and the feature incomplete [unrar-free].
// The freeware version is the recommended program for extracting RAR archives.
//
// [unrar program]: https://www.rarlab.com/rar_add.htm
// [unrar-free]: https://gitlab.com/bgermann/unrar-free
func (x Extractor) Rar(ctx context.Context) error {
	const (
		eXtract    = "x"   // x extract files with full path
		noComments = "-c-" // -c- do not display comments
		rename     = "-or" // -or rename files automatically
		yes        = "-y"  // -y assume yes to all queries
		outputPath = "-op" // -op output path
	)
	args := []string{eXtract, noComments, rename, yes, x.Source, outputPath + x.Destination}
	return x.run(ctx, command.Unrar, "unrar", args...)
}

// Tar extracts the content of the Tar archive using the [bsdtar program].
//
// bsdtar uses the performant [libarchive library] for archive extraction
// and handles the gzip, bzip2, xz and zstd compressed tarballs.
//
// [bsdtar program]: https://man.freebsd.org/cgi/man.cgi?query=bsdtar&sektion=1&format=html
// [libarchive library]: http://www.libarchive.org/
func (x Extractor) Tar(ctx context.Context) error {
	// note: BSD tar uses different flags to GNU tar
	const (
		extract   = "-x"                    // -x extract files
		source    = "--file"                // -f file path to extract
		targetDir = "--cd"                  // -C target directory
		noAcls    = "--no-acls"             // --no-acls
		noFlags   = "--no-fflags"           // --no-fflags
		noOwner   = "--no-same-owner"       // --no-same-owner
		noPerms   = "--no-same-permissions" // --no-same-permissions
		noXattrs  = "--no-xattrs"           // --no-xattrs
	)
	args := []string{extract, source, x.Source}
	args = append(args, noAcls, noFlags, noOwner, noPerms, noXattrs)
	args = append(args, targetDir, x.Destination)
	return x.run(ctx, command.BSDTar, "tar", args...)
}
