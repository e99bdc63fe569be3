// Package rpfsort extracts GTA V RPF packages with an external tool and sorts
// the extracted files into the stream and data folders of a FiveM resource.
//
// The package does not read the RPF format itself. It relies on a terminal program
// that is invoked as a child process and judged only by its exit status and the
// files it leaves behind.
//
//  1. rpf-cli - RPF package extraction tool, named rpf-cli.exe on Windows
//  2. [unzip] - UnZip by the Info-ZIP workgroup, for zip downloads
//  3. [7zz] - 7-Zip for Linux: console version, for 7z downloads
//  4. [unrar] - 6.24 freeware by Alexander Roshal, for rar downloads
//  5. [bsdtar] - BSD tar from libarchive, for tar and compressed tar downloads
//
// [unzip]: https://infozip.sourceforge.net/
// [7zz]: https://www.7-zip.org/
// [unrar]: https://www.rarlab.com/rar_add.htm
// [bsdtar]: https://www.libarchive.org/
package rpfsort

import (
	"errors"
	"io/fs"
)

const (
	// MaxDepth is the deepest level of nested RPF packages that will be extracted.
	MaxDepth = 4

	// DirMode is the file mode for the created stream and data directories.
	DirMode fs.FileMode = 0o755
)

const (
	rpfx    = ".rpf" // Rage Package File by Rockstar Games
	scratch = "_temp_"
	suffix  = "_extract"
)

var (
	ErrPathNotFound     = errors.New("path not found")
	ErrExtractionFailed = errors.New("extraction failed")
	ErrToolMissing      = errors.New("extraction tool could not be located")
	ErrDest             = errors.New("destination is empty")
	ErrNoCandidate      = errors.New("container holds no rpf package")
)
