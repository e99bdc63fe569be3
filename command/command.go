// Package command lists the known extraction and decompression application names
// and the time limits given to each of them.
package command

import "time"

// A note about rpf-cli: the tool is a Windows console program that is also
// distributed as a self-contained Linux binary. Both builds accept the
// "extract <file.rpf>" verb and write the extracted tree into the working directory.
// Some builds are limited to 16MB per entry and may truncate larger files.

const (
	RPFCLI    = "rpf-cli"     // RPFCLI is the RPF package extraction command.
	RPFCLIExe = "rpf-cli.exe" // RPFCLIExe is the Windows name of the RPF extraction command.
	BSDTar    = "bsdtar"      // BSDTar is the tar decompression command.
	Unrar     = "unrar"       // Unrar is the rar decompression command.
	Unzip     = "unzip"       // Unzip is the zip decompression command.
	Zip7      = "7zz"         // Zip7 is the 7-Zip decompression command.
)

const (
	TimeoutExtract = 5 * time.Minute  // TimeoutExtract is the maximum time allowed for an RPF extraction.
	TimeoutUnwrap  = 2 * time.Minute  // TimeoutUnwrap is the maximum time allowed to unpack a container archive.
	TimeoutProbe   = 3 * time.Second  // TimeoutProbe is the maximum time allowed to smoke test a program.
	TimeoutList    = 15 * time.Second // TimeoutList is the maximum time allowed for a program to test an archive.
)
