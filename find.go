package rpfsort

// Package file find.go contains the tool lookup and the package filename matching functions.

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Defacto2/rpfsort/command"
)

// Locate returns the absolute path of the extraction tool.
//
// The named dirs are searched first, followed by the working directory,
// the directory of the running executable and its tools subdirectory.
// Finally the PATH is searched.
func Locate(dirs ...string) (string, error) {
	search := slices.Clone(dirs)
	search = append(search, ".")
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		search = append(search, dir, filepath.Join(dir, "tools"))
	}
	names := []string{command.RPFCLIExe, command.RPFCLI}
	for _, dir := range search {
		for _, name := range names {
			path := filepath.Join(dir, name)
			st, err := os.Stat(path)
			if err != nil || st.IsDir() {
				continue
			}
			return filepath.Abs(path)
		}
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return filepath.Abs(path)
		}
	}
	return "", fmt.Errorf("locate %w: %s", ErrToolMissing, strings.Join(names, ", "))
}

// Finds are a collection of matched filenames and their usability ranking.
type Finds map[string]Usability

// BestMatch returns the most usable filename from a collection of finds.
// Filenames of equal usability are compared by their names.
func (f Finds) BestMatch() string {
	if len(f) == 0 {
		return ""
	}
	type match struct {
		Filename  string
		Usability Usability
	}
	matches := make([]match, 0, len(f))
	for k, v := range f {
		matches = append(matches, match{k, v})
	}
	slices.SortStableFunc(matches, func(a, b match) int {
		if c := cmp.Compare(a.Usability, b.Usability); c != 0 {
			return c
		}
		return cmp.Compare(a.Filename, b.Filename)
	})
	return matches[0].Filename
}

// Package returns the best matching RPF package from a collection of files.
// The filename is the name of the container download, and the files are the
// slash separated paths of the files within the container.
// Note the filename matches are case-insensitive as most packages are
// shared from Windows NTFS file systems.
func Package(filename string, files ...string) string {
	finds := make(Finds)
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	for _, file := range files {
		name := strings.ToLower(filepath.ToSlash(file))
		if filepath.Ext(name) != rpfx {
			continue
		}
		finds = matchs(file, name, base, finds)
	}
	return finds.BestMatch()
}

const dlc = "dlc" + rpfx

func matchs(file, name, base string, finds Finds) Finds {
	root := !strings.Contains(name, "/")
	leaf := name[strings.LastIndex(name, "/")+1:]
	switch {
	case root && leaf == dlc:
		// dlc.rpf
		finds[file] = Lvl1
	case root && leaf == base+rpfx:
		// [container name].rpf
		finds[file] = Lvl2
	case leaf == dlc:
		// [folder]/dlc.rpf
		finds[file] = Lvl3
	case root:
		// [random].rpf
		finds[file] = Lvl4
	case leaf == base+rpfx:
		// [folder]/[container name].rpf
		finds[file] = Lvl5
	default:
		// [folder]/[random].rpf
		finds[file] = Lvl6
	}
	return finds
}

// Usability of search, filename pattern matches.
type Usability uint

const (
	// Lvl1 is the highest usability.
	Lvl1 Usability = iota + 1
	Lvl2
	Lvl3
	Lvl4
	Lvl5
	Lvl6 // Lvl6 is the least usable.
)

// Packages returns the slash separated paths of the RPF packages found under root.
// The stream and data folders are not searched.
func Packages(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && filepath.Dir(path) == filepath.Clean(root) &&
				(d.Name() == Stream.Dir() || d.Name() == Data.Dir()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !strings.EqualFold(filepath.Ext(d.Name()), rpfx) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("packages %w: %s", ErrPathNotFound, root)
	}
	if err != nil {
		return nil, fmt.Errorf("packages %w", err)
	}
	return files, nil
}
