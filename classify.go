package rpfsort

// Package file classify.go contains the stream and data classification rules.

import (
	"path/filepath"
	"slices"
	"strings"
)

// Bucket is the destination folder of a classified file.
type Bucket uint

const (
	None   Bucket = iota // None files are left where they were extracted.
	Stream               // Stream files are the streamed game assets, models, textures and maps.
	Data                 // Data files are the metadata loaded with data_file entries.
)

func (b Bucket) String() string {
	switch b {
	case Stream:
		return "stream"
	case Data:
		return "data"
	default:
		return "none"
	}
}

// Dir returns the folder name of the bucket, or an empty string for None.
func (b Bucket) Dir() string {
	switch b {
	case Stream, Data:
		return b.String()
	default:
		return ""
	}
}

// Rules are the filename extension and folder name conventions used to classify
// the extracted files. Extensions are stored without the leading dot and all
// matches are case-insensitive, as many packages are built on Windows.
type Rules struct {
	Stream   []string `toml:"stream,omitempty"`   // Stream lists the streamed asset extensions.
	Data     []string `toml:"data,omitempty"`     // Data lists the data file extensions.
	Promoted []string `toml:"promoted,omitempty"` // Promoted folders send every file within to stream.
	Ignored  []string `toml:"ignored,omitempty"`  // Ignored folders are never sorted.
}

// DefaultRules returns the conventions of a FiveM resource.
func DefaultRules() Rules {
	return Rules{
		Stream: []string{
			"yft", "ytd", "ydr", "ydd", "ybn", "ymap", "ytyp",
			"awc", "cut", "rel", "ynv", "ycd", "ynd",
			"ypdb", "ysc", "yvr", "xtd",
		},
		Data:     []string{"meta", "xml", "dat"},
		Promoted: []string{"vehicles", "weapons", "peds", "props"},
		Ignored: []string{
			"audio", "lang", "common.rpf",
			"x64a.rpf", "x64b.rpf", "x64c.rpf", "x64d.rpf", "x64e.rpf", "x64f.rpf", "x64g.rpf",
			"dlc_patch", "update", "platform",
		},
	}
}

// Merge returns the rules with any empty list replaced by its default.
func (r Rules) Merge() Rules {
	def := DefaultRules()
	if len(r.Stream) == 0 {
		r.Stream = def.Stream
	}
	if len(r.Data) == 0 {
		r.Data = def.Data
	}
	if len(r.Promoted) == 0 {
		r.Promoted = def.Promoted
	}
	if len(r.Ignored) == 0 {
		r.Ignored = def.Ignored
	}
	return r
}

// Classify returns the bucket of the named file, a slash or OS separated path
// relative to the extraction root.
//
//	rpfsort.DefaultRules().Classify("vehicles.ytd")   // Stream
//	rpfsort.DefaultRules().Classify("handling.meta")  // Data
//	rpfsort.DefaultRules().Classify("audio/sfx.awc")  // None
func (r Rules) Classify(name string) Bucket {
	name = filepath.ToSlash(name)
	dirs := strings.Split(name, "/")
	base := dirs[len(dirs)-1]
	dirs = dirs[:len(dirs)-1]
	if anyFold(dirs, r.Ignored) {
		return None
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	switch {
	case "."+ext == rpfx:
		// nested packages are extracted, not sorted
		return None
	case anyFold(dirs, r.Promoted), containsFold(r.Stream, ext):
		return Stream
	case containsFold(r.Data, ext):
		return Data
	}
	return None
}

// anyFold returns true if any of the names is in the list.
func anyFold(names, list []string) bool {
	return slices.ContainsFunc(names, func(name string) bool {
		return containsFold(list, name)
	})
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(v string) bool {
		return strings.EqualFold(strings.TrimPrefix(v, "."), s)
	})
}
