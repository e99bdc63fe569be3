package config

import (
	"time"

	"github.com/Defacto2/rpfsort"
	"github.com/urfave/cli/v3"
)

// Paths holds the three inputs of an extraction run
type Paths struct {
	Tool    string
	Archive string
	Output  string
}

// Flags returns CLI flags for the paths
func (c *Paths) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tool",
			Aliases:     []string{"t"},
			Usage:       "Path of the RPF extraction tool (rpf-cli)",
			Destination: &c.Tool,
			Sources:     cli.EnvVars("RPFSORT_TOOL"),
		},
		&cli.StringFlag{
			Name:        "archive",
			Aliases:     []string{"a"},
			Usage:       "RPF package, or a zip, 7z, rar or tar download holding one",
			Destination: &c.Archive,
			Sources:     cli.EnvVars("RPFSORT_ARCHIVE"),
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Existing directory that receives the stream and data folders",
			Destination: &c.Output,
			Sources:     cli.EnvVars("RPFSORT_OUTPUT"),
		},
	}
}

// Extract holds the extraction options
type Extract struct {
	Args        []string
	Timeout     time.Duration
	Nested      bool
	Unwrap      bool
	AutoCleanup bool
	InPlace     bool
	Pack        string
	List        bool
}

// Flag names that fall back to the settings file when not set
const (
	FlagArgs        = "arg"
	FlagTimeout     = "timeout"
	FlagNested      = "nested"
	FlagUnwrap      = "unwrap"
	FlagAutoCleanup = "auto-cleanup"
)

// Flags returns CLI flags for the extraction options
func (c *Extract) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        FlagArgs,
			Usage:       "Tool argument template, repeat for each argument; {archive} and {output} are replaced",
			Destination: &c.Args,
		},
		&cli.DurationFlag{
			Name:        FlagTimeout,
			Usage:       "Time allowed for the extraction tool",
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("RPFSORT_TIMEOUT"),
		},
		&cli.BoolFlag{
			Name:        FlagNested,
			Usage:       "Extract and sort the RPF packages found within the package",
			Destination: &c.Nested,
		},
		&cli.BoolFlag{
			Name:        FlagUnwrap,
			Usage:       "Unpack zip, 7z, rar and tar downloads to find the RPF package",
			Destination: &c.Unwrap,
		},
		&cli.BoolFlag{
			Name:        FlagAutoCleanup,
			Usage:       "Remove the temporary folders of nested packages",
			Destination: &c.AutoCleanup,
		},
		&cli.BoolFlag{
			Name:        "in-place",
			Usage:       "Run the tool on the archive where it is, instead of on a copy in the output directory",
			Destination: &c.InPlace,
		},
		&cli.StringFlag{
			Name:        "pack",
			Usage:       "Also pack the stream and data folders into this zip file",
			Destination: &c.Pack,
			TakesFile:   true,
		},
		&cli.BoolFlag{
			Name:        "list",
			Aliases:     []string{"l"},
			Usage:       "List every moved file in the report",
			Destination: &c.List,
		},
	}
}

// Job returns the extraction run for the paths. Options that were not set
// on the command line, as reported by isSet, are taken from the settings.
// An invalid timeout in the settings returns an error.
func (c *Extract) Job(p Paths, s Settings, isSet func(name string) bool) (rpfsort.Job, error) {
	j := rpfsort.Job{
		Paths: rpfsort.Paths{
			Tool:    p.Tool,
			Archive: p.Archive,
			Output:  p.Output,
		},
		Rules:       s.Rules.Merge(),
		Args:        c.Args,
		Timeout:     c.Timeout,
		Nested:      c.Nested,
		Unwrap:      c.Unwrap,
		AutoCleanup: c.AutoCleanup,
		InPlace:     c.InPlace,
	}
	if !isSet(FlagArgs) {
		j.Args = s.Args
	}
	if !isSet(FlagTimeout) {
		d, err := s.Duration()
		if err != nil {
			return j, err
		}
		j.Timeout = d
	}
	if !isSet(FlagNested) {
		j.Nested = s.Nested
	}
	if !isSet(FlagUnwrap) {
		j.Unwrap = s.Unwrap
	}
	if !isSet(FlagAutoCleanup) {
		j.AutoCleanup = s.AutoCleanup
	}
	return j, nil
}
