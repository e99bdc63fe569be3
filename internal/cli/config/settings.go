package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Defacto2/rpfsort"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// SettingsName is the filename of the persisted settings
const SettingsName = "rpfsort.toml"

// Settings are persisted between runs so the tool location and
// the last output directory do not need to be given every time
type Settings struct {
	Tool          string        `toml:"tool"`
	LastDirectory string        `toml:"last_directory"`
	AutoCleanup   bool          `toml:"auto_cleanup"`
	Nested        bool          `toml:"nested"`
	Unwrap        bool          `toml:"unwrap"`
	Args          []string      `toml:"args,omitempty"`
	Timeout       string        `toml:"timeout,omitempty"`
	Rules         rpfsort.Rules `toml:"rules"`
}

// DefaultSettings returns the settings used when no file exists
func DefaultSettings() Settings {
	return Settings{
		AutoCleanup: true,
		Unwrap:      true,
	}
}

// Duration returns the parsed timeout, or zero when it is empty
func (s Settings) Duration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid timeout in settings", goerr.V("timeout", s.Timeout))
	}
	return d, nil
}

// File holds the settings file location
type File struct {
	Path string
}

// Flags returns CLI flags for the settings file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Settings file, defaults to rpfsort.toml in the user config directory",
			Destination: &c.Path,
			Sources:     cli.EnvVars("RPFSORT_CONFIG"),
			TakesFile:   true,
		},
	}
}

// Name returns the settings file path, falling back to the user config directory
func (c *File) Name() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to find the user config directory")
	}
	return filepath.Join(dir, "rpfsort", SettingsName), nil
}

// Load reads the settings file. A missing file returns the default settings.
func (c *File) Load() (Settings, error) {
	s := DefaultSettings()
	name, err := c.Name()
	if err != nil {
		return s, err
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, goerr.Wrap(err, "failed to read settings", goerr.V("path", name))
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), goerr.Wrap(err, "failed to parse settings", goerr.V("path", name))
	}
	return s, nil
}

// Save writes the settings file, creating its directory
func (c *File) Save(s Settings) error {
	name, err := c.Name()
	if err != nil {
		return err
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return goerr.Wrap(err, "failed to encode settings")
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create settings directory", goerr.V("path", name))
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write settings", goerr.V("path", name))
	}
	return nil
}
