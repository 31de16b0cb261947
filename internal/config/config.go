// Package config loads the refgen configuration file and applies
// REFGEN_* environment overrides.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/refgen/internal/errors"
)

// Config represents the application configuration
type Config struct {
	// Project is the :project: option stamped on every directive.
	Project string `yaml:"project"`
	// SpecDir holds the per-type YAML spec documents.
	SpecDir string `yaml:"spec_dir"`
	// SymbolDBDir holds the extraction tool's per-type XML files.
	SymbolDBDir string `yaml:"symbol_db_dir"`
	// OutputDir receives the generated artifacts and is swept for orphans.
	OutputDir string `yaml:"output_dir"`
	// Copyright is the holder line in every artifact's provenance header,
	// e.g. "2019, J. D. Mitchell". Optional.
	Copyright string `yaml:"copyright,omitempty"`
	// GeneratorStamp optionally names a file whose mtime stands in for the
	// generator binary's in staleness decisions. Defaults to the running
	// executable.
	GeneratorStamp string `yaml:"generator_stamp,omitempty"`
	// HistoryDB is the sqlite file recording run summaries. Empty disables
	// history.
	HistoryDB string `yaml:"history_db,omitempty"`

	Watch WatchConfig `yaml:"watch,omitempty"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	// Debounce collapses bursts of spec-directory events into one run.
	Debounce time.Duration `yaml:"debounce,omitempty"`
	// RescanInterval forces a periodic full run; it catches symbol-database
	// changes, which the filesystem watcher does not cover.
	RescanInterval time.Duration `yaml:"rescan_interval,omitempty"`
	// MetricsAddr, when set, serves Prometheus metrics on that address.
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// Defaults applied by Load for unset fields.
const (
	DefaultDebounce       = 2 * time.Second
	DefaultRescanInterval = 5 * time.Minute
)

// Load reads the configuration file at path, applies environment overrides,
// defaults and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "cannot read configuration")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "cannot parse configuration")
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"REFGEN_PROJECT", &c.Project},
		{"REFGEN_SPEC_DIR", &c.SpecDir},
		{"REFGEN_SYMBOL_DB_DIR", &c.SymbolDBDir},
		{"REFGEN_OUTPUT_DIR", &c.OutputDir},
		{"REFGEN_HISTORY_DB", &c.HistoryDB},
		{"REFGEN_METRICS_ADDR", &c.Watch.MetricsAddr},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok {
			*o.target = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = DefaultDebounce
	}
	if c.Watch.RescanInterval <= 0 {
		c.Watch.RescanInterval = DefaultRescanInterval
	}
}

func (c *Config) validate() error {
	switch {
	case c.Project == "":
		return errors.ConfigInvalid("project", "must not be empty")
	case c.SpecDir == "":
		return errors.ConfigInvalid("spec_dir", "must not be empty")
	case c.SymbolDBDir == "":
		return errors.ConfigInvalid("symbol_db_dir", "must not be empty")
	case c.OutputDir == "":
		return errors.ConfigInvalid("output_dir", "must not be empty")
	}
	return nil
}

// GeneratorMTime resolves the generator's own modification time: the
// configured stamp file if set, otherwise the running executable.
func (c *Config) GeneratorMTime() (time.Time, error) {
	path := c.GeneratorStamp
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return time.Time{}, errors.InternalError("cannot locate executable", err)
		}
		path = exe
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "cannot stat generator stamp")
	}
	return info.ModTime(), nil
}

const initTemplate = `# refgen configuration
project: myproject
spec_dir: docs/yml
symbol_db_dir: docs/build/xml
output_dir: docs/source/_generated
# copyright: "2019, J. D. Mitchell"
# history_db: .refgen/history.db
# watch:
#   debounce: 2s
#   rescan_interval: 5m
#   metrics_addr: ":9090"
`

// Init scaffolds a starter configuration file at path. It refuses to
// overwrite an existing file unless force is set.
func Init(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.ConfigInvalid("path", "configuration file already exists (use --force to overwrite)")
		}
	}
	return os.WriteFile(path, []byte(initTemplate), 0o644)
}
