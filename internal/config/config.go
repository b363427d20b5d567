package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sitewright/queryscan/internal/extract"
)

// Config holds user-overridable extraction settings.
// Loaded from .queryscanrc in the site root.
type Config struct {
	Extract ExtractConfig `yaml:"extract"`

	// IgnorePatterns are extra directory patterns to skip during discovery,
	// added to the built-in ignore set.
	IgnorePatterns []string `yaml:"ignore_patterns"`
}

// ExtractConfig holds the syntactic anchor overrides.
type ExtractConfig struct {
	// Tag is the template-tag identifier marking query text.
	Tag string `yaml:"tag"`
	// Component is the static-query element name.
	Component string `yaml:"component"`
	// Hook is the query-fetching function name.
	Hook string `yaml:"hook"`
	// Module is the import source the hook must resolve to.
	Module string `yaml:"module"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// Load reads .queryscanrc from the given directory.
// Returns default config if the file doesn't exist or doesn't parse.
func Load(dir string) *Config {
	cfg := DefaultConfig()

	path := filepath.Join(dir, ".queryscanrc")
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // file not found or unreadable, use defaults
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig() // invalid YAML, use defaults
	}

	return cfg
}

// Options maps the config onto extraction options, falling back to the
// standard anchors for unset fields.
func (c *Config) Options() extract.Options {
	d := extract.DefaultOptions()
	opts := extract.Options{
		Tag:       c.Extract.Tag,
		Component: c.Extract.Component,
		Hook:      c.Extract.Hook,
		Module:    c.Extract.Module,
	}
	if opts.Tag == "" {
		opts.Tag = d.Tag
	}
	if opts.Component == "" {
		opts.Component = d.Component
	}
	if opts.Hook == "" {
		opts.Hook = d.Hook
	}
	if opts.Module == "" {
		opts.Module = d.Module
	}
	return opts
}
