// Package config holds the settings of a scan. Values come from built-in
// defaults, then a YAML file, then command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/springguard/format"
	"github.com/dhamidi/springguard/project"
)

// FileName is looked up in the project directory when no file is given.
const FileName = ".springguard.yaml"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Parser          string   `yaml:"parser"`
	Format          string   `yaml:"format"`
	SourceRoots     []string `yaml:"sourceRoots"`
	SkipDirs        []string `yaml:"skipDirs"`
	IncludeTests    bool     `yaml:"includeTests"`
	UnguardedOnly   bool     `yaml:"unguardedOnly"`
	FailOnUnguarded bool     `yaml:"failOnUnguarded"`
	// Jobs bounds the number of files parsed at once; 0 means one per CPU.
	Jobs int `yaml:"jobs"`
}

func Default() *Config {
	return &Config{
		Parser:   project.ParserNative,
		Format:   "text",
		SkipDirs: []string{".git", "target", "build", "node_modules"},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find loads explicit when set, else the project's own config file when it
// exists, else the defaults.
func Find(projectDir, explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path := filepath.Join(projectDir, FileName)
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) Validate() error {
	if !slices.Contains(project.ParserNames(), c.Parser) {
		return fmt.Errorf("%w: parser %q is not one of %v", ErrInvalid, c.Parser, project.ParserNames())
	}
	if !slices.Contains(format.Names(), c.Format) {
		return fmt.Errorf("%w: format %q is not one of %v", ErrInvalid, c.Format, format.Names())
	}
	if c.Jobs < 0 {
		return fmt.Errorf("%w: jobs must not be negative", ErrInvalid)
	}
	return nil
}

func (c *Config) ProjectOptions() project.Options {
	return project.Options{
		SourceRoots:  c.SourceRoots,
		SkipDirs:     c.SkipDirs,
		IncludeTests: c.IncludeTests,
	}
}
