// Package config loads srcfix settings from an optional YAML file layered over
// built-in defaults that match the Hohma project layout.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"srcfix/internal/emailsync"
	"srcfix/internal/files"
	"srcfix/internal/ignore"
	"srcfix/internal/printfix"
)

// DefaultFileName is looked up in the working directory when no explicit
// config path is given.
const DefaultFileName = ".srcfix.yaml"

type Config struct {
	SourceDir   string         `yaml:"source_dir"`
	Extension   string         `yaml:"extension"`
	ExcludeDirs []string       `yaml:"exclude_dirs"`
	IgnoreFile  string         `yaml:"ignore_file"`
	Workers     int            `yaml:"workers"`
	Logger      printfix.Rules `yaml:"logger"`
	Legal       LegalConfig    `yaml:"legal"`
}

type LegalConfig struct {
	Plist       string   `yaml:"plist"`
	Key         string   `yaml:"key"`
	Placeholder string   `yaml:"placeholder"`
	BaseDir     string   `yaml:"base_dir"`
	Documents   []string `yaml:"documents"`
}

func Default() Config {
	return Config{
		SourceDir:   "Hohma",
		Extension:   ".swift",
		ExcludeDirs: files.DefaultExcludeDirs(),
		IgnoreFile:  ignore.FileName,
		Logger:      printfix.DefaultRules(),
		Legal: LegalConfig{
			Plist:       emailsync.DefaultPlistPath,
			Key:         emailsync.DefaultKey,
			Placeholder: emailsync.DefaultPlaceholder,
			BaseDir:     ".",
			Documents:   emailsync.DefaultDocuments(),
		},
	}
}

// Load overlays the YAML file at path on Default and applies environment
// overrides. An empty path falls back to DefaultFileName, which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("SRCFIX_SOURCE_DIR")); v != "" {
		c.SourceDir = v
	}
	if v := strings.TrimSpace(os.Getenv("SRCFIX_PLIST")); v != "" {
		c.Legal.Plist = v
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.SourceDir) == "" {
		return errors.New("source_dir is required")
	}
	if !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("extension %q must start with a dot", c.Extension)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if strings.TrimSpace(c.Legal.Key) == "" {
		return errors.New("legal.key is required")
	}
	return nil
}

// FileOptions builds discovery options for root, reading the ignore file from
// root when one is configured.
func (c Config) FileOptions(root string) (files.Options, error) {
	opts := files.Options{Extension: c.Extension, ExcludeDirs: c.ExcludeDirs}
	if c.IgnoreFile == "" {
		return opts, nil
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return opts, nil
	}
	matcher, err := ignore.LoadOptional(filepath.Join(root, c.IgnoreFile))
	if err != nil {
		return opts, fmt.Errorf("load ignore file: %w", err)
	}
	opts.Ignore = matcher
	return opts, nil
}

func (c Config) SyncOptions() emailsync.Options {
	return emailsync.Options{
		PlistPath:   c.Legal.Plist,
		Key:         c.Legal.Key,
		Placeholder: c.Legal.Placeholder,
		Documents:   c.Legal.Documents,
		BaseDir:     c.Legal.BaseDir,
	}
}
