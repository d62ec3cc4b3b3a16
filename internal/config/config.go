// Package config provides configuration management for dossier using Viper
// for loading from files, environment variables, and command-line flags.
//
// Values are read from .dossier.yml (or the file named by --config or
// DOSSIER_CONFIG_FILE) and may be overridden by DOSSIER_ prefixed
// environment variables, where "." in a key becomes "_"
// (DOSSIER_RENDER_OUTPUT_DIR overrides render.output_dir).
package config

import (
	"fmt"
	"strings"
	"time"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultDocumentPath   = "folder_tree.json"
	DefaultIndent         = 4
	DefaultOutputDir      = "build"
	DefaultTypesetCommand = "xelatex"
	DefaultTypesetTimeout = 2 * time.Minute
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

type Config struct {
	Scan     ScanConfig     `mapstructure:"scan" yaml:"scan"`
	Document DocumentConfig `mapstructure:"document" yaml:"document"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Labels   LabelsConfig   `mapstructure:"labels" yaml:"labels"`
	Typeset  TypesetConfig  `mapstructure:"typeset" yaml:"typeset"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type ScanConfig struct {
	Root           string `mapstructure:"root" yaml:"root"`
	Iterative      bool   `mapstructure:"iterative" yaml:"iterative"`
	FollowSymlinks bool   `mapstructure:"follow_symlinks" yaml:"follow_symlinks"`
	// KeepRootID keeps a numeric prefix on the root directory as its id.
	KeepRootID bool `mapstructure:"keep_root_id" yaml:"keep_root_id"`
}

type DocumentConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
	// Format is json or yaml; empty infers it from the path extension.
	Format       string `mapstructure:"format" yaml:"format"`
	Sort         bool   `mapstructure:"sort" yaml:"sort"`
	Indent       int    `mapstructure:"indent" yaml:"indent"`
	WithLocation bool   `mapstructure:"with_location" yaml:"with_location"`
}

type RenderConfig struct {
	DiagramTemplate string            `mapstructure:"diagram_template" yaml:"diagram_template"`
	LabelTemplates  map[string]string `mapstructure:"label_templates" yaml:"label_templates"`
	OutputDir       string            `mapstructure:"output_dir" yaml:"output_dir"`
	Escape          bool              `mapstructure:"escape" yaml:"escape"`
	Iterative       bool              `mapstructure:"iterative" yaml:"iterative"`
}

type LabelsConfig struct {
	Macros map[string]string `mapstructure:"macros" yaml:"macros"`
}

type TypesetConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Command  string        `mapstructure:"command" yaml:"command"`
	KeepLogs bool          `mapstructure:"keep_logs" yaml:"keep_logs"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// Load reads the configuration held by viper, applies defaults and validates
// the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, dossiererrors.NewConfigError(dossiererrors.CodeInvalidConfig, "cannot decode configuration").WithCause(err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	var config Config
	config.Document.Sort = true
	applyDefaults(&config)
	return &config
}

func applyDefaults(config *Config) {
	if config.Scan.Root == "" {
		config.Scan.Root = "."
	}

	if config.Document.Path == "" {
		config.Document.Path = DefaultDocumentPath
	}
	config.Document.Format = strings.ToLower(strings.TrimSpace(config.Document.Format))
	if config.Document.Indent == 0 {
		config.Document.Indent = DefaultIndent
	}
	// Sorted export unless explicitly disabled
	if !viper.IsSet("document.sort") {
		config.Document.Sort = true
	}

	if config.Render.OutputDir == "" {
		config.Render.OutputDir = DefaultOutputDir
	}
	if config.Render.LabelTemplates == nil {
		config.Render.LabelTemplates = make(map[string]string)
	}

	if config.Labels.Macros == nil {
		config.Labels.Macros = make(map[string]string)
	}

	if config.Typeset.Command == "" {
		config.Typeset.Command = DefaultTypesetCommand
	}
	if config.Typeset.Timeout == 0 {
		config.Typeset.Timeout = DefaultTypesetTimeout
	}

	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}
}
