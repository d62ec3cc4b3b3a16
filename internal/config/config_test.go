package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/validation"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func()
		expectError bool
		check       func(t *testing.T, config *Config)
	}{
		{
			name: "successful load with defaults",
			setup: func() {
				viper.Reset()
			},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, ".", config.Scan.Root)
				assert.Equal(t, DefaultDocumentPath, config.Document.Path)
				assert.True(t, config.Document.Sort)
				assert.Equal(t, DefaultIndent, config.Document.Indent)
				assert.Equal(t, DefaultOutputDir, config.Render.OutputDir)
				assert.Equal(t, "xelatex", config.Typeset.Command)
				assert.Equal(t, DefaultTypesetTimeout, config.Typeset.Timeout)
				assert.Equal(t, "info", config.Log.Level)
				assert.Equal(t, "text", config.Log.Format)
				assert.NotNil(t, config.Labels.Macros)
				assert.NotNil(t, config.Render.LabelTemplates)
			},
		},
		{
			name: "explicit values",
			setup: func() {
				viper.Reset()
				viper.Set("scan.root", "/srv/archive")
				viper.Set("scan.iterative", true)
				viper.Set("document.path", "tree.yaml")
				viper.Set("document.format", "YAML")
				viper.Set("document.sort", false)
				viper.Set("document.indent", 2)
				viper.Set("render.escape", true)
				viper.Set("labels.macros", map[string]string{"hanging": "tab"})
				viper.Set("typeset.command", "lualatex")
				viper.Set("typeset.timeout", "30s")
				viper.Set("log.level", "debug")
				viper.Set("log.format", "json")
			},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, "/srv/archive", config.Scan.Root)
				assert.True(t, config.Scan.Iterative)
				assert.Equal(t, "tree.yaml", config.Document.Path)
				assert.Equal(t, "yaml", config.Document.Format)
				assert.False(t, config.Document.Sort)
				assert.Equal(t, 2, config.Document.Indent)
				assert.True(t, config.Render.Escape)
				assert.Equal(t, map[string]string{"hanging": "tab"}, config.Labels.Macros)
				assert.Equal(t, "lualatex", config.Typeset.Command)
				assert.Equal(t, 30*time.Second, config.Typeset.Timeout)
				assert.Equal(t, "debug", config.Log.Level)
			},
		},
		{
			name: "unknown document format",
			setup: func() {
				viper.Reset()
				viper.Set("document.format", "xml")
			},
			expectError: true,
		},
		{
			name: "disallowed typeset command",
			setup: func() {
				viper.Reset()
				viper.Set("typeset.command", "sh")
			},
			expectError: true,
		},
		{
			name: "macro for unknown kind",
			setup: func() {
				viper.Reset()
				viper.Set("labels.macros", map[string]string{"poster": "posterlabel"})
			},
			expectError: true,
		},
		{
			name: "macro name with backslash",
			setup: func() {
				viper.Reset()
				viper.Set("labels.macros", map[string]string{"sticker": `\input`})
			},
			expectError: true,
		},
		{
			name: "invalid viper config",
			setup: func() {
				viper.Reset()
				viper.Set("document.indent", "wide")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer viper.Reset()

			config, err := Load()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, config)
				assert.Equal(t, dossiererrors.ErrorTypeConfig, errorType(err))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, config)
			tt.check(t, config)
		})
	}
}

func errorType(err error) dossiererrors.ErrorType {
	for _, et := range []dossiererrors.ErrorType{dossiererrors.ErrorTypeConfig, dossiererrors.ErrorTypeSchema} {
		if dossiererrors.IsType(err, et) {
			return et
		}
	}
	return ""
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	path := filepath.Join(dir, ".dossier.yml")
	content := `scan:
  root: ./archive
  follow_symlinks: true
document:
  with_location: true
render:
  output_dir: out
  label_templates:
    sticker: ./templates/sticker.tex
labels:
  macros:
    sticker: smallsticker
typeset:
  enabled: true
  keep_logs: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./archive", config.Scan.Root)
	assert.True(t, config.Scan.FollowSymlinks)
	assert.True(t, config.Document.WithLocation)
	assert.True(t, config.Document.Sort)
	assert.Equal(t, "out", config.Render.OutputDir)
	assert.Equal(t, "./templates/sticker.tex", config.Render.LabelTemplates["sticker"])
	assert.Equal(t, "smallsticker", config.Labels.Macros["sticker"])
	assert.True(t, config.Typeset.Enabled)
	assert.True(t, config.Typeset.KeepLogs)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("DOSSIER_RENDER_OUTPUT_DIR", "env-out")
	viper.SetEnvPrefix("DOSSIER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("render.output_dir", DefaultOutputDir)

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-out", config.Render.OutputDir)
}

func TestDefault(t *testing.T) {
	viper.Reset()
	config := Default()

	assert.True(t, config.Document.Sort)
	assert.Equal(t, DefaultOutputDir, config.Render.OutputDir)
	assert.NoError(t, validateConfig(config))
}

func TestValidateConfigWithDetails(t *testing.T) {
	viper.Reset()
	config := Default()
	config.Labels.Macros = map[string]string{
		"none":   "nolabel",
		"poster": "x",
	}
	config.Render.LabelTemplates = map[string]string{
		"inside_folder": "inside.tex",
		"hanging":       filepath.Join(t.TempDir(), "missing.tex"),
	}
	config.Log.Format = "xml"

	result := ValidateConfigWithDetails(config)

	assert.False(t, result.Valid)
	fields := map[string]bool{}
	for _, e := range result.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["labels.macros.poster"])
	assert.True(t, fields["render.label_templates.inside_folder"])
	assert.True(t, fields["log.format"])
	assert.False(t, fields["labels.macros.none"])

	warnings := map[string]bool{}
	for _, w := range result.Warnings {
		warnings[w.Field] = true
	}
	assert.True(t, warnings["labels.macros.none"])
	assert.True(t, warnings["render.label_templates.hanging"])

	out := result.String()
	assert.Contains(t, out, "Validation Errors:")
	assert.Contains(t, out, "Validation Warnings:")
}

func TestValidateMacroWithoutTemplate(t *testing.T) {
	viper.Reset()
	template := filepath.Join(t.TempDir(), "hanging.tex")
	require.NoError(t, os.WriteFile(template, []byte(`\newcommand{\tab}[3]{#1}##CONTENT##`), 0o644))

	config := Default()
	config.Labels.Macros = map[string]string{
		"hanging": "tab",
		"sticker": "smallsticker",
	}
	config.Render.LabelTemplates = map[string]string{"hanging": template}

	result := ValidateConfigWithDetails(config)

	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "labels.macros.sticker", result.Warnings[0].Field)
	assert.Contains(t, result.Warnings[0].Message, `does not define \smallsticker`)
	assert.Contains(t, result.Warnings[0].Suggestions[0], "render.label_templates.sticker")

	config.Labels.Macros = map[string]string{"sticker": "stickerlabel"}
	assert.Empty(t, ValidateConfigWithDetails(config).Warnings)
}

func TestValidateTypesetCommandUsesEngineAllowlist(t *testing.T) {
	viper.Reset()
	config := Default()
	for engine := range validation.LatexEngines {
		config.Typeset.Command = engine
		assert.NoError(t, validateConfig(config), engine)
	}

	config.Typeset.Command = "latexmk"
	err := validateConfig(config)
	require.Error(t, err)
	assert.Equal(t, dossiererrors.CodeInvalidConfig, dossiererrors.CodeOf(err))
}
