// Package cmd provides the command-line interface for dossier.
//
// Configuration System:
//
//	Settings are read from several sources with clear precedence:
//	1. Command-line flags - highest priority
//	2. Individual environment variables (DOSSIER_DOCUMENT_PATH, etc.)
//	3. The configuration file named by --config or DOSSIER_CONFIG_FILE
//	4. .dossier.yml in the current directory - lowest priority
//
//	A .env file in the current directory is loaded into the environment
//	before any of these are read.
//
// Environment Variables:
//
//	DOSSIER_CONFIG_FILE: Path to custom configuration file
//	DOSSIER_SCAN_ROOT: Directory to scan
//	DOSSIER_RENDER_OUTPUT_DIR: Where generated .tex files are written
//	And more following the DOSSIER_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dossier",
	Short: "Catalogue a numbered filing hierarchy and print its labels",
	Long: `Dossier turns a hierarchy of numbered directories ("1_Work/12_Projects")
into a portable folder tree document, a printable tree diagram and sheets of
folder labels typeset with LaTeX.

Quick Start:
  dossier scan ~/Documents        Build folder_tree.json from a directory
  dossier diagram                 Render the tree as a forest diagram
  dossier labels                  Render hanging and sticker label sheets
  dossier validate                Check a folder tree document
  dossier list                    Print the folder tree

Command Aliases (for faster typing):
  scan (s), diagram (d), labels (lb), validate (v), list (l), watch (w)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .dossier.yml, can also use DOSSIER_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))

	AddFlagValidation(rootCmd.PersistentFlags(), "log-level", func(level string) error {
		return ValidateChoice("log level", level, []string{"debug", "info", "warn", "error"})
	})
	AddFlagValidation(rootCmd.PersistentFlags(), "log-format", func(format string) error {
		return ValidateChoice("log format", format, []string{"text", "json"})
	})
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. DOSSIER_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .dossier.yml in current directory
func initConfig() {
	// A missing .env file is not an error
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("DOSSIER_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dossier")
	}

	viper.SetEnvPrefix("DOSSIER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerEnvKeys()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// registerEnvKeys makes every configuration key visible to viper.Unmarshal
// so that it can be overridden from the environment alone.
func registerEnvKeys() {
	for _, key := range []string{
		"scan.root", "scan.iterative", "scan.follow_symlinks", "scan.keep_root_id",
		"document.path", "document.format", "document.sort", "document.indent", "document.with_location",
		"render.diagram_template", "render.output_dir", "render.escape", "render.iterative",
		"typeset.enabled", "typeset.command", "typeset.keep_logs", "typeset.timeout",
	} {
		_ = viper.BindEnv(key)
	}
}
