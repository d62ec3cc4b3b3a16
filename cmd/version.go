package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/conneroisu/dossier/internal/version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the dossier version, commit, build time, Go version and platform.

Examples:
  dossier version                # Short version
  dossier version --detailed     # Every field
  dossier version -o json        # Machine readable`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

var (
	versionOutput   *OutputFlags
	versionDetailed bool
)

func init() {
	rootCmd.AddCommand(versionCmd)

	versionOutput = AddOutputFlags(versionCmd, []string{"text", "json", "yaml"})
	versionCmd.Flags().BoolVar(&versionDetailed, "detailed", false, "Show detailed version information")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := version.Get()
	out := cmd.OutOrStdout()

	switch versionOutput.Output {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(info)
	}

	if versionOutput.Quiet {
		fmt.Fprintln(out, info.Version)
		return nil
	}
	if versionDetailed {
		fmt.Fprintln(out, info.String())
		return nil
	}
	fmt.Fprintf(out, "dossier %s\n", info.Short())
	return nil
}
