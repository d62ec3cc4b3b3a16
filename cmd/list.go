package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/conneroisu/dossier/internal/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var listCmd = &cobra.Command{
	Use:     "list [document]",
	Aliases: []string{"l", "ls"},
	Short:   "List the folders of a folder tree document",
	Long: `List every folder of a folder tree document in pre-order with its id,
name, label kind and physical location.

Examples:
  dossier list                        # Indented table
  dossier list tree.yaml -o json      # Output as JSON
  dossier list --labels               # Only folders that print a label
  dossier list --kind hanging -o csv  # Hanging labels as CSV`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var (
	listFlags  *DocumentFlags
	listOutput *OutputFlags
	listLabels bool
	listKind   string
)

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddDocumentFlags(listCmd)
	listOutput = AddOutputFlags(listCmd, []string{"table", "json", "yaml", "csv"})
	listCmd.Flags().BoolVarP(&listLabels, "labels", "l", false, "Only list folders with a printable label kind")
	listCmd.Flags().StringVarP(&listKind, "kind", "k", "", "Only list folders of this label kind")

	kinds := make([]string, 0, len(types.LabelKinds()))
	for _, kind := range types.LabelKinds() {
		kinds = append(kinds, string(kind))
	}
	AddFlagValidation(listCmd.Flags(), "kind", func(kind string) error {
		return ValidateChoice("label kind", kind, kinds)
	})
}

// FolderEntry is one listed folder.
type FolderEntry struct {
	Depth            int    `json:"depth" yaml:"depth"`
	ID               string `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	LabelKind        string `json:"label_kind" yaml:"label_kind"`
	PhysicalLocation string `json:"physical_location,omitempty" yaml:"physical_location,omitempty"`
	Path             string `json:"path" yaml:"path"`
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	tree, err := s.readDocument(s.documentPath(args), listFlags.Format)
	if err != nil {
		return err
	}

	entries := listEntries(tree, types.LabelKind(strings.ToLower(listKind)), listLabels)
	if listOutput.Quiet {
		return nil
	}

	out := cmd.OutOrStdout()
	switch listOutput.Output {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(entries)
	case "csv":
		return outputListCSV(out, entries)
	default:
		return outputListTable(out, entries)
	}
}

// listEntries flattens tree in pre-order. An empty kind matches every kind.
func listEntries(tree *types.FolderTree, kind types.LabelKind, printableOnly bool) []FolderEntry {
	entries := []FolderEntry{}
	if tree.IsEmpty() {
		return entries
	}
	tree.Root.Walk(func(folder *types.Folder, depth int) bool {
		if kind != "" && folder.LabelKind != kind {
			return true
		}
		if printableOnly && !folder.LabelKind.Printable() {
			return true
		}
		entries = append(entries, FolderEntry{
			Depth:            depth,
			ID:               folder.ID,
			Name:             folder.Name,
			LabelKind:        string(folder.LabelKind),
			PhysicalLocation: folder.PhysicalLocation,
			Path:             folder.Path(),
		})
		return true
	})
	return entries
}

func outputListTable(w io.Writer, entries []FolderEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tNAME\tLABEL\tLOCATION")
	fmt.Fprintln(tw, "--\t----\t-----\t--------")
	for _, entry := range entries {
		id := entry.ID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\n",
			strings.Repeat("  ", entry.Depth), id, entry.Name, entry.LabelKind, entry.PhysicalLocation)
	}
	fmt.Fprintf(tw, "\nTotal: %d folders\n", len(entries))

	return tw.Flush()
}

func outputListCSV(w io.Writer, entries []FolderEntry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"depth", "id", "name", "label_kind", "physical_location", "path"}); err != nil {
		return err
	}
	for _, entry := range entries {
		record := []string{
			fmt.Sprint(entry.Depth), entry.ID, entry.Name, entry.LabelKind, entry.PhysicalLocation, entry.Path,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
