// Package internal contains the implementation packages of the dossier CLI.
//
// # Package Organization
//
//   - types: the folder tree model, label kinds and numeric id ordering
//   - naming: parsing of "<id>_<name>" directory names
//   - scanner: builds a folder tree from a directory hierarchy
//   - document: JSON and YAML folder tree documents
//   - validation: tree rules and argument checks for external commands
//   - renderer: forest diagram rendering, LaTeX escaping and templates
//   - labels: per-kind label line dispatch and label sheets
//   - build: typesetting .tex files with a LaTeX engine
//   - watcher: debounced directory watching
//   - config: viper backed configuration with validation
//   - logging: structured logging on log/slog
//   - errors: the DossierError type and an error collector
//   - version: build information
//
// # Data Flow
//
// A scan produces a types.FolderTree, document exports it and imports it
// back. The renderer and the label dispatcher consume an imported tree and
// produce LaTeX sources which build may typeset into PDFs.
//
// Traversals that can be deep have an iterative variant with the same
// output. Node level failures are collected and reported; they never stop
// the rest of the tree from being processed.
package internal
