package document

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canonicalJSON is the example document for the 0_Documents hierarchy.
const canonicalJSON = `{
    "name": "Documents",
    "id": "",
    "label_kind": "none",
    "subfolders": [
        {
            "name": "Work",
            "id": "1",
            "label_kind": "hanging",
            "subfolders": [
                {
                    "name": "Projects",
                    "id": "12",
                    "label_kind": "none",
                    "subfolders": []
                }
            ]
        },
        {
            "name": "Personal",
            "id": "2",
            "label_kind": "none",
            "subfolders": [
                {
                    "name": "Vacation",
                    "id": "24",
                    "label_kind": "sticker",
                    "subfolders": []
                }
            ]
        }
    ]
}
`

func exampleTree() *types.FolderTree {
	root := types.NewFolder("", "Documents")
	work := types.NewFolder("1", "Work")
	work.LabelKind = types.LabelHanging
	work.AddChild(types.NewFolder("12", "Projects"))
	personal := types.NewFolder("2", "Personal")
	vacation := types.NewFolder("24", "Vacation")
	vacation.LabelKind = types.LabelSticker
	personal.AddChild(vacation)
	root.AddChild(work)
	root.AddChild(personal)
	return types.NewFolderTree(root)
}

func TestEncodeCanonicalJSON(t *testing.T) {
	doc, err := Export(exampleTree(), ExportOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, FormatJSON, 4))

	assert.Equal(t, canonicalJSON, buf.String())
}

func TestDecodeCanonicalJSON(t *testing.T) {
	tree, err := Decode(strings.NewReader(canonicalJSON), FormatJSON)
	require.NoError(t, err)

	assert.True(t, tree.Equal(exampleTree()))
	work := tree.Root.Children[0]
	assert.Same(t, tree.Root, work.Parent())
	assert.Equal(t, "Work", work.Children[0].ParentName())
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			original := exampleTree()
			original.Root.Children[1].PhysicalLocation = "Cabinet B, drawer 2"

			doc, err := Export(original, ExportOptions{})
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, doc, format, 2))

			decoded, err := Decode(&buf, format)
			require.NoError(t, err)
			assert.True(t, original.Equal(decoded))
		})
	}

	t.Run("in memory", func(t *testing.T) {
		original := exampleTree()
		doc, err := Export(original, ExportOptions{})
		require.NoError(t, err)

		imported, err := Import(doc.ToMap())
		require.NoError(t, err)
		assert.True(t, original.Equal(imported))
	})
}

func TestExportSortDoesNotMutateTree(t *testing.T) {
	root := types.NewFolder("", "root")
	root.AddChild(types.NewFolder("10", "ten"))
	root.AddChild(types.NewFolder("2", "two"))
	tree := types.NewFolderTree(root)

	sorted, err := Export(tree, ExportOptions{Sort: true})
	require.NoError(t, err)
	assert.Equal(t, "2", sorted.Subfolders[0].ID)
	assert.Equal(t, "10", sorted.Subfolders[1].ID)

	unsorted, err := Export(tree, ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, "10", unsorted.Subfolders[0].ID)

	assert.Equal(t, "10", tree.Root.Children[0].ID, "tree keeps its order")
}

func TestImportPreservesDocumentOrder(t *testing.T) {
	input := `{"name":"r","id":"","label_kind":"none","subfolders":[
		{"name":"b","id":"9","label_kind":"none","subfolders":[]},
		{"name":"a","id":"1","label_kind":"none","subfolders":[]}]}`

	tree, err := Decode(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "9", tree.Root.Children[0].ID)
	assert.Equal(t, "1", tree.Root.Children[1].ID)
}

func TestImportKeepsUnknownLabelKind(t *testing.T) {
	input := `{"name":"r","id":"","label_kind":"poster","subfolders":[]}`

	tree, err := Decode(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, types.LabelKind("poster"), tree.Root.LabelKind)
	assert.False(t, tree.Root.LabelKind.Valid())
}

func TestImportSchemaErrors(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectedCode string
		expectedPath string
	}{
		{
			name:         "root missing id",
			input:        `{"name":"r","label_kind":"none","subfolders":[]}`,
			expectedCode: dossiererrors.CodeMissingField,
			expectedPath: "$",
		},
		{
			name:         "nested missing label_kind",
			input:        `{"name":"r","id":"","label_kind":"none","subfolders":[{"name":"a","id":"1","subfolders":[]}]}`,
			expectedCode: dossiererrors.CodeMissingField,
			expectedPath: "$.subfolders[0]",
		},
		{
			name:         "missing subfolders",
			input:        `{"name":"r","id":"","label_kind":"none"}`,
			expectedCode: dossiererrors.CodeMissingField,
			expectedPath: "$",
		},
		{
			name:         "numeric id",
			input:        `{"name":"r","id":0,"label_kind":"none","subfolders":[]}`,
			expectedCode: dossiererrors.CodeMalformed,
			expectedPath: "$",
		},
		{
			name:         "null name",
			input:        `{"name":null,"id":"","label_kind":"none","subfolders":[]}`,
			expectedCode: dossiererrors.CodeMalformed,
			expectedPath: "$",
		},
		{
			name:         "subfolders not a list",
			input:        `{"name":"r","id":"","label_kind":"none","subfolders":{}}`,
			expectedCode: dossiererrors.CodeMalformed,
			expectedPath: "$",
		},
		{
			name:         "subfolder not a mapping",
			input:        `{"name":"r","id":"","label_kind":"none","subfolders":["a"]}`,
			expectedCode: dossiererrors.CodeMalformed,
			expectedPath: "$.subfolders[0]",
		},
		{
			name:         "physical location not a string",
			input:        `{"name":"r","id":"","label_kind":"none","physical_location":3,"subfolders":[]}`,
			expectedCode: dossiererrors.CodeMalformed,
			expectedPath: "$",
		},
		{
			name:         "root not a mapping",
			input:        `[]`,
			expectedCode: dossiererrors.CodeMalformed,
			expectedPath: "$",
		},
		{
			name:         "not JSON",
			input:        `{"name":`,
			expectedCode: dossiererrors.CodeMalformed,
		},
		{
			name:         "empty",
			input:        ``,
			expectedCode: dossiererrors.CodeMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Decode(strings.NewReader(tt.input), FormatJSON)
			require.Error(t, err)
			assert.Nil(t, tree)
			assert.True(t, dossiererrors.IsSchemaError(err))
			assert.Equal(t, tt.expectedCode, dossiererrors.CodeOf(err))

			var de *dossiererrors.DossierError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.expectedPath, de.Path)
		})
	}
}

func TestImportYAMLMissingField(t *testing.T) {
	input := "name: r\nid: \"\"\nsubfolders: []\n"

	_, err := Decode(strings.NewReader(input), FormatYAML)

	require.Error(t, err)
	assert.Equal(t, dossiererrors.CodeMissingField, dossiererrors.CodeOf(err))
	assert.Contains(t, err.Error(), `"label_kind"`)
}

func TestExportWithLocation(t *testing.T) {
	tree := exampleTree()
	tree.Root.Children[0].PhysicalLocation = "Shelf 1"

	doc, err := Export(tree, ExportOptions{WithLocation: true})
	require.NoError(t, err)

	require.NotNil(t, doc.PhysicalLocation)
	assert.Equal(t, "", *doc.PhysicalLocation)
	require.NotNil(t, doc.Subfolders[0].PhysicalLocation)
	assert.Equal(t, "Shelf 1", *doc.Subfolders[0].PhysicalLocation)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, FormatJSON, 4))
	out := buf.String()
	assert.Less(t, strings.Index(out, `"physical_location"`), strings.Index(out, `"subfolders"`),
		"physical_location is written before subfolders")

	plain, err := Export(exampleTree(), ExportOptions{})
	require.NoError(t, err)
	assert.Nil(t, plain.PhysicalLocation)
}

func TestExportEmptyTree(t *testing.T) {
	_, err := Export(&types.FolderTree{}, ExportOptions{})
	assert.Equal(t, dossiererrors.CodeEmptyTree, dossiererrors.CodeOf(err))
}

func TestEncodeKeepsNonASCII(t *testing.T) {
	root := types.NewFolder("", "Dokumente")
	root.AddChild(types.NewFolder("1", "Steuererklärung & Belege"))
	doc, err := Export(types.NewFolderTree(root), ExportOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, FormatJSON, 4))

	assert.Contains(t, buf.String(), "Steuererklärung & Belege")
}

func TestYAMLQuotesNumericIDs(t *testing.T) {
	doc, err := Export(exampleTree(), ExportOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, FormatYAML, 2))

	assert.Contains(t, buf.String(), `id: "12"`)
}

func TestFormats(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Equal(t, dossiererrors.CodeUnknownFormat, dossiererrors.CodeOf(err))

	assert.Equal(t, FormatYAML, FormatFromPath("tree.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("tree.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("tree"))

	f, err = ResolveFormat("", "a/b.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	f, err = ResolveFormat("json", "a/b.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "folder_tree.yaml")

	doc, err := Export(exampleTree(), ExportOptions{Sort: true})
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, doc, "", 4))

	tree, err := ReadFile(path, "")
	require.NoError(t, err)
	assert.True(t, exampleTree().Equal(tree))

	_, err = ReadFile(filepath.Join(dir, "missing.json"), "")
	assert.Equal(t, dossiererrors.CodeReadFailed, dossiererrors.CodeOf(err))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"name":"x"}`), 0644))
	_, err = ReadFile(filepath.Join(dir, "bad.json"), FormatJSON)
	assert.True(t, dossiererrors.IsSchemaError(err))
	assert.Contains(t, err.Error(), "bad.json")
}
