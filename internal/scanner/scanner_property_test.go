//go:build property
// +build property

package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/conneroisu/dossier/internal/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestScannerProperties tests invariant properties of the tree scanner
func TestScannerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	// Property: every level of a scanned tree is in numeric order
	properties.Property("children sorted after scan", prop.ForAll(
		func(ids []uint16, nested []uint16) bool {
			root := filepath.Join(t.TempDir(), "root")
			for i, id := range ids {
				dir := filepath.Join(root, fmt.Sprintf("%d_Folder_%d", id, i))
				if err := os.MkdirAll(dir, 0755); err != nil {
					return false
				}
				for j, sub := range nested {
					if err := os.MkdirAll(filepath.Join(dir, fmt.Sprintf("%d_Sub_%d", sub, j)), 0755); err != nil {
						return false
					}
				}
			}
			if err := os.MkdirAll(root, 0755); err != nil {
				return false
			}

			tree, err := NewTreeScanner(Options{}, nil).Scan(context.Background(), root)
			if err != nil {
				return false
			}

			sorted := true
			tree.Root.Walk(func(f *types.Folder, _ int) bool {
				sorted = sorted && f.ChildrenSorted()
				return true
			})
			return sorted && tree.Len() == 1+len(ids)*(1+len(nested))
		},
		gen.SliceOfN(6, gen.UInt16()),
		gen.SliceOfN(3, gen.UInt16()),
	))

	// Property: recursive and iterative scans agree
	properties.Property("iterative scan matches recursive scan", prop.ForAll(
		func(ids []uint8) bool {
			root := filepath.Join(t.TempDir(), "root")
			path := root
			for i, id := range ids {
				path = filepath.Join(path, fmt.Sprintf("%d_Level_%d", id, i))
				if err := os.MkdirAll(path, 0755); err != nil {
					return false
				}
				if err := os.MkdirAll(filepath.Join(filepath.Dir(path), fmt.Sprintf("%d_Sibling", id/2)), 0755); err != nil {
					return false
				}
			}
			if err := os.MkdirAll(root, 0755); err != nil {
				return false
			}

			s := NewTreeScanner(Options{}, nil)
			recursive, err1 := s.Scan(context.Background(), root)
			iterative, err2 := s.ScanIterative(context.Background(), root)
			return err1 == nil && err2 == nil && recursive.Equal(iterative)
		},
		gen.SliceOfN(8, gen.UInt8()),
	))

	properties.TestingRun(t)
}
