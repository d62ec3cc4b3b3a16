//go:build property

package types

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSortProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	build := func(ids []uint16) []*Folder {
		folders := make([]*Folder, len(ids))
		for i, id := range ids {
			folders[i] = NewFolder(strconv.Itoa(int(id%50)), fmt.Sprintf("f%d", i))
		}
		return folders
	}

	properties.Property("sorted ids are numerically non-decreasing", prop.ForAll(
		func(ids []uint16) bool {
			folders := build(ids)
			SortFolders(folders)
			for i := 1; i < len(folders); i++ {
				a, _ := strconv.Atoi(folders[i-1].ID)
				b, _ := strconv.Atoi(folders[i].ID)
				if a > b {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt16()),
	))

	properties.Property("equal ids keep their input order", prop.ForAll(
		func(ids []uint16) bool {
			folders := build(ids)
			position := make(map[*Folder]int, len(folders))
			for i, f := range folders {
				position[f] = i
			}
			SortFolders(folders)
			for i := 1; i < len(folders); i++ {
				if folders[i-1].ID == folders[i].ID && position[folders[i-1]] > position[folders[i]] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt16()),
	))

	properties.Property("SortedCopy leaves the input untouched", prop.ForAll(
		func(ids []uint16) bool {
			folders := build(ids)
			before := append([]*Folder(nil), folders...)
			sorted := SortedCopy(folders)
			for i := range folders {
				if folders[i] != before[i] {
					return false
				}
			}
			parent := NewFolder("", "root")
			parent.Children = sorted
			return len(sorted) == len(folders) && parent.ChildrenSorted()
		},
		gen.SliceOf(gen.UInt16()),
	))

	properties.Property("leading zeros do not change the order", prop.ForAll(
		func(a, b uint16, zeros uint8) bool {
			padded := fmt.Sprintf("%0*d", int(zeros%6)+1, a)
			return (compareIDs(padded, strconv.Itoa(int(b))) < 0) == (a < b)
		},
		gen.UInt16(), gen.UInt16(), gen.UInt8(),
	))

	properties.TestingRun(t)
}
