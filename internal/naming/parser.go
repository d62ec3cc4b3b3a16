// Package naming parses filing-folder directory names of the form
// "<digits>_<name>" into an identifier and a display name.
package naming

import (
	"strings"

	"github.com/conneroisu/dossier/internal/types"
	"golang.org/x/text/unicode/norm"
)

// Separator splits the identifier from the display name and the words of the
// display name from each other.
const Separator = "_"

// Parsed is the result of parsing a directory name.
type Parsed struct {
	ID   string
	Name string
}

// ParseName splits raw on its first separator and returns the identifier and
// the display name. The remaining segments are rejoined with single spaces,
// so "12_Big_Projects" yields ("12", "Big Projects").
//
// When the segment before the first separator is not a digit string, the
// second return value is false for a non-root name, meaning the directory and
// everything beneath it must be left out of the tree. A root never fails: it
// gets an empty identifier and the whole raw string as its name.
//
// The identifier is kept as written ("007" stays "007"). A numeric identifier
// with nothing after it yields an empty name.
func ParseName(raw string, root bool) (Parsed, bool) {
	raw = norm.NFC.String(raw)

	segments := strings.Split(raw, Separator)
	if len(segments) > 1 && types.IsNumericID(segments[0]) {
		return Parsed{
			ID:   segments[0],
			Name: strings.Join(segments[1:], " "),
		}, true
	}

	if !root {
		return Parsed{}, false
	}
	return Parsed{ID: "", Name: raw}, true
}
