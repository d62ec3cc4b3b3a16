package types

// LabelKind is the category controlling whether and how a folder contributes
// to printable label output.
//
// The set of kinds is closed. A LabelKind holding any other value is kept on
// the folder as read, and reported by validation instead of being rejected
// at parse time.
type LabelKind string

const (
	LabelHanging       LabelKind = "hanging"
	LabelSticker       LabelKind = "sticker"
	LabelOutsideFolder LabelKind = "outside_folder"
	LabelInsideFolder  LabelKind = "inside_folder"
	LabelNone          LabelKind = "none"
)

// LabelKinds lists every member of the enumeration in declaration order.
func LabelKinds() []LabelKind {
	return []LabelKind{
		LabelHanging,
		LabelSticker,
		LabelOutsideFolder,
		LabelInsideFolder,
		LabelNone,
	}
}

// String returns the string representation of the label kind
func (k LabelKind) String() string {
	return string(k)
}

// Valid reports whether k is a member of the enumeration.
func (k LabelKind) Valid() bool {
	switch k {
	case LabelHanging, LabelSticker, LabelOutsideFolder, LabelInsideFolder, LabelNone:
		return true
	default:
		return false
	}
}

// Printable reports whether folders of this kind produce a label line.
func (k LabelKind) Printable() bool {
	return k == LabelHanging || k == LabelSticker
}
