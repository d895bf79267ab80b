package core

// Row is one input record describing an item and its candidate image references.
type Row struct {
	// Index is the 1-based record number, excluding the header.
	Index     int
	ID        string
	Primary   string
	Secondary string

	// Err is set when the record could not be parsed. Such rows are skipped.
	Err error
}

// Valid reports whether the row can be processed.
func (r Row) Valid() bool {
	return r.Err == nil && r.ID != ""
}

// RowSource yields rows in input order. Next returns io.EOF after the last row.
type RowSource interface {
	Next() (Row, error)
}

// Columns names the input columns a RowSource reads.
type Columns struct {
	ID        string
	Primary   string
	Secondary string
}

// DefaultColumns returns the column names used by the alt-text dataset export.
func DefaultColumns() Columns {
	return Columns{
		ID:        "image_id",
		Primary:   "base_url",
		Secondary: "context_url",
	}
}

// Slot identifies which of a row's two references is being fetched.
type Slot string

const (
	SlotPrimary   Slot = "primary"
	SlotSecondary Slot = "secondary"
)

// Label returns the capitalized slot name used in progress output.
func (s Slot) Label() string {
	switch s {
	case SlotPrimary:
		return "Primary"
	case SlotSecondary:
		return "Secondary"
	default:
		return string(s)
	}
}
