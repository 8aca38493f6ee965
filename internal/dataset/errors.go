package dataset

import "fmt"

// MissingTableError reports a required source table that is not on disk.
// Fatal: no partial feature table is written.
type MissingTableError struct {
	Table string
	Path  string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("missing input table %s (expected at %s)", e.Table, e.Path)
}

// SchemaError reports an expected column absent from a present table.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %s: expected column %s is missing", e.Table, e.Column)
}
