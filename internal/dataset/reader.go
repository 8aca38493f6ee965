package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the timestamp format of the cleaned extracts.
const TimeLayout = "2006-01-02 15:04:05"

// table is one parsed CSV with a header-name index. Cell access goes through
// the index, never through positional assumptions.
type table struct {
	name string
	cols map[string]int
	rows [][]string
}

// readTable parses a CSV file and verifies the required columns are present.
func readTable(path, name string, required []string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingTableError{Table: name, Path: path}
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, &SchemaError{Table: name, Column: required[0]}
	}
	t := &table{name: name, cols: make(map[string]int, len(records[0])), rows: records[1:]}
	for i, h := range records[0] {
		t.cols[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, col := range required {
		if _, ok := t.cols[col]; !ok {
			return nil, &SchemaError{Table: name, Column: col}
		}
	}
	return t, nil
}

func (t *table) str(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// strPtr returns nil for empty cells.
func (t *table) strPtr(row []string, col string) *string {
	s := t.str(row, col)
	if s == "" {
		return nil
	}
	return &s
}

// floatPtr returns nil for empty or unparseable cells; value absence is not
// an error.
func (t *table) floatPtr(row []string, col string) *float64 {
	s := t.str(row, col)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (t *table) intPtr(row []string, col string) *int {
	v := t.floatPtr(row, col) // extracts may carry "2.0" style integers
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

func (t *table) intOr(row []string, col string, def int) int {
	if v := t.intPtr(row, col); v != nil {
		return *v
	}
	return def
}

func (t *table) timePtr(row []string, col string) *time.Time {
	s := t.str(row, col)
	if s == "" {
		return nil
	}
	ts, err := time.Parse(TimeLayout, s)
	if err != nil {
		// Malformed timestamps are pre-coerced upstream; stragglers become null.
		return nil
	}
	return &ts
}
