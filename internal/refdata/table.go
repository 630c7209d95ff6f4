package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is a single entry of the reference table. PLZ is the postal code the
// model has training data for; City is informational and may be empty.
type Row struct {
	PLZ  string
	City string
}

// Table is an ordered, read-only snapshot of reference rows.
// A nil *Table is valid and behaves like "no reference data supplied":
// Contains reports true for everything and Filter returns nothing.
type Table struct {
	rows []Row
}

// New creates a table from already-loaded rows. The slice is copied so the
// caller cannot mutate the snapshot afterwards.
func New(rows []Row) *Table {
	copied := make([]Row, len(rows))
	copy(copied, rows)
	return &Table{rows: copied}
}

// Load reads a reference table from a CSV file.
// Returns (nil, nil) if path is empty, meaning no table was supplied.
func Load(path string) (*Table, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference table: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse reads a reference table from CSV data.
// The first column is the postal code, the second (optional) the city name.
// A header row is recognized by a non-numeric first field and skipped.
// Additional columns are ignored.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // column count varies between exports
	reader.TrimLeadingSpace = true

	var rows []Row
	first := true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse reference table: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		plz := strings.TrimSpace(record[0])

		// Skip a header row like "plz,city"
		if first {
			first = false
			if !isDigits(plz) {
				continue
			}
		}

		if plz == "" {
			continue
		}

		row := Row{PLZ: plz}
		if len(record) > 1 {
			row.City = strings.TrimSpace(record[1])
		}
		rows = append(rows, row)
	}

	return &Table{rows: rows}, nil
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of all rows in table order.
func (t *Table) Rows() []Row {
	if t == nil {
		return nil
	}
	copied := make([]Row, len(t.rows))
	copy(copied, t.rows)
	return copied
}

// Contains reports whether the table has a row with exactly the given
// postal code. A nil table reports true: without reference data the
// existence check is disabled.
func (t *Table) Contains(plz string) bool {
	if t == nil {
		return true
	}
	for _, row := range t.rows {
		if row.PLZ == plz {
			return true
		}
	}
	return false
}

// Filter returns every row whose postal code contains the typed digits as
// a substring, preserving table order. An empty query returns all rows.
func (t *Table) Filter(query string) []Row {
	if t == nil {
		return nil
	}
	if query == "" {
		return t.Rows()
	}

	var matches []Row
	for _, row := range t.rows {
		if strings.Contains(row.PLZ, query) {
			matches = append(matches, row)
		}
	}
	return matches
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
