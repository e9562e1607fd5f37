package csvsql

import (
	"fmt"
	"strings"
)

// header is the ordered list of column names from the first record of a file.
type header []string

// newHeader create new header.
func newHeader(h []string) header {
	return header(h)
}

// equal compare header.
func (h header) equal(h2 header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// Record represents one data row as a slice of string fields.
type Record []string

// newRecord create new record.
func newRecord(r []string) Record {
	return Record(r)
}

// equal compare record.
func (r Record) equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// table represents file contents as a table structure: a header followed by
// data rows in file order.
type table struct {
	// name is the table name derived from the file path
	name string
	// header is the column names from the first record
	header header
	// records is the data rows, file order preserved
	records []Record
	// columnInfo contains inferred type information for each column
	columnInfo []columnInfo
}

// newTable create new table. Column types are inferred from the records.
func newTable(name string, header header, records []Record) *table {
	return &table{
		name:       name,
		header:     header,
		records:    records,
		columnInfo: inferColumnsInfo(header, records),
	}
}

// getName return table name.
func (t *table) getName() string {
	return t.name
}

// getHeader return table header.
func (t *table) getHeader() header {
	return t.header
}

// getRecords return table records.
func (t *table) getRecords() []Record {
	return t.records
}

// validateColumnNames checks for duplicate column names and returns an error
// if found. Comparison is case-sensitive.
func validateColumnNames(columns []string) error {
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		trimmed := strings.TrimSpace(col)
		if seen[trimmed] {
			return fmt.Errorf("%w: %s", ErrDuplicateColumnName, col)
		}
		seen[trimmed] = true
	}
	return nil
}
