// Package tabular provides a minimal column-oriented view of delimited or
// record-based input tables, with required-column contracts and numeric
// coercion.
package tabular

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Table is an immutable table of string cells under named columns.  Rows are
// positional; cells are looked up through the column index.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New returns a table over the given columns and rows.  The name is used in
// error messages only.
func New(name string, columns []string, rows [][]string) *Table {
	index := make(map[string]int, len(columns))
	for i, column := range columns {
		index[column] = i
	}
	return &Table{Name: name, Columns: columns, Rows: rows, index: index}
}

// SchemaError reports a table that does not meet its column contract, either
// because required columns are missing or because a cell could not be coerced
// to its required type.
type SchemaError struct {
	Table   string
	Missing []string
	Column  string
	Row     int
	Cause   error
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("table %q is missing required column(s): %s",
			e.Table, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("table %q column %q row %d: %v", e.Table, e.Column, e.Row, e.Cause)
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// Require fails with a SchemaError naming every listed column that the table
// does not have.
func (t *Table) Require(columns ...string) error {
	var missing []string
	for _, column := range columns {
		if _, ok := t.index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &SchemaError{Table: t.Name, Missing: missing}
	}
	return nil
}

// Has reports whether the table has the named column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Cell returns the raw cell under the named column in the given row.  The
// column must exist; check with Require or Has first.
func (t *Table) Cell(row int, column string) string {
	return t.Rows[row][t.index[column]]
}

// Int coerces the cell under the named column to an integer, accepting
// float-formatted whole numbers (a column exported as 100.0 still reads as
// 100).
func (t *Table) Int(row int, column string) (int64, error) {
	raw := strings.TrimSpace(t.Cell(row, column))
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, &SchemaError{
			Table:  t.Name,
			Column: column,
			Row:    row,
			Cause:  coercionCause(raw, "an integer"),
		}
	}
	return int64(f), nil
}

// Float coerces the cell under the named column to a float.
func (t *Table) Float(row int, column string) (float64, error) {
	raw := strings.TrimSpace(t.Cell(row, column))
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &SchemaError{
			Table:  t.Name,
			Column: column,
			Row:    row,
			Cause:  coercionCause(raw, "a number"),
		}
	}
	return f, nil
}

// coercionCause distinguishes the empty cell, which usually means the value
// was absent from the source record rather than malformed.
func coercionCause(raw, want string) error {
	if raw == "" {
		return fmt.Errorf("cell is empty (value absent from the source record?)")
	}
	return fmt.Errorf("%q is not %s", raw, want)
}
