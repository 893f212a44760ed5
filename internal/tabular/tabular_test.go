package tabular

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRequire(t *testing.T) {
	table := New("calls",
		[]string{"chromosome", "coordinate", "cn"},
		[][]string{{"chr1", "100", "2.5"}},
	)

	if err := table.Require("chromosome", "coordinate", "cn"); err != nil {
		t.Errorf("Require failed on present columns: %v", err)
	}

	err := table.Require("chromosome", "cn", "p_value", "segmean")
	var schema *SchemaError
	if !errors.As(err, &schema) {
		t.Fatalf("Wrong error: got %v, want SchemaError", err)
	}
	if want := []string{"p_value", "segmean"}; !reflect.DeepEqual(schema.Missing, want) {
		t.Errorf("Wrong missing columns: got %v, want %v", schema.Missing, want)
	}
}

func TestCoercion(t *testing.T) {
	table := New("calls",
		[]string{"coordinate", "cn"},
		[][]string{
			{"100", "2.5"},
			{"200.0", "3"},
			{"banana", "1.5"},
			{"300", "high"},
		},
	)

	if n, err := table.Int(0, "coordinate"); err != nil || n != 100 {
		t.Errorf("Int(0): got %d, %v, want 100, nil", n, err)
	}
	// Whole-number floats are accepted as integers.
	if n, err := table.Int(1, "coordinate"); err != nil || n != 200 {
		t.Errorf("Int(1): got %d, %v, want 200, nil", n, err)
	}
	if f, err := table.Float(0, "cn"); err != nil || f != 2.5 {
		t.Errorf("Float(0): got %v, %v, want 2.5, nil", f, err)
	}

	var schema *SchemaError
	if _, err := table.Int(2, "coordinate"); !errors.As(err, &schema) {
		t.Fatalf("Int on non-numeric cell: got %v, want SchemaError", err)
	}
	if schema.Column != "coordinate" || schema.Row != 2 {
		t.Errorf("Wrong error location: got %q row %d", schema.Column, schema.Row)
	}

	if _, err := table.Float(3, "cn"); !errors.As(err, &schema) {
		t.Fatalf("Float on non-numeric cell: got %v, want SchemaError", err)
	}
	if schema.Column != "cn" || schema.Row != 3 {
		t.Errorf("Wrong error location: got %q row %d", schema.Column, schema.Row)
	}
}

func TestCoercionOfEmptyCell(t *testing.T) {
	table := New("calls",
		[]string{"coordinate", "cn"},
		[][]string{{"", ""}},
	)

	var schema *SchemaError
	if _, err := table.Int(0, "coordinate"); !errors.As(err, &schema) {
		t.Fatalf("Int on empty cell: got %v, want SchemaError", err)
	}
	if !strings.Contains(schema.Error(), "empty") {
		t.Errorf("Error does not name the empty cell: %v", schema)
	}
	if _, err := table.Float(0, "cn"); !errors.As(err, &schema) {
		t.Fatalf("Float on empty cell: got %v, want SchemaError", err)
	}
	if !strings.Contains(schema.Error(), "empty") {
		t.Errorf("Error does not name the empty cell: %v", schema)
	}
}

func TestHasAndCell(t *testing.T) {
	table := New("segments",
		[]string{"chromosome", "start", "end", "segmean"},
		[][]string{{"chr2", "0", "500", "-0.3"}},
	)
	if !table.Has("segmean") {
		t.Error("Has(segmean) = false, want true")
	}
	if table.Has("p_value") {
		t.Error("Has(p_value) = true, want false")
	}
	if got, want := table.Cell(0, "chromosome"), "chr2"; got != want {
		t.Errorf("Cell: got %q, want %q", got, want)
	}
}
