package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"graph-tracer/internal/model"
)

func testCurves() []model.Curve {
	return []model.Curve{
		{
			ColorName: "red",
			Points:    []model.LogicalPoint{{X: 0.5, Y: 1.25}, {X: 1, Y: 2.5e-3}},
		},
		{
			ColorName: "blue",
			Points:    []model.LogicalPoint{{X: 10, Y: 0.001}},
		},
		{ColorName: "green"}, // empty curve contributes no rows
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testCurves()); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"x", "y", "curveName"},
		{"0.5", "1.25", "red"},
		{"1", "0.0025", "red"},
		{"10", "0.001", "blue"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %v", len(rows), len(want), rows)
	}
	for i, row := range rows {
		for j, cell := range row {
			if cell != want[i][j] {
				t.Errorf("row %d col %d = %q, want %q", i, j, cell, want[i][j])
			}
		}
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "x,y,curveName\n" {
		t.Errorf("got %q, want header only", got)
	}
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curves.csv")
	if err := WriteCSVFile(path, testCurves()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Errorf("got %d rows, want 4", len(rows))
	}
}

func TestWriteCSVFileBadPath(t *testing.T) {
	err := WriteCSVFile(filepath.Join(t.TempDir(), "missing", "curves.csv"), testCurves())
	if err == nil {
		t.Error("want error for a path in a missing directory")
	}
}
