// Package export renders extracted curves for the product catalog: CSV rows
// in the x,y,curveName schema. The engine itself never persists anything;
// writing happens entirely on the caller's side of the boundary.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"graph-tracer/internal/model"
)

// WriteCSV writes all curve points as x,y,curveName rows with a header.
func WriteCSV(w io.Writer, curves []model.Curve) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"x", "y", "curveName"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, curve := range curves {
		for _, p := range curve.Points {
			row := []string{
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Y, 'g', -1, 64),
				curve.ColorName,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the curves to a file, creating or truncating it.
func WriteCSVFile(path string, curves []model.Curve) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteCSV(f, curves); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
