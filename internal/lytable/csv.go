package lytable

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/zeebo/xxh3"
)

// WriteCSV serializes the table with its three header rows followed by the
// data rows. Output is deterministic: columns in traversal order, rows in
// input order, values per FormatValue.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	top := make([]string, len(t.Columns))
	mid := make([]string, len(t.Columns))
	leaf := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		top[i] = c.Path.Top
		mid[i] = c.Path.Mid
		leaf[i] = c.Path.Leaf
	}
	for _, header := range [][]string{top, mid, leaf} {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, v := range row {
			s, err := FormatValue(v)
			if err != nil {
				return fmt.Errorf("row %d, column %s: %w", i, t.Columns[j].Path, err)
			}
			record[j] = s
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Fingerprint hashes the CSV serialization with xxh3. Two runs over the same
// raw input must produce the same fingerprint; the CLI uses this to assert
// reproducibility without diffing files.
func (t *Table) Fingerprint() (uint64, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return 0, err
	}
	return xxh3.Hash(buf.Bytes()), nil
}
