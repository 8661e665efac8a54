// Package rawcsv reads raw institutional CSV exports into records keyed by
// the verbatim header names. Mapping specifications reference those names
// exactly as the institution wrote them, so the parser never rewrites
// headers; it only strips a UTF-8 BOM and surrounding whitespace.
package rawcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"lyproxify/pkg/records"
)

// Options configures parsing. All fields are optional.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// KeepNA disables the normalization of NA markers to nil, leaving the
	// raw strings in place. Off by default because conversion primitives
	// expect missing cells as nil.
	KeepNA bool
}

// Parser parses raw CSV input according to Options. It is safe to reuse
// across inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// naMarkers are the missing-value spellings institutions leave in exports.
// Matched case-insensitively after trimming.
var naMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"none": true,
}

// Parse consumes the whole input and returns the verbatim header plus one
// record per data row. Every patient row matters, so a row with the wrong
// field count is a hard error, not a skip: a canonical table missing
// patients is worse than no table.
func (p *Parser) Parse(r io.Reader) ([]string, []records.Record, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}

	h, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	header := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		header[i] = c
	}

	var rows []records.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) != len(header) {
			return nil, nil, fmt.Errorf("line %d: %d fields, header has %d", line, len(row), len(header))
		}
		rec := make(records.Record, len(row))
		for i, val := range row {
			rec[header[i]] = p.cell(val)
		}
		rows = append(rows, rec)
	}

	return header, rows, nil
}

// cell trims a raw field and maps NA markers to nil.
func (p *Parser) cell(s string) any {
	s = strings.TrimSpace(s)
	if !p.opt.KeepNA && naMarkers[strings.ToLower(s)] {
		return nil
	}
	return s
}
