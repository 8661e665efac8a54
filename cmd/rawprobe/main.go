// Command rawprobe inspects a raw institutional CSV export before a mapping
// is written for it: it lists the verbatim header names a mapping must
// reference, a folded ASCII form for documentation, a guessed value type and
// the missing-cell count per column. The output is tab-separated so it can be
// piped through column -t or into a spreadsheet.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"unicode/utf8"

	"lyproxify/internal/convert"
	"lyproxify/internal/rawcsv"
	"lyproxify/pkg/records"
)

func main() {
	rawPath := flag.String("raw", "", "raw CSV export path")
	comma := flag.String("comma", ",", "field delimiter (single character)")
	sample := flag.Int("sample", 200, "number of data rows to sample for type guessing")
	flag.Parse()

	if *rawPath == "" {
		fatalf("-raw is required")
	}

	delim := ','
	if r, _ := utf8.DecodeRuneInString(*comma); r != utf8.RuneError && *comma != "" {
		delim = r
	}

	f, err := os.Open(*rawPath)
	if err != nil {
		fatalf("%v", err)
	}
	defer f.Close()

	header, rows, err := rawcsv.NewParser(rawcsv.Options{Comma: delim}).Parse(f)
	if err != nil {
		fatalf("%v", err)
	}
	if len(rows) > *sample {
		rows = rows[:*sample]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tFOLDED\tTYPE\tMISSING")
	for _, col := range header {
		kind, missing := guessColumn(col, rows)
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\n", col, rawcsv.FoldHeader(col), kind, missing, len(rows))
	}
	w.Flush()
}

// guessColumn classifies a column from its sampled values. The guess is
// deliberately coarse: it only needs to tell a mapping author which
// conversion primitive to start from.
func guessColumn(col string, rows []records.Record) (string, int) {
	var missing, ints, floats, dates, total int
	for _, rec := range rows {
		v := rec.Get(col)
		if v == nil {
			missing++
			continue
		}
		total++
		if _, ok := convert.ParseDate(v); ok {
			dates++
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if _, err := strconv.Atoi(s); err == nil {
			ints++
		} else if _, err := strconv.ParseFloat(s, 64); err == nil {
			floats++
		}
	}

	switch {
	case total == 0:
		return "empty", missing
	case dates == total:
		return "date", missing
	case ints+floats == total && floats > 0:
		return "float", missing
	case ints == total:
		return "int", missing
	default:
		return "string", missing
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "rawprobe: "+format+"\n", a...)
	os.Exit(1)
}
