// Package convert holds the shared library of conversion primitives used by
// dataset mapping specifications. Each primitive turns one or more raw cell
// values into a canonical typed value (int, bool, string or nil).
//
// Failure policy: almost all primitives degrade silently, returning nil when
// the raw input is missing or unparseable. The two exceptions are
// RecurrenceDate, which reports a data-integrity error when its two inputs
// contradict each other, and EarliestDate, which errors when none of its
// inputs parse. Both errors abort the row, not just the cell.
//
// Raw cells arrive normalized: the parser maps empty fields and NA markers to
// nil before a primitive ever sees them, but primitives still tolerate NA
// strings and NaN floats defensively so they stay total over any input.
package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Variadic marks a Func that accepts any number of source columns.
const Variadic = -1

// Func is a conversion primitive bound to a computed leaf of a mapping tree.
// Arity declares how many source columns the primitive consumes; a mismatch
// with the leaf's column list is a specification error caught at load time.
type Func struct {
	Arity int
	Apply func(vals ...any) (any, error)
}

// Pure adapts a single-value, error-free conversion into a Func. It covers
// the small dataset-specific remappings that would be lambdas in a config
// language (sex codes, site-specific flag encodings, and so on).
func Pure(fn func(v any) any) Func {
	return Func{
		Arity: 1,
		Apply: func(vals ...any) (any, error) { return fn(vals[0]), nil },
	}
}

// IsNA reports whether a raw cell carries no usable data: nil, a NaN float,
// or one of the NA markers institutions leave in exported tables.
func IsNA(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(t)
	case float32:
		return math.IsNaN(float64(t))
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "na", "n/a", "nan", "none":
			return true
		}
	}
	return false
}

// AsInt extracts an integer from a raw cell. Strings holding integral floats
// ("45.0") convert too, because numeric raw columns round-trip through float
// representations whenever they contain gaps.
func AsInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if math.IsNaN(t) {
			return 0, false
		}
		return int(t), true
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
			return int(f), true
		}
	}
	return 0, false
}

// Int is the integer-cast primitive: integer or nil.
var Int = Func{
	Arity: 1,
	Apply: func(vals ...any) (any, error) {
		if IsNA(vals[0]) {
			return nil, nil
		}
		if n, ok := AsInt(vals[0]); ok {
			return n, nil
		}
		return nil, nil
	},
}

// Age is the age-cast primitive. Unlike Int it never yields nil: an
// unrecorded age is encoded as the sentinel -1, because downstream schemas
// require the age column to be populated for every patient.
var Age = Func{
	Arity: 1,
	Apply: func(vals ...any) (any, error) {
		if n, ok := AsInt(vals[0]); ok && !IsNA(vals[0]) {
			return n, nil
		}
		return -1, nil
	},
}

// Bool is the boolean-cast primitive: nil on missing, numeric truthiness
// otherwise (0 is false, any other number true), nil for non-numeric input.
var Bool = Func{
	Arity: 1,
	Apply: func(vals ...any) (any, error) {
		if IsNA(vals[0]) {
			return nil, nil
		}
		if n, ok := AsInt(vals[0]); ok {
			return n != 0, nil
		}
		return nil, nil
	},
}

// Str is the string-cast primitive: the cell's text form, or nil when NA.
// Datasets that ship a usable patient identifier in the raw export use this
// instead of a generated ID sequence.
var Str = Func{
	Arity: 1,
	Apply: func(vals ...any) (any, error) {
		if IsNA(vals[0]) {
			return nil, nil
		}
		switch t := vals[0].(type) {
		case string:
			return strings.TrimSpace(t), nil
		default:
			return fmt.Sprintf("%v", t), nil
		}
	},
}

// dateLayouts are tried in order. ISO first because that is what already
// curated exports use; the remaining layouts cover the raw exports seen so
// far. Extend here, not per dataset.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02.01.2006",
	"02-01-2006",
	"2006/01/02",
	"02/01/2006",
}

// ParseDate parses a raw cell into a time, trying the known layouts.
func ParseDate(v any) (time.Time, bool) {
	if IsNA(v) {
		return time.Time{}, false
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isoDate is the canonical serialization of dates.
const isoDate = "2006-01-02"

// Date is the date-cast primitive: ISO YYYY-MM-DD string or nil.
var Date = Func{
	Arity: 1,
	Apply: func(vals ...any) (any, error) {
		if t, ok := ParseDate(vals[0]); ok {
			return t.Format(isoDate), nil
		}
		return nil, nil
	},
}

// EarliestDate collects all parseable dates among its inputs and returns the
// minimum as an ISO string. It errors when no input parses; mapping specs
// using it must guarantee at least one populated fallback column, so a total
// miss indicates broken raw data and aborts the row.
var EarliestDate = Func{
	Arity: Variadic,
	Apply: func(vals ...any) (any, error) {
		var earliest time.Time
		found := false
		for _, v := range vals {
			t, ok := ParseDate(v)
			if !ok {
				continue
			}
			if !found || t.Before(earliest) {
				earliest = t
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("earliest date: none of %d values parse as a date", len(vals))
		}
		return earliest.Format(isoDate), nil
	},
}
