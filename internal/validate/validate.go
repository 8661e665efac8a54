// Package validate checks a canonical table against the schema contract its
// downstream consumers rely on: required columns, per-column value domains
// and cross-row uniqueness. Validation is advisory; it reports issues and
// leaves the decision to the caller.
package validate

import (
	"fmt"
	"regexp"

	"lyproxify/internal/lytable"
)

// Severity grades an Issue.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
)

// Issue is one validation finding. Row is the 0-based data row, or -1 for
// table-level findings.
type Issue struct {
	Severity Severity
	Row      int
	Column   string
	Message  string
}

func (i Issue) String() string {
	if i.Row < 0 {
		return fmt.Sprintf("%s: %s: %s", i.Severity, i.Column, i.Message)
	}
	return fmt.Sprintf("%s: row %d, %s: %s", i.Severity, i.Row, i.Column, i.Message)
}

// Report collects the issues of one validation pass.
type Report []Issue

// HasErrors reports whether any issue is of Error severity.
func (r Report) HasErrors() bool {
	for _, i := range r {
		if i.Severity == Error {
			return true
		}
	}
	return false
}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var subsitePattern = regexp.MustCompile(`^C\d{2}(\.\d)?$`)

// required lists the leaf columns every canonical dataset must carry,
// identified by top-level group and leaf name (the mid level is a filler).
var required = []struct{ top, leaf string }{
	{"patient", "id"},
	{"patient", "institution"},
	{"patient", "sex"},
	{"patient", "age"},
	{"patient", "diagnose_date"},
	{"patient", "tnm_edition"},
	{"patient", "n_stage"},
	{"patient", "m_stage"},
	{"tumor", "subsite"},
	{"tumor", "t_stage"},
	{"tumor", "t_stage_prefix"},
}

// intRange bounds for the staging columns.
var stageRanges = map[string][2]int{
	"tnm_edition": {7, 8},
	"n_stage":     {0, 3},
	"m_stage":     {-1, 1},
	"t_stage":     {0, 4},
}

// Table validates the canonical table. The checks mirror what pooled
// analysis downstream assumes: enumerated sex, ISO dates, bounded staging
// categories, boolean involvement columns and unique patient IDs.
func Table(t *lytable.Table) Report {
	var rep Report

	index := map[[2]string]int{}
	for i, c := range t.Columns {
		index[[2]string{c.Path.Top, c.Path.Leaf}] = i
	}
	for _, req := range required {
		if _, ok := index[[2]string{req.top, req.leaf}]; !ok {
			rep = append(rep, Issue{Severity: Error, Row: -1,
				Column:  req.top + "." + req.leaf,
				Message: "required column missing"})
		}
	}

	seenIDs := map[string]int{}
	for row, vals := range t.Rows {
		for col, v := range vals {
			path := t.Columns[col].Path
			rep = append(rep, checkCell(path, row, v)...)

			if path.Top == "patient" && path.Leaf == "id" {
				id, _ := v.(string)
				if id == "" {
					rep = append(rep, Issue{Severity: Error, Row: row, Column: path.String(),
						Message: "patient ID missing"})
					continue
				}
				if prev, dup := seenIDs[id]; dup {
					rep = append(rep, Issue{Severity: Error, Row: row, Column: path.String(),
						Message: fmt.Sprintf("patient ID %q already used in row %d", id, prev)})
				}
				seenIDs[id] = row
			}
		}
	}

	return rep
}

// checkCell validates one cell against the domain its column name implies.
func checkCell(path lytable.Path, row int, v any) Report {
	var rep Report
	fail := func(sev Severity, format string, args ...any) {
		rep = append(rep, Issue{Severity: sev, Row: row, Column: path.String(),
			Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case path.Leaf == "sex":
		if s, ok := v.(string); ok && s != "male" && s != "female" {
			fail(Error, "sex %q not in {male, female}", s)
		}

	case path.Leaf == "age":
		n, ok := v.(int)
		if !ok {
			fail(Error, "age %v not an integer", v)
		} else if n != -1 && (n < 0 || n > 120) {
			fail(Warning, "age %d outside plausible range", n)
		}

	case path.Leaf == "t_stage_prefix":
		if s, ok := v.(string); ok && s != "c" && s != "p" {
			fail(Error, "stage prefix %q not in {c, p}", s)
		}

	case path.Leaf == "subsite":
		if s, ok := v.(string); ok && !subsitePattern.MatchString(s) {
			fail(Error, "subsite %q is not an ICD topography code", s)
		}

	case path.Leaf == "date" || path.Leaf == "diagnose_date",
		len(path.Leaf) > 5 && path.Leaf[len(path.Leaf)-5:] == "_date":
		if s, ok := v.(string); ok && !isoDatePattern.MatchString(s) {
			fail(Error, "date %q not in YYYY-MM-DD form", s)
		}

	case stageRanges[path.Leaf] != [2]int{}:
		bounds := stageRanges[path.Leaf]
		if v == nil {
			break
		}
		n, ok := v.(int)
		if !ok {
			fail(Error, "%s %v not an integer", path.Leaf, v)
		} else if n < bounds[0] || n > bounds[1] {
			fail(Error, "%s %d outside [%d, %d]", path.Leaf, n, bounds[0], bounds[1])
		}

	case path.Top == "diagnostic_consensus" || path.Top == "pathology" || path.Top == "extracapsular":
		if path.Mid != "ipsi" && path.Mid != "contra" {
			break
		}
		if v != nil {
			if _, ok := v.(bool); !ok {
				fail(Error, "involvement %v not a boolean", v)
			}
		}

	case path.Top == "positive_dissected" || path.Top == "total_dissected":
		if path.Mid != "ipsi" && path.Mid != "contra" {
			break
		}
		if v == nil {
			break
		}
		n, ok := v.(int)
		if !ok {
			fail(Error, "node count %v not an integer", v)
		} else if n < 0 {
			fail(Error, "node count %d negative", n)
		}
	}

	return rep
}
