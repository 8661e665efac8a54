package convert

import (
	"fmt"
	"regexp"
)

// IntLookup builds a primitive that maps an integer-coded raw cell through a
// fixed table. Codes absent from the table, NA cells and non-numeric input
// all yield nil.
func IntLookup(table map[int]any) Func {
	return Func{
		Arity: 1,
		Apply: func(vals ...any) (any, error) {
			if IsNA(vals[0]) {
				return nil, nil
			}
			n, ok := AsInt(vals[0])
			if !ok {
				return nil, nil
			}
			if out, ok := table[n]; ok {
				return out, nil
			}
			return nil, nil
		},
	}
}

// NStageTable remaps institutional N-category codes onto TNM edition 7. The
// source coding splits N2 into sub-codes 2, 3 and 4; code 5 is N3 and the
// "not assessed" code 9 collapses to N0.
var NStageTable = map[int]any{
	0: 0,
	1: 1,
	2: 2,
	3: 2,
	4: 2,
	5: 3,
	9: 0,
}

// NStage remaps a clinical N-category code through NStageTable.
var NStage = IntLookup(NStageTable)

// MStageTable remaps institutional M-category codes. Code 9 means "not
// assessed" and becomes -1, which downstream consumers treat as distinct
// from 0 (assessed, no metastasis).
var MStageTable = map[int]any{
	0: 0,
	1: 1,
	9: -1,
}

// MStage remaps a clinical M-category code through MStageTable.
var MStage = IntLookup(MStageTable)

// Subsite maps the UMCG tumor location code to an ICD-O-3 subsite code.
var Subsite = IntLookup(map[int]any{
	16:  "C13.0",
	17:  "C12",
	18:  "C13.2",
	19:  "C32.1",
	20:  "C32.0",
	21:  "C32.2",
	221: "C32.0",
})

// Location maps the UMCG tumor location code to the primary tumor location.
var Location = IntLookup(map[int]any{
	16:  "hypopharynx",
	17:  "hypopharynx",
	18:  "hypopharynx",
	19:  "larynx",
	20:  "larynx",
	21:  "larynx",
	221: "larynx",
})

// icdPattern matches an ICD-10 / ICD-O-3 topography code with an optional
// one-digit subcode, anywhere inside a free-text cell.
var icdPattern = regexp.MustCompile(`C[0-9]{2}(\.[0-9])?`)

// ICDSubsite extracts the ICD subsite code from a free-text raw cell such as
// "C09.9 - amygdale". The full match (subcode included when present) is
// returned; cells without a recognizable code yield nil.
var ICDSubsite = Func{
	Arity: 1,
	Apply: func(vals ...any) (any, error) {
		if IsNA(vals[0]) {
			return nil, nil
		}
		s, ok := vals[0].(string)
		if !ok {
			return nil, nil
		}
		if m := icdPattern.FindString(s); m != "" {
			return m, nil
		}
		return nil, nil
	},
}

// stagePattern matches a pathological staging string such as "T2", "N2b" or
// "T4NOS", anchored at the start of the cell.
func stagePattern(letter rune) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^%c(\d)([a-c]|NOS)?`, letter))
}

// StagedCategory builds the two-cell surgery staging primitive. The first
// cell is the clinical code, the second the pathological staging text. When
// the pathological text matches "<letter><digit>[a-c|NOS]" the extracted
// digit wins; otherwise the clinical code is remapped through clinical (or
// taken verbatim when clinical is nil). No usable input yields nil.
func StagedCategory(letter rune, clinical map[int]any) Func {
	pat := stagePattern(letter)
	return Func{
		Arity: 2,
		Apply: func(vals ...any) (any, error) {
			if s, ok := vals[1].(string); ok && !IsNA(vals[1]) {
				if m := pat.FindStringSubmatch(s); m != nil {
					return int(m[1][0] - '0'), nil
				}
			}
			if IsNA(vals[0]) {
				return nil, nil
			}
			n, ok := AsInt(vals[0])
			if !ok {
				return nil, nil
			}
			if clinical == nil {
				return n, nil
			}
			if out, ok := clinical[n]; ok {
				return out, nil
			}
			return nil, nil
		},
	}
}

// StagedPrefix builds the companion primitive to StagedCategory: "p" when the
// pathological text carries a stage for letter, "c" otherwise.
func StagedPrefix(letter rune) Func {
	pat := stagePattern(letter)
	return Func{
		Arity: 2,
		Apply: func(vals ...any) (any, error) {
			if s, ok := vals[1].(string); ok && !IsNA(vals[1]) {
				if pat.MatchString(s) {
					return "p", nil
				}
			}
			return "c", nil
		},
	}
}

// StripLetters extracts the leading category digit from strings like "2b".
// Whole-cell integers pass through unchanged; anything else yields nil.
var StripLetters = Func{
	Arity: 1,
	Apply: func(vals ...any) (any, error) {
		if IsNA(vals[0]) {
			return nil, nil
		}
		if n, ok := AsInt(vals[0]); ok {
			return n, nil
		}
		s, ok := vals[0].(string)
		if !ok || len(s) == 0 || s[0] < '0' || s[0] > '9' {
			return nil, nil
		}
		return int(s[0] - '0'), nil
	},
}
