package dataset

import (
	"lyproxify/internal/convert"
	"lyproxify/internal/mapping"
)

// The two UMCG exports (radiotherapy and surgery cohorts of the 2025
// hypopharynx/larynx data) share most raw column conventions; the helpers
// in this file keep the two tree builders readable.

const umcgInstitution = "University Medical Center Groningen"

// umcgDiagnoseDates are the fallback columns for the date of diagnosis, in
// preference order: start/end of radiotherapy, pathology, neck surgery,
// last contact and the recurrence dates. At least one is always populated.
var umcgDiagnoseDates = []string{
	"RTSTART_c",
	"RTEIND_c",
	"hh_dt_pa",
	"hh_dt_ophals",
	"TERM_c",
	"DATLR_c",
	"DATRR_c",
	"DATMET_c",
}

// umcgSurgeryDiagnoseDates additionally includes the surgery date, which only
// the surgery export records; for patients operated before any of the other
// dates it is the earliest one.
var umcgSurgeryDiagnoseDates = []string{
	"RTSTART_c",
	"RTEIND_c",
	"hh_dt_pa",
	"hh_dt_ophals",
	"hh_dtop_pt",
	"TERM_c",
	"DATLR_c",
	"DATRR_c",
	"DATMET_c",
}

// umcgSex decodes the SEX_c column: code 1 is male, code 2 female.
var umcgSex = convert.Pure(func(v any) any {
	if convert.IsNA(v) {
		return nil
	}
	if n, ok := convert.AsInt(v); ok && n == 1 {
		return "male"
	}
	return "female"
})

// leafCol pairs an output level name with the raw column feeding it.
type leafCol struct {
	segment string
	column  string
}

// boolLevels builds one boolean leaf per LNL level.
func boolLevels(cols []leafCol) []mapping.Node {
	nodes := make([]mapping.Node, len(cols))
	for i, c := range cols {
		nodes[i] = mapping.Leaf{Segment: c.segment, Columns: []string{c.column}, Fn: convert.Bool}
	}
	return nodes
}

// intLevels builds one node-count leaf per LNL level.
func intLevels(cols []leafCol) []mapping.Node {
	nodes := make([]mapping.Node, len(cols))
	for i, c := range cols {
		nodes[i] = mapping.Leaf{Segment: c.segment, Columns: []string{c.column}, Fn: convert.Int}
	}
	return nodes
}

// umcgClinicalIpsi / umcgClinicalContra are the clinical consensus columns
// for LNLs I through X. Level VII lives in the retropharyngeal/retrostyloid
// column, hence the odd name.
var umcgClinicalIpsi = []leafCol{
	{"I", "hh_il1"}, {"II", "hh_il2"}, {"III", "hh_il3"}, {"IV", "hh_il4"},
	{"V", "hh_il5"}, {"VI", "hh_il6"}, {"VII", "hh_rp_rs_il"},
	{"VIII", "hh_il8"}, {"IX", "hh_il9"}, {"X", "hh_il10"},
}

var umcgClinicalContra = []leafCol{
	{"I", "hh_cl1"}, {"II", "hh_cl2"}, {"III", "hh_cl3"}, {"IV", "hh_cl4"},
	{"V", "hh_cl5"}, {"VI", "hh_cl6"}, {"VII", "hh_rp_rs_cl"},
	{"VIII", "hh_cl8"}, {"IX", "hh_cl9"}, {"X", "hh_cl10"},
}

// Pathology reports only levels I through VI.
var umcgPathologyIpsi = []leafCol{
	{"I", "IL_L1_path"}, {"II", "IL_L2_path"}, {"III", "IL_L3_path"},
	{"IV", "IL_L4_path"}, {"V", "IL_L5_path"}, {"VI", "IL_L6_path"},
}

var umcgPathologyContra = []leafCol{
	{"I", "CL_L1_path"}, {"II", "CL_L2_path"}, {"III", "CL_L3_path"},
	{"IV", "CL_L4_path"}, {"V", "CL_L5_path"}, {"VI", "CL_L6_path"},
}

var umcgExtracapsularIpsi = []leafCol{
	{"I", "IL_L1_ENS"}, {"II", "IL_L2_ENS"}, {"III", "IL_L3_ENS"},
	{"IV", "IL_L4_ENS"}, {"V", "IL_L5_ENS"}, {"VI", "IL_L6_ENS"},
}

var umcgExtracapsularContra = []leafCol{
	{"I", "CL_L1_ENS"}, {"II", "CL_L2_ENS"}, {"III", "CL_L3_ENS"},
	{"IV", "CL_L4_ENS"}, {"V", "CL_L5_ENS"}, {"VI", "CL_L6_ENS"},
}
