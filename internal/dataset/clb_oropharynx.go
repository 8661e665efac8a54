package dataset

import (
	"lyproxify/internal/convert"
	"lyproxify/internal/mapping"
	"lyproxify/internal/transform"
)

func init() {
	Register(Spec{
		Name:        "2021-clb-oropharynx",
		Institution: "Centre Léon Bérard",
		Build:       clbOropharynxTree,
	})
}

// clbSex decodes the French export's sexe column: code 0 is male.
var clbSex = convert.Pure(func(v any) any {
	if convert.IsNA(v) {
		return nil
	}
	if n, ok := convert.AsInt(v); ok && n == 0 {
		return "male"
	}
	return "female"
})

// clbMStage decodes the cM column, where "x" stands for Mx (not assessable).
var clbMStage = convert.Pure(func(v any) any {
	if convert.IsNA(v) {
		return nil
	}
	if s, ok := v.(string); ok && (s == "x" || s == "X") {
		return 2
	}
	if n, ok := convert.AsInt(v); ok {
		return n
	}
	return nil
})

// clbCentral decodes laterality code 0 as a lateralized (non-central) tumor;
// other codes leave centrality unknown.
var clbCentral = convert.Pure(func(v any) any {
	if convert.IsNA(v) {
		return nil
	}
	if n, ok := convert.AsInt(v); ok && n == 0 {
		return false
	}
	return nil
})

// clbLevels are the LNL level names reported by this export. Level I is
// split into its a/b sublevels and level VII lives in a separate
// retropharyngeal column. The helpers below expand one mapping group per
// modality from a column-name template.
func clbBoolLevels(side string, fn convert.Func) []mapping.Node {
	cols := []leafCol{
		{"Ia", side + "_cN+_aireIa"},
		{"Ib", side + "_cN+_aireIb"},
		{"II", side + "_cN+_aireII"},
		{"III", side + "_cN+_aireIII"},
		{"IV", side + "_cN+_aireIV(a/b)"},
		{"V", side + "_cN+_aireV(a/b/c)"},
	}
	nodes := make([]mapping.Node, len(cols))
	for i, c := range cols {
		nodes[i] = mapping.Leaf{Segment: c.segment, Columns: []string{c.column}, Fn: fn}
	}
	return nodes
}

func clbCountLevels(side, suffix string, fn convert.Func) []mapping.Node {
	cols := []leafCol{
		{"Ia", side + "_Ia_" + suffix},
		{"Ib", side + "_Ib_" + suffix},
		{"II", side + "_II_" + suffix},
		{"III", side + "_III_" + suffix},
		{"IV", side + "_IV_" + suffix},
		{"V", side + "_V_" + suffix},
	}
	nodes := make([]mapping.Node, len(cols))
	for i, c := range cols {
		nodes[i] = mapping.Leaf{Segment: c.segment, Columns: []string{c.column}, Fn: fn}
	}
	return nodes
}

// clbOropharynxTree maps the 2021 oropharynx export of the Centre Léon
// Bérard. The export already carries a unique patient number, so the ID
// sequence stays unused here. All patients underwent a neck dissection and
// staging follows TNM edition 8.
func clbOropharynxTree(ids *transform.IDSequence) mapping.Tree {
	_ = ids
	diagDate := mapping.Leaf{Segment: "date", Doc: "Date of the assessment (same as date of diagnosis).",
		Columns: []string{"date d'origine"}, Fn: convert.Date}

	return mapping.Tree{
		mapping.Group{Segment: "patient", Doc: "General patient information.", Children: []mapping.Node{
			mapping.Group{Segment: "core", Children: []mapping.Node{
				mapping.Leaf{Segment: "id", Doc: "Patient number as assigned by the clinic.", Columns: []string{"Num patient"}, Fn: convert.Str},
				mapping.Const{Segment: "institution", Doc: "The clinic where the data was extracted.", Value: "Centre Léon Bérard"},
				mapping.Leaf{Segment: "sex", Doc: "Biological sex of the patient.", Columns: []string{"sexe"}, Fn: clbSex},
				mapping.Leaf{Segment: "age", Doc: "Age at diagnosis; -1 when not recorded.", Columns: []string{"age"}, Fn: convert.Age},
				mapping.Leaf{Segment: "diagnose_date", Doc: "Date of diagnosis.", Columns: []string{"date d'origine"}, Fn: convert.Date},
				mapping.Leaf{Segment: "alcohol_abuse", Doc: "Regular alcohol consumption reported by the patient.", Columns: []string{"consom.éthylique"}, Fn: convert.Bool},
				mapping.Leaf{Segment: "nicotine_abuse", Doc: "Current or former smoker.", Columns: []string{"tabagisme"}, Fn: convert.Bool},
				mapping.Leaf{Segment: "pack_years", Doc: "Smoking history in pack years.", Columns: []string{"tabagisme_PA"}, Fn: convert.Int},
				mapping.Leaf{Segment: "hpv_status", Doc: "p16 overexpression as HPV surrogate.", Columns: []string{"p16"}, Fn: convert.Bool},
				mapping.Leaf{Segment: "neck_dissection", Doc: "Whether a neck dissection was performed.", Columns: []string{"curage_coté"}, Fn: convert.Bool},
				mapping.Const{Segment: "tnm_edition", Doc: "TNM edition used for staging.", Value: 8},
				mapping.Leaf{Segment: "n_stage", Doc: "Pathologically assessed N category.", Columns: []string{"pN_TNM8"}, Fn: convert.StripLetters},
				mapping.Leaf{Segment: "m_stage", Doc: "Clinically assessed M category; 2 encodes Mx.", Columns: []string{"cM"}, Fn: clbMStage},
			}},
		}},
		mapping.Group{Segment: "tumor", Doc: "Information about the primary tumor.", Children: []mapping.Node{
			mapping.Group{Segment: "core", Children: []mapping.Node{
				mapping.Const{Segment: "location", Doc: "All tumors in this dataset are oropharyngeal.", Value: "oropharynx"},
				mapping.Leaf{Segment: "subsite", Doc: "Tumor subsite as ICD-O-3 code, extracted from free text.", Columns: []string{"locT_code ICD O3"}, Fn: convert.ICDSubsite},
				mapping.Leaf{Segment: "central", Doc: "Tumor located centrally on the mid-sagittal plane.", Columns: []string{"latéralité"}, Fn: clbCentral},
				mapping.Leaf{Segment: "extension", Doc: "Tumor extends over the mid-sagittal plane.", Columns: []string{"latéralité"}, Fn: convert.Bool},
				mapping.Const{Segment: "volume", Doc: "Tumor volume in cm^3; not recorded in this export.", Value: nil},
				mapping.Const{Segment: "t_stage_prefix", Doc: "Only clinical T categories are available.", Value: "c"},
				mapping.Leaf{Segment: "t_stage", Doc: "Clinically assessed T category.", Columns: []string{"cT_TNM8"}, Fn: convert.StripLetters},
			}},
		}},
		mapping.Group{Segment: "diagnostic_consensus",
			Doc: "Per-level clinical consensus on lymph node involvement.",
			Children: []mapping.Node{
				mapping.Group{Segment: "core", Children: []mapping.Node{diagDate}},
				mapping.Group{Segment: "ipsi", Doc: "Clinical involvement of ipsilateral LNLs.",
					Children: append(clbBoolLevels("HL", convert.Bool),
						mapping.Leaf{Segment: "VII", Doc: "Retropharyngeal involvement.", Columns: []string{"HL_VII (RP)"}, Fn: convert.Bool})},
				mapping.Group{Segment: "contra", Doc: "Clinical involvement of contralateral LNLs.",
					Children: append(clbBoolLevels("CL", convert.Bool),
						mapping.Const{Segment: "VII", Doc: "Not assessed contralaterally.", Value: nil})},
			}},
		mapping.Group{Segment: "pathology",
			Doc: "Pathological involvement per LNL, from the neck dissection specimen.",
			Children: []mapping.Node{
				mapping.Group{Segment: "core", Children: []mapping.Node{diagDate}},
				mapping.Group{Segment: "ipsi", Doc: "Pathological involvement of ipsilateral LNLs.",
					Children: append(clbCountLevels("HL", "(+)", convert.Bool),
						mapping.Leaf{Segment: "VII", Columns: []string{"HL_VII_(+)"}, Fn: convert.Bool})},
				mapping.Group{Segment: "contra", Doc: "Pathological involvement of contralateral LNLs.",
					Children: append(clbCountLevels("CL", "(+)", convert.Bool),
						mapping.Const{Segment: "VII", Value: nil})},
			}},
		mapping.Group{Segment: "total_dissected",
			Doc: "Number of lymph nodes dissected per LNL.",
			Children: []mapping.Node{
				mapping.Group{Segment: "core", Children: []mapping.Node{diagDate}},
				mapping.Group{Segment: "ipsi", Doc: "Dissected node counts for ipsilateral LNLs.",
					Children: append([]mapping.Node{
						mapping.Leaf{Segment: "all", Doc: "Total nodes dissected ipsilaterally.", Columns: []string{"total gg analysés HL"}, Fn: convert.Int},
					}, append(clbCountLevels("HL", "analysés", convert.Int),
						mapping.Leaf{Segment: "VII", Columns: []string{"HL_VII_analysés"}, Fn: convert.Int})...)},
				mapping.Group{Segment: "contra", Doc: "Dissected node counts for contralateral LNLs.",
					Children: append([]mapping.Node{
						mapping.Leaf{Segment: "all", Doc: "Total nodes dissected contralaterally.", Columns: []string{"total gg analysés CL"}, Fn: convert.Int},
					}, clbCountLevels("CL", "analysés", convert.Int)...)},
			}},
		mapping.Group{Segment: "positive_dissected",
			Doc: "Number of metastatic nodes found per LNL in the dissection specimen.",
			Children: []mapping.Node{
				mapping.Group{Segment: "core", Children: []mapping.Node{diagDate}},
				mapping.Group{Segment: "ipsi", Doc: "Metastatic node counts for ipsilateral LNLs.",
					Children: append([]mapping.Node{
						mapping.Leaf{Segment: "all", Doc: "Total metastatic nodes ipsilaterally.", Columns: []string{"total gg (+) HL"}, Fn: convert.Int},
					}, append(clbCountLevels("HL", "(+)", convert.Int),
						mapping.Leaf{Segment: "VII", Columns: []string{"HL_VII_(+)"}, Fn: convert.Int})...)},
				mapping.Group{Segment: "contra", Doc: "Metastatic node counts for contralateral LNLs.",
					Children: append([]mapping.Node{
						mapping.Leaf{Segment: "all", Doc: "Total metastatic nodes contralaterally.", Columns: []string{"total gg (+) CL"}, Fn: convert.Int},
					}, clbCountLevels("CL", "(+)", convert.Int)...)},
			}},
	}
}
