package dataset

import (
	"lyproxify/internal/convert"
	"lyproxify/internal/mapping"
	"lyproxify/internal/transform"
)

func init() {
	Register(Spec{
		Name:        "2025-umcg-radiotherapy",
		Institution: umcgInstitution,
		IDPrefix:    "UMCGr",
		IDStart:     1,
		Build:       umcgRadiotherapyTree,
	})
}

// rtTStage decodes the clinical T category; the export uses code 8 for Tis
// and in-situ carcinomas, which the canonical schema records as T0.
var rtTStage = convert.Pure(func(v any) any {
	if convert.IsNA(v) {
		return nil
	}
	n, ok := convert.AsInt(v)
	if !ok {
		return nil
	}
	if n == 8 {
		return 0
	}
	return n
})

// umcgRadiotherapyTree maps the raw radiotherapy-cohort export. No patient in
// this cohort received a neck dissection, so only the clinical consensus on
// nodal involvement is available.
func umcgRadiotherapyTree(ids *transform.IDSequence) mapping.Tree {
	return mapping.Tree{
		mapping.Group{Segment: "patient", Doc: "General patient information.", Children: []mapping.Node{
			mapping.Group{Segment: "core", Children: []mapping.Node{
				mapping.Leaf{Segment: "id", Doc: "Anonymized patient ID.", Fn: ids.Leaf()},
				mapping.Const{Segment: "institution", Doc: "The clinic where the data was extracted.", Value: umcgInstitution},
				mapping.Leaf{Segment: "sex", Doc: "Biological sex of the patient.", Columns: []string{"SEX_c"}, Fn: umcgSex},
				mapping.Leaf{Segment: "age", Doc: "Age at diagnosis; -1 when not recorded.", Columns: []string{"age"}, Fn: convert.Age},
				mapping.Leaf{Segment: "diagnose_date",
					Doc:     "Date of diagnosis; falls back to treatment or follow-up dates when missing.",
					Columns: umcgDiagnoseDates, Fn: convert.EarliestDate},
				mapping.Leaf{Segment: "alcohol_abuse", Doc: "Regular alcohol consumption reported by the patient.", Columns: []string{"hh_cur_alcohol_use"}, Fn: convert.Bool},
				mapping.Leaf{Segment: "nicotine_abuse", Doc: "Current or former smoker.", Columns: []string{"hh_roken"}, Fn: convert.Bool},
				mapping.Leaf{Segment: "pack_years", Doc: "Smoking history in pack years.", Columns: []string{"hh_pack_years"}, Fn: convert.Int},
				mapping.Const{Segment: "neck_dissection", Doc: "No patient in this cohort received a neck dissection.", Value: false},
				mapping.Const{Segment: "tnm_edition", Doc: "TNM edition used for staging.", Value: 7},
				mapping.Leaf{Segment: "n_stage", Doc: "Clinically assessed N category.", Columns: []string{"NSTAD_DEF_v7_c"}, Fn: convert.NStage},
				mapping.Leaf{Segment: "m_stage", Doc: "Clinically assessed M category; -1 when not assessed.", Columns: []string{"MSTAD_DEF_v7_c"}, Fn: convert.MStage},
			}},
		}},
		mapping.Group{Segment: "tumor", Doc: "Information about the primary tumor.", Children: []mapping.Node{
			mapping.Group{Segment: "core", Children: []mapping.Node{
				mapping.Leaf{Segment: "location", Doc: "Primary tumor location.", Columns: []string{"LOCTUM_c"}, Fn: convert.Location},
				mapping.Leaf{Segment: "subsite", Doc: "Tumor subsite as ICD-O-3 code.", Columns: []string{"LOCTUM_c"}, Fn: convert.Subsite},
				mapping.Leaf{Segment: "central", Doc: "Tumor located centrally on the mid-sagittal plane.", Columns: []string{"central"}, Fn: convert.Bool},
				mapping.Leaf{Segment: "extension", Doc: "Tumor extends over the mid-sagittal plane.", Columns: []string{"mid_ext"}, Fn: convert.Bool},
				mapping.Const{Segment: "volume", Doc: "Tumor volume in cm^3; not recorded in this export.", Value: nil},
				mapping.Const{Segment: "t_stage_prefix", Doc: "Only clinical T categories are available.", Value: "c"},
				mapping.Leaf{Segment: "t_stage", Doc: "Clinically assessed T category.", Columns: []string{"TSTAD_DEF_v7_c"}, Fn: rtTStage},
				mapping.Leaf{Segment: "dist_to_midline", Doc: "Distance to the mid-sagittal plane in millimeters.", Columns: []string{"dist_mid"}, Fn: convert.Int},
			}},
		}},
		mapping.Group{Segment: "diagnostic_consensus",
			Doc: "Per-level clinical consensus on lymph node involvement, from CT, MRI and related modalities.",
			Children: []mapping.Node{
				mapping.Group{Segment: "core", Children: []mapping.Node{
					mapping.Leaf{Segment: "date", Doc: "Date of the diagnostic consensus.", Columns: []string{"RTSTART_c"}, Fn: convert.Date},
				}},
				mapping.Group{Segment: "ipsi", Doc: "Clinical involvement of ipsilateral LNLs.", Children: boolLevels(umcgClinicalIpsi)},
				mapping.Group{Segment: "contra", Doc: "Clinical involvement of contralateral LNLs.", Children: boolLevels(umcgClinicalContra)},
			}},
	}
}
