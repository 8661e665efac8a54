package dataset

import (
	"lyproxify/internal/convert"
	"lyproxify/internal/mapping"
	"lyproxify/internal/transform"
)

func init() {
	Register(Spec{
		Name:        "2025-umcg-surgery",
		Institution: umcgInstitution,
		IDPrefix:    "UMCGs",
		IDStart:     1,
		Build:       umcgSurgeryTree,
	})
}

// umcgSurgeryTree maps the raw surgery-cohort export. Every patient received
// a neck dissection, so alongside the clinical consensus the tree reports
// the pathological findings: per-level involvement, counts of metastatic
// nodes and extracapsular spread. The staging columns come in pairs of a
// clinical code plus a free-text pathological category; the pathological
// one wins when present.
func umcgSurgeryTree(ids *transform.IDSequence) mapping.Tree {
	return mapping.Tree{
		mapping.Group{Segment: "patient", Doc: "General patient information.", Children: []mapping.Node{
			mapping.Group{Segment: "core", Children: []mapping.Node{
				mapping.Leaf{Segment: "id", Doc: "Anonymized patient ID.", Fn: ids.Leaf()},
				mapping.Const{Segment: "institution", Doc: "The clinic where the data was extracted.", Value: umcgInstitution},
				mapping.Leaf{Segment: "sex", Doc: "Biological sex of the patient.", Columns: []string{"SEX_c"}, Fn: umcgSex},
				mapping.Leaf{Segment: "age", Doc: "Age at diagnosis; -1 when not recorded.", Columns: []string{"age"}, Fn: convert.Age},
				mapping.Leaf{Segment: "diagnose_date",
					Doc:     "Date of diagnosis; falls back to surgery, treatment or follow-up dates when missing.",
					Columns: umcgSurgeryDiagnoseDates, Fn: convert.EarliestDate},
				mapping.Leaf{Segment: "alcohol_abuse", Doc: "Regular alcohol consumption reported by the patient.", Columns: []string{"hh_cur_alcohol_use"}, Fn: convert.Bool},
				mapping.Leaf{Segment: "nicotine_abuse", Doc: "Current or former smoker.", Columns: []string{"hh_roken"}, Fn: convert.Bool},
				mapping.Leaf{Segment: "pack_years", Doc: "Smoking history in pack years.", Columns: []string{"hh_pack_years"}, Fn: convert.Int},
				mapping.Leaf{Segment: "hpv_status", Doc: "p16 overexpression as HPV surrogate.", Columns: []string{"p16"}, Fn: convert.Bool},
				mapping.Leaf{Segment: "neck_dissection", Doc: "Whether a neck dissection was performed, inferred from the surgery date.", Columns: []string{"hh_dtop_pt"}, Fn: convert.HadNeckDissection},
				mapping.Const{Segment: "tnm_edition", Doc: "TNM edition used for staging.", Value: 7},
				mapping.Leaf{Segment: "n_stage", Doc: "N category; pathological when assessed, clinical otherwise.",
					Columns: []string{"NSTAD_DEF_v7_c", "np"}, Fn: convert.StagedCategory('N', convert.NStageTable)},
				mapping.Leaf{Segment: "m_stage", Doc: "M category; pathological when assessed, clinical otherwise.",
					Columns: []string{"MSTAD_DEF_v7_c", "mp"}, Fn: convert.StagedCategory('M', convert.MStageTable)},
			}},
			mapping.Group{Segment: "followup", Doc: "Follow-up and outcome information.", Children: []mapping.Node{
				mapping.Leaf{Segment: "date", Doc: "Date of last contact.", Columns: []string{"TERM_c"}, Fn: convert.Date},
				mapping.Leaf{Segment: "is_dead", Doc: "Whether the patient died during follow-up.", Columns: []string{"REDTERM_c"}, Fn: convert.IsDead},
				mapping.Leaf{Segment: "cause_of_death", Doc: "Cause of death: other, tumor or complication.", Columns: []string{"REDTERM_c"}, Fn: convert.CauseOfDeath},
				mapping.Leaf{Segment: "had_complication", Doc: "Whether a treatment complication was recorded.", Columns: []string{"REDTERM_c"}, Fn: convert.HadComplication},
				mapping.Leaf{Segment: "local_recurrence_date", Doc: "Date of local recurrence, checked against the recurrence flag.",
					Columns: []string{"LR_c", "DATLR_c"}, Fn: convert.RecurrenceDate},
				mapping.Leaf{Segment: "regional_recurrence_date", Doc: "Date of regional recurrence, checked against the recurrence flag.",
					Columns: []string{"RR_c", "DATRR_c"}, Fn: convert.RecurrenceDate},
				mapping.Leaf{Segment: "metastasis_date", Doc: "Date of distant metastasis, checked against the metastasis flag.",
					Columns: []string{"MET_c", "DATMET_c"}, Fn: convert.RecurrenceDate},
			}},
		}},
		mapping.Group{Segment: "tumor", Doc: "Information about the primary tumor.", Children: []mapping.Node{
			mapping.Group{Segment: "core", Children: []mapping.Node{
				mapping.Leaf{Segment: "location", Doc: "Primary tumor location.", Columns: []string{"LOCTUM_c"}, Fn: convert.Location},
				mapping.Leaf{Segment: "subsite", Doc: "Tumor subsite as ICD-O-3 code.", Columns: []string{"LOCTUM_c"}, Fn: convert.Subsite},
				mapping.Leaf{Segment: "central", Doc: "Tumor located centrally on the mid-sagittal plane.", Columns: []string{"central"}, Fn: convert.Bool},
				mapping.Leaf{Segment: "extension", Doc: "Tumor extends over the mid-sagittal plane.", Columns: []string{"midline_ext"}, Fn: convert.Bool},
				mapping.Const{Segment: "volume", Doc: "Tumor volume in cm^3; not recorded in this export.", Value: nil},
				mapping.Leaf{Segment: "t_stage_prefix", Doc: "\"p\" when a pathological T category was assessed, \"c\" otherwise.",
					Columns: []string{"TSTAD_DEF_v7_c", "tp"}, Fn: convert.StagedPrefix('T')},
				mapping.Leaf{Segment: "t_stage", Doc: "T category; pathological when assessed, clinical otherwise.",
					Columns: []string{"TSTAD_DEF_v7_c", "tp"}, Fn: convert.StagedCategory('T', nil)},
				mapping.Const{Segment: "dist_to_midline", Doc: "Distance to the mid-sagittal plane; not recorded in this export.", Value: nil},
			}},
		}},
		mapping.Group{Segment: "diagnostic_consensus",
			Doc: "Per-level clinical consensus on lymph node involvement, from CT, MRI and related modalities.",
			Children: []mapping.Node{
				mapping.Group{Segment: "core", Children: []mapping.Node{
					mapping.Leaf{Segment: "date", Doc: "Date of the diagnostic consensus.",
						Columns: umcgSurgeryDiagnoseDates, Fn: convert.EarliestDate},
				}},
				mapping.Group{Segment: "ipsi", Doc: "Clinical involvement of ipsilateral LNLs.", Children: boolLevels(umcgClinicalIpsi)},
				mapping.Group{Segment: "contra", Doc: "Clinical involvement of contralateral LNLs.", Children: boolLevels(umcgClinicalContra)},
			}},
		mapping.Group{Segment: "pathology",
			Doc: "Pathological involvement per LNL, from the neck dissection specimen.",
			Children: []mapping.Node{
				mapping.Group{Segment: "core", Children: []mapping.Node{
					mapping.Leaf{Segment: "date", Doc: "Date of the pathological assessment.", Columns: []string{"hh_dtop_pt"}, Fn: convert.Date},
				}},
				mapping.Group{Segment: "ipsi", Doc: "Pathological involvement of ipsilateral LNLs.", Children: boolLevels(umcgPathologyIpsi)},
				mapping.Group{Segment: "contra", Doc: "Pathological involvement of contralateral LNLs.", Children: boolLevels(umcgPathologyContra)},
			}},
		mapping.Group{Segment: "positive_dissected",
			Doc: "Number of metastatic nodes found per LNL in the dissection specimen.",
			Children: []mapping.Node{
				mapping.Group{Segment: "core", Children: []mapping.Node{
					mapping.Leaf{Segment: "date", Doc: "Date of the pathological assessment.", Columns: []string{"hh_dtop_pt"}, Fn: convert.Date},
				}},
				mapping.Group{Segment: "ipsi", Doc: "Metastatic node counts for ipsilateral LNLs.", Children: intLevels(umcgPathologyIpsi)},
				mapping.Group{Segment: "contra", Doc: "Metastatic node counts for contralateral LNLs.", Children: intLevels(umcgPathologyContra)},
			}},
		mapping.Group{Segment: "extracapsular",
			Doc: "Extracapsular spread found in any node of an LNL.",
			Children: []mapping.Node{
				mapping.Group{Segment: "core", Children: []mapping.Node{
					mapping.Leaf{Segment: "date", Doc: "Date of the pathological assessment.", Columns: []string{"hh_dtop_pt"}, Fn: convert.Date},
				}},
				mapping.Group{Segment: "ipsi", Doc: "Extracapsular spread in ipsilateral LNLs.", Children: boolLevels(umcgExtracapsularIpsi)},
				mapping.Group{Segment: "contra", Doc: "Extracapsular spread in contralateral LNLs.", Children: boolLevels(umcgExtracapsularContra)},
			}},
	}
}
