package dataset

import (
	"strings"
	"testing"

	"lyproxify/internal/lytable"
	"lyproxify/internal/mapping"
	"lyproxify/internal/transform"
)

func TestRegistryNames(t *testing.T) {
	want := []string{
		"2021-clb-oropharynx",
		"2025-umcg-radiotherapy",
		"2025-umcg-surgery",
	}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("2019-nowhere"); err == nil {
		t.Fatal("Get on unknown dataset should error")
	}
}

// rawHeader reconstructs the raw header a spec expects from its own
// bindings; Bind against it must then succeed, and every spec must be
// structurally valid to begin with.
func rawHeader(t *testing.T, tree mapping.Tree) []string {
	t.Helper()
	bindings, err := tree.Bindings()
	if err != nil {
		t.Fatalf("invalid tree: %v", err)
	}
	seen := map[string]bool{}
	var header []string
	for _, b := range bindings {
		for _, col := range b.Columns {
			if !seen[col] {
				seen[col] = true
				header = append(header, col)
			}
		}
	}
	return header
}

func TestSpecsAreValid(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			spec, err := Get(name)
			if err != nil {
				t.Fatal(err)
			}
			ids := transform.NewIDSequence(spec.IDPrefix, spec.IDStart)
			tree := spec.Build(ids)
			header := rawHeader(t, tree)
			if err := tree.Bind(header); err != nil {
				t.Fatalf("Bind: %v", err)
			}

			bindings, _ := tree.Bindings()
			paths := map[lytable.Path]bool{}
			for _, b := range bindings {
				paths[b.Path] = true
			}
			required := []lytable.Path{
				{Top: "patient", Mid: "core", Leaf: "id"},
				{Top: "patient", Mid: "core", Leaf: "institution"},
				{Top: "patient", Mid: "core", Leaf: "sex"},
				{Top: "patient", Mid: "core", Leaf: "age"},
				{Top: "patient", Mid: "core", Leaf: "diagnose_date"},
				{Top: "patient", Mid: "core", Leaf: "n_stage"},
				{Top: "patient", Mid: "core", Leaf: "m_stage"},
				{Top: "tumor", Mid: "core", Leaf: "subsite"},
				{Top: "tumor", Mid: "core", Leaf: "t_stage"},
				{Top: "tumor", Mid: "core", Leaf: "t_stage_prefix"},
				{Top: "diagnostic_consensus", Mid: "ipsi", Leaf: "II"},
				{Top: "diagnostic_consensus", Mid: "contra", Leaf: "II"},
			}
			for _, p := range required {
				if !paths[p] {
					t.Errorf("spec lacks required column %s", p)
				}
			}
		})
	}
}

func TestUMCGSurgeryHasPathologyBlocks(t *testing.T) {
	spec, err := Get("2025-umcg-surgery")
	if err != nil {
		t.Fatal(err)
	}
	tree := spec.Build(transform.NewIDSequence(spec.IDPrefix, spec.IDStart))
	var tops []string
	tree.Walk(func(v mapping.Visit) {
		if len(v.Path) == 1 {
			tops = append(tops, v.Path[0])
		}
	})
	joined := strings.Join(tops, ",")
	for _, top := range []string{"pathology", "positive_dissected", "extracapsular"} {
		if !strings.Contains(joined, top) {
			t.Errorf("surgery spec lacks top-level group %s (have %s)", top, joined)
		}
	}
}

// bindingColumns returns the source columns of the binding at path, or nil.
func bindingColumns(t *testing.T, tree mapping.Tree, path lytable.Path) []string {
	t.Helper()
	bindings, err := tree.Bindings()
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range bindings {
		if b.Path == path {
			return b.Columns
		}
	}
	return nil
}

// The surgery export falls back to the surgery date when dating a diagnosis;
// the radiotherapy export has no such column.
func TestUMCGDiagnoseDateFallbacks(t *testing.T) {
	hasCol := func(cols []string, want string) bool {
		for _, c := range cols {
			if c == want {
				return true
			}
		}
		return false
	}
	paths := []lytable.Path{
		{Top: "patient", Mid: "core", Leaf: "diagnose_date"},
		{Top: "diagnostic_consensus", Mid: "core", Leaf: "date"},
	}
	for name, wantSurgery := range map[string]bool{
		"2025-umcg-surgery":      true,
		"2025-umcg-radiotherapy": false,
	} {
		spec, err := Get(name)
		if err != nil {
			t.Fatal(err)
		}
		tree := spec.Build(transform.NewIDSequence(spec.IDPrefix, spec.IDStart))
		for _, p := range paths {
			cols := bindingColumns(t, tree, p)
			if cols == nil {
				t.Fatalf("%s: no binding at %s", name, p)
			}
			if got := hasCol(cols, "hh_dtop_pt"); got != wantSurgery {
				t.Errorf("%s: %s includes hh_dtop_pt = %v, want %v", name, p, got, wantSurgery)
			}
		}
	}
}

func TestUMCGIDPrefixes(t *testing.T) {
	cases := map[string]string{
		"2025-umcg-radiotherapy": "UMCGr0001",
		"2025-umcg-surgery":      "UMCGs0001",
	}
	for name, want := range cases {
		spec, err := Get(name)
		if err != nil {
			t.Fatal(err)
		}
		ids := transform.NewIDSequence(spec.IDPrefix, spec.IDStart)
		if got := ids.Next(); got != want {
			t.Errorf("%s: first ID = %q, want %q", name, got, want)
		}
	}
}
