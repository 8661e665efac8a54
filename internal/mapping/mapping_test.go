package mapping

import (
	"errors"
	"strings"
	"testing"

	"lyproxify/internal/convert"
)

func testTree() Tree {
	return Tree{
		Group{Segment: "patient", Doc: "patient-level info", Children: []Node{
			Group{Segment: "core", Children: []Node{
				Leaf{Segment: "age", Doc: "age at diagnosis", Columns: []string{"age"}, Fn: convert.Age},
				Leaf{Segment: "alcohol_abuse", Columns: []string{"alcohol"}, Fn: convert.Bool},
				Const{Segment: "dataset", Value: "2025-test"},
			}},
		}},
		Group{Segment: "tumor", Children: []Node{
			Group{Segment: "core", Children: []Node{
				Leaf{Segment: "t_stage", Columns: []string{"t_clin", "t_path"},
					Fn: convert.StagedCategory('T', nil)},
			}},
		}},
	}
}

func TestBindingsOrder(t *testing.T) {
	bindings, err := testTree().Bindings()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"patient.core.age",
		"patient.core.alcohol_abuse",
		"patient.core.dataset",
		"tumor.core.t_stage",
	}
	if len(bindings) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(bindings), len(want))
	}
	for i, b := range bindings {
		if b.Path.String() != want[i] {
			t.Errorf("binding %d: got %s, want %s", i, b.Path, want[i])
		}
	}
	if !bindings[2].Constant || bindings[2].Value != "2025-test" {
		t.Errorf("dataset binding should be constant 2025-test, got %+v", bindings[2])
	}
}

func TestBindingsRejectsBadTrees(t *testing.T) {
	cases := []struct {
		name string
		tree Tree
	}{
		{"leaf at top level", Tree{
			Leaf{Segment: "age", Columns: []string{"age"}, Fn: convert.Age},
		}},
		{"leaf at mid level", Tree{
			Group{Segment: "patient", Children: []Node{
				Leaf{Segment: "age", Columns: []string{"age"}, Fn: convert.Age},
			}},
		}},
		{"group at leaf level", Tree{
			Group{Segment: "patient", Children: []Node{
				Group{Segment: "core", Children: []Node{
					Group{Segment: "deep"},
				}},
			}},
		}},
		{"duplicate path", Tree{
			Group{Segment: "patient", Children: []Node{
				Group{Segment: "core", Children: []Node{
					Leaf{Segment: "age", Columns: []string{"age"}, Fn: convert.Age},
					Leaf{Segment: "age", Columns: []string{"age2"}, Fn: convert.Age},
				}},
			}},
		}},
		{"nil conversion", Tree{
			Group{Segment: "patient", Children: []Node{
				Group{Segment: "core", Children: []Node{
					Leaf{Segment: "age", Columns: []string{"age"}},
				}},
			}},
		}},
		{"arity mismatch", Tree{
			Group{Segment: "patient", Children: []Node{
				Group{Segment: "core", Children: []Node{
					Leaf{Segment: "age", Columns: []string{"a", "b"}, Fn: convert.Age},
				}},
			}},
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.tree.Bindings()
			if err == nil {
				t.Fatal("expected spec error, got nil")
			}
			var se *SpecError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SpecError, got %T: %v", err, err)
			}
		})
	}
}

func TestVariadicArity(t *testing.T) {
	tree := Tree{
		Group{Segment: "patient", Children: []Node{
			Group{Segment: "followup", Children: []Node{
				Leaf{Segment: "last_contact", Columns: []string{"d1", "d2", "d3"},
					Fn: convert.EarliestDate},
			}},
		}},
	}
	if _, err := tree.Bindings(); err != nil {
		t.Fatalf("variadic leaf should accept any column count: %v", err)
	}
}

func TestBind(t *testing.T) {
	tree := testTree()
	header := []string{"age", "alcohol", "t_clin", "t_path", "unused"}
	if err := tree.Bind(header); err != nil {
		t.Fatalf("Bind with complete header: %v", err)
	}
	err := tree.Bind([]string{"age", "alcohol", "t_clin"})
	if err == nil {
		t.Fatal("Bind should reject a header missing t_path")
	}
	var se *SpecError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SpecError, got %T", err)
	}
	if se.Path != "tumor.core.t_stage" {
		t.Errorf("spec error path = %q, want tumor.core.t_stage", se.Path)
	}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	var paths []string
	var leaves int
	testTree().Walk(func(v Visit) {
		paths = append(paths, strings.Join(v.Path, "."))
		if v.IsLeaf {
			leaves++
		}
	})
	want := []string{
		"patient",
		"patient.core",
		"patient.core.age",
		"patient.core.alcohol_abuse",
		"patient.core.dataset",
		"tumor",
		"tumor.core",
		"tumor.core.t_stage",
	}
	if len(paths) != len(want) {
		t.Fatalf("visited %d nodes, want %d: %v", len(paths), len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("visit %d: got %s, want %s", i, paths[i], want[i])
		}
	}
	if leaves != 4 {
		t.Errorf("saw %d leaves, want 4", leaves)
	}
}
