package mapping

import (
	"fmt"
	"strings"

	"lyproxify/internal/convert"
	"lyproxify/internal/lytable"
)

// SpecError reports a defect in a mapping specification itself, as opposed to
// a problem with the data flowing through it. Spec errors fail loudly before
// any row is processed.
type SpecError struct {
	Path    string
	Message string
}

func (e *SpecError) Error() string {
	if e.Path == "" {
		return "mapping spec: " + e.Message
	}
	return fmt.Sprintf("mapping spec: %s: %s", e.Path, e.Message)
}

func specErrf(path []string, format string, args ...any) error {
	return &SpecError{Path: strings.Join(path, "."), Message: fmt.Sprintf(format, args...)}
}

// Bindings flattens the tree into output columns in traversal order and
// validates the structural invariants: exactly three levels, group nodes on
// the first two, leaves on the third, unique paths, non-nil conversion
// functions and declared arity matching the leaf's source column count.
func (t Tree) Bindings() ([]Binding, error) {
	var out []Binding
	seen := make(map[lytable.Path]bool)

	for _, topNode := range t {
		top, ok := topNode.(Group)
		if !ok {
			return nil, specErrf([]string{topNode.segment()}, "top-level node must be a group")
		}
		for _, midNode := range top.Children {
			mid, ok := midNode.(Group)
			if !ok {
				return nil, specErrf([]string{top.Segment, midNode.segment()}, "mid-level node must be a group")
			}
			for _, leafNode := range mid.Children {
				path := lytable.Path{Top: top.Segment, Mid: mid.Segment, Leaf: leafNode.segment()}
				if seen[path] {
					return nil, specErrf([]string{path.Top, path.Mid, path.Leaf}, "duplicate column path")
				}
				seen[path] = true

				switch x := leafNode.(type) {
				case Leaf:
					if x.Fn.Apply == nil {
						return nil, specErrf([]string{path.Top, path.Mid, path.Leaf}, "computed leaf has no conversion function")
					}
					if x.Fn.Arity != convert.Variadic && x.Fn.Arity != len(x.Columns) {
						return nil, specErrf([]string{path.Top, path.Mid, path.Leaf},
							"conversion expects %d source columns, leaf lists %d", x.Fn.Arity, len(x.Columns))
					}
					out = append(out, Binding{Path: path, Doc: x.Doc, Columns: x.Columns, Fn: x.Fn})
				case Const:
					out = append(out, Binding{Path: path, Doc: x.Doc, Value: x.Value, Constant: true})
				case Group:
					return nil, specErrf([]string{path.Top, path.Mid, path.Leaf}, "tree deeper than three levels")
				}
			}
		}
	}
	return out, nil
}

// Bind checks every computed leaf's source columns against the raw header.
// A leaf referencing a column the dataset does not have at all is a
// configuration bug, not a missing value, and must not silently produce
// nils for every row.
func (t Tree) Bind(header []string) error {
	bindings, err := t.Bindings()
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(header))
	for _, h := range header {
		known[h] = true
	}
	for _, b := range bindings {
		for _, col := range b.Columns {
			if !known[col] {
				return specErrf([]string{b.Path.Top, b.Path.Mid, b.Path.Leaf},
					"source column %q not present in raw header", col)
			}
		}
	}
	return nil
}
