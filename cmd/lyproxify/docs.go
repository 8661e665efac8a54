package main

import (
	"fmt"
	"io"
	"strings"

	"lyproxify/internal/dataset"
	"lyproxify/internal/mapping"
	"lyproxify/internal/transform"
)

// printDocs renders the column documentation of a dataset's mapping tree as
// an indented outline, one line per node. Leaves additionally show the raw
// source columns they are computed from, or the constant they carry.
func printDocs(w io.Writer, name string) error {
	spec, err := dataset.Get(name)
	if err != nil {
		return err
	}
	tree := spec.Build(transform.NewIDSequence(spec.IDPrefix, 1))

	sources := map[string]string{}
	bindings, err := tree.Bindings()
	if err != nil {
		return err
	}
	for _, b := range bindings {
		key := b.Path.String()
		switch {
		case b.Constant:
			sources[key] = fmt.Sprintf("= %v", constLabel(b.Value))
		case len(b.Columns) > 0:
			sources[key] = "<- " + strings.Join(b.Columns, ", ")
		default:
			sources[key] = "<- (generated)"
		}
	}

	fmt.Fprintf(w, "%s (%s)\n", spec.Name, spec.Institution)
	tree.Walk(func(v mapping.Visit) {
		indent := strings.Repeat("  ", len(v.Path))
		line := indent + v.Path[len(v.Path)-1]
		if v.IsLeaf {
			if src, ok := sources[strings.Join(v.Path, ".")]; ok {
				line += "  " + src
			}
		}
		if v.Doc != "" {
			line += "  # " + v.Doc
		}
		fmt.Fprintln(w, line)
	})
	return nil
}

func constLabel(v any) string {
	switch x := v.(type) {
	case nil:
		return "(empty)"
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
