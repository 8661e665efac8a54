// Package mapping defines the declarative schema tree that drives a dataset
// transformation. The tree mirrors the three-level header of the canonical
// table: top-level groups (patient, tumor, ...), mid-level groups (core,
// ipsi, contra, ...) and leaves, one per output column.
//
// The tree is plain data with three node variants. It can be validated,
// bound against a raw header and walked for documentation without executing
// any conversion, which is what separates a mapping bug (caught at load
// time) from a data problem (handled per cell at run time).
package mapping

import (
	"lyproxify/internal/convert"
	"lyproxify/internal/lytable"
)

// Node is one vertex of a mapping tree. Exactly three variants implement it:
// Group, Leaf and Const.
type Node interface {
	segment() string
	isNode()
}

// Group names a header segment and carries an ordered list of children.
// Child order is insertion order and fixes the output column order.
type Group struct {
	Segment  string
	Doc      string
	Children []Node
}

// Leaf binds one output column to the raw columns feeding it and the
// conversion primitive deriving its value. A leaf with zero Columns has its
// Fn invoked once per row with no arguments; that is how per-run generators
// such as the patient ID sequence plug in.
type Leaf struct {
	Segment string
	Doc     string
	Columns []string
	Fn      convert.Func
}

// Const binds one output column to a fixed value copied into every row.
type Const struct {
	Segment string
	Doc     string
	Value   any
}

func (g Group) segment() string { return g.Segment }
func (l Leaf) segment() string  { return l.Segment }
func (c Const) segment() string { return c.Segment }

func (Group) isNode() {}
func (Leaf) isNode()  {}
func (Const) isNode() {}

// Tree is an ordered list of top-level groups.
type Tree []Node

// Binding is one flattened output column: the leaf plus its full path.
type Binding struct {
	Path     lytable.Path
	Doc      string
	Columns  []string
	Fn       convert.Func
	Value    any
	Constant bool
}

// Visit is one node seen during Walk, identified by its path segments so far.
type Visit struct {
	Path   []string
	Doc    string
	IsLeaf bool
}

// Walk traverses the tree depth-first in insertion order, calling fn for
// every node. Doc strings are passed through untouched; the documentation
// renderer in the CLI is built on this.
func (t Tree) Walk(fn func(v Visit)) {
	var rec func(prefix []string, nodes []Node)
	rec = func(prefix []string, nodes []Node) {
		for _, n := range nodes {
			path := append(append([]string{}, prefix...), n.segment())
			switch x := n.(type) {
			case Group:
				fn(Visit{Path: path, Doc: x.Doc})
				rec(path, x.Children)
			case Leaf:
				fn(Visit{Path: path, Doc: x.Doc, IsLeaf: true})
			case Const:
				fn(Visit{Path: path, Doc: x.Doc, IsLeaf: true})
			}
		}
	}
	rec(nil, t)
}
