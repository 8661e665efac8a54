package transform

import (
	"fmt"

	"lyproxify/internal/convert"
)

// IDSequence hands out anonymized patient identifiers of the form
// {prefix}{counter:04d}. A fresh sequence is created per run and passed to
// the dataset's tree builder, so identifiers depend only on prefix, start
// and row order, never on process state shared between runs.
type IDSequence struct {
	prefix string
	next   int
}

// NewIDSequence returns a sequence whose first identifier uses start.
func NewIDSequence(prefix string, start int) *IDSequence {
	return &IDSequence{prefix: prefix, next: start}
}

// Next returns the next identifier and advances the counter.
func (s *IDSequence) Next() string {
	id := fmt.Sprintf("%s%04d", s.prefix, s.next)
	s.next++
	return id
}

// Leaf wraps the sequence as a zero-argument conversion, ready to sit on the
// patient ID leaf of a mapping tree. The transformer invokes it exactly once
// per surviving row, in row order.
func (s *IDSequence) Leaf() convert.Func {
	return convert.Func{
		Arity: 0,
		Apply: func(...any) (any, error) { return s.Next(), nil },
	}
}
