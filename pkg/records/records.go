// Package records defines the in-memory representation of a raw table row.
//
// A Record maps raw column names (as they appear in an institution's export)
// to untyped scalar values. Missing cells are represented as nil; the parser
// is responsible for normalizing empty strings and NA markers to nil before
// a Record reaches any conversion code.
package records

// Record is one raw row: raw column name -> scalar value or nil.
type Record map[string]any

// Get returns the value for col, or nil when the column is absent from the
// record. Absence and an explicit nil value are indistinguishable on purpose:
// both mean "no data" to downstream conversion.
func (r Record) Get(col string) any {
	if v, ok := r[col]; ok {
		return v
	}
	return nil
}
