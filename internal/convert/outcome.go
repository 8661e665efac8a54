package convert

import (
	"errors"
	"fmt"
)

// ErrIntegrity marks a contradiction between two raw fields that must not be
// papered over with a nil. Errors wrapping it are row-fatal: the transformer
// aborts the row and surfaces the contradiction to the caller instead of
// silently repairing or dropping it.
var ErrIntegrity = errors.New("data integrity")

// Follow-up outcome coding shared by the institutions feeding this pipeline:
// codes 3, 4 and 5 all mean the patient has died, with the code identifying
// the cause. Code 5 additionally implies a treatment complication occurred.
const (
	outcomeDeadOther        = 3
	outcomeDeadTumor        = 4
	outcomeDeadComplication = 5
)

// IsDead classifies the follow-up outcome code into deceased yes/no;
// unparseable input propagates as nil.
var IsDead = Func{
	Arity: 1,
	Apply: func(vals ...any) (any, error) {
		if IsNA(vals[0]) {
			return nil, nil
		}
		n, ok := AsInt(vals[0])
		if !ok {
			return nil, nil
		}
		return n == outcomeDeadOther || n == outcomeDeadTumor || n == outcomeDeadComplication, nil
	},
}

// CauseOfDeath maps the follow-up outcome code to an enumerated cause.
var CauseOfDeath = Func{
	Arity: 1,
	Apply: func(vals ...any) (any, error) {
		n, ok := AsInt(vals[0])
		if IsNA(vals[0]) || !ok {
			return nil, nil
		}
		switch n {
		case outcomeDeadOther:
			return "other", nil
		case outcomeDeadTumor:
			return "tumor", nil
		case outcomeDeadComplication:
			return "complication", nil
		}
		return nil, nil
	},
}

// HadComplication reports whether the outcome code records a treatment
// complication.
var HadComplication = Func{
	Arity: 1,
	Apply: func(vals ...any) (any, error) {
		if IsNA(vals[0]) {
			return nil, nil
		}
		n, ok := AsInt(vals[0])
		if !ok {
			return nil, nil
		}
		return n == outcomeDeadComplication, nil
	},
}

// HadNeckDissection infers a neck dissection from the surgery-date column:
// a parseable date means the surgery took place, an unparseable non-empty
// cell means it did not, a missing cell stays unknown.
var HadNeckDissection = Func{
	Arity: 1,
	Apply: func(vals ...any) (any, error) {
		if IsNA(vals[0]) {
			return nil, nil
		}
		_, ok := ParseDate(vals[0])
		return ok, nil
	},
}

// RecurrenceDate validates the recurrence flag against the recurrence date
// and returns the ISO date (or nil when neither is set). A date without a
// reported recurrence, or a recurrence without a date, is an upstream
// data-entry contradiction and fails the row.
var RecurrenceDate = Func{
	Arity: 2,
	Apply: func(vals ...any) (any, error) {
		flag, _ := Bool.Apply(vals[0])
		date, _ := Date.Apply(vals[1])

		rec := flag == true // nil or false both count as "no recurrence"

		if !rec && date != nil {
			return nil, fmt.Errorf("%w: recurrence date %v is set but no recurrence is reported", ErrIntegrity, date)
		}
		if rec && date == nil {
			return nil, fmt.Errorf("%w: recurrence is reported but no recurrence date is set", ErrIntegrity)
		}
		return date, nil
	},
}
