package compiler

import "github.com/cognicore/meibo/pkg/meibo/record"

// Records is the append-only output of a compile. The only mutation of an
// appended record is MarkLastDrafted.
type Records struct {
	recs []record.Record
}

// Append adds a record.
func (r *Records) Append(rec record.Record) {
	r.recs = append(r.recs, rec)
}

// MarkLastDrafted flags the most recent record as drafted. It reports
// false when there is no record yet.
func (r *Records) MarkLastDrafted() bool {
	if len(r.recs) == 0 {
		return false
	}
	r.recs[len(r.recs)-1].Drafted = true
	return true
}

// Last returns the most recent record.
func (r *Records) Last() (record.Record, bool) {
	if len(r.recs) == 0 {
		return record.Record{}, false
	}
	return r.recs[len(r.recs)-1], true
}

// All returns a copy of the records in append order.
func (r *Records) All() []record.Record {
	out := make([]record.Record, len(r.recs))
	copy(out, r.recs)
	return out
}

// Len returns the number of records.
func (r *Records) Len() int {
	return len(r.recs)
}
