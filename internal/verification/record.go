package verification

import (
	"boardcheck/internal/manifest"
)

// Record is the aggregated verification outcome for one passenger. Each
// boolean flag is true only when the corresponding check passed end to end;
// a check that failed or could not be completed leaves its flag false and a
// human-readable message in Messages.
type Record struct {
	Manifest manifest.Record

	GroupID string
	VideoID string

	BoardingPassValidation bool
	NameValidation         bool
	DoBValidation          bool
	PersonValidation       bool
	LuggageValidation      bool

	// Confidence is the strongest candidate confidence observed during
	// identity matching, reported even when the match was rejected.
	Confidence float64

	Messages []string
	Feedback string

	// Err is set when processing aborted before a full record could be
	// produced; the flags are then meaningless and all left false.
	Err error
}

// Cleared reports whether every check passed.
func (r *Record) Cleared() bool {
	return r.Err == nil &&
		r.BoardingPassValidation && r.NameValidation && r.DoBValidation &&
		r.PersonValidation && r.LuggageValidation
}

// Flagged reports whether the passenger completed processing but failed at
// least one check.
func (r *Record) Flagged() bool {
	return r.Err == nil && !r.Cleared()
}

// Failed reports whether processing aborted before producing a verdict.
func (r *Record) Failed() bool {
	return r.Err != nil
}
