package records

import "time"

// Run is one execution of the verification pipeline over a manifest.
type Run struct {
	ID           string
	ManifestPath string
	StartedAt    time.Time
	CompletedAt  *time.Time
	Total        int
	Verified     int
	Flagged      int
	Failed       int
}

// PassengerRecord is the persisted outcome for one passenger in a run.
// The boolean flags mirror the validated-manifest columns; a false value
// means the check did not pass or could not be completed.
type PassengerRecord struct {
	ID        int64
	RunID     string
	FirstName string
	LastName  string
	FlightNo  string
	GroupID   string
	VideoID   string

	BoardingPassValid bool
	NameValid         bool
	DOBValid          bool
	PersonValid       bool
	LuggageValid      bool

	Confidence   float64
	Feedback     string
	ErrorMessage string
	CreatedAt    time.Time
}

// Cleared reports whether every check passed for this passenger.
func (r *PassengerRecord) Cleared() bool {
	return r.BoardingPassValid && r.NameValid && r.DOBValid && r.PersonValid && r.LuggageValid
}
