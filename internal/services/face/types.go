package face

// TrainingState is the person-group training lifecycle reported by the service.
type TrainingState string

const (
	TrainingRunning   TrainingState = "running"
	TrainingSucceeded TrainingState = "succeeded"
	TrainingFailed    TrainingState = "failed"
)

// TrainingStatus is the service's answer to a training-status poll.
type TrainingStatus struct {
	Status  TrainingState `json:"status"`
	Message string        `json:"message"`
}

// Candidate is one possible person match for an identified face, with the
// service-reported confidence in [0,1].
type Candidate struct {
	PersonID   string  `json:"personId"`
	Confidence float64 `json:"confidence"`
}

// Match pairs an input face id with its candidates. Candidates keep the
// service ordering (descending confidence); no re-sorting is performed.
type Match struct {
	FaceID     string      `json:"faceId"`
	Candidates []Candidate `json:"candidates"`
}

// Verification is the result of a pairwise face comparison.
type Verification struct {
	IsIdentical bool    `json:"isIdentical"`
	Confidence  float64 `json:"confidence"`
}
