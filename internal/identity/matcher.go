package identity

import (
	"context"
	"errors"
	"fmt"

	"boardcheck/internal/services/face"
)

// ErrNoFaceDetected signals that the captured image contains no detectable
// face, so no identity decision can be made.
var ErrNoFaceDetected = errors.New("no face detected in captured image")

// FaceClient is the subset of the face service used for matching.
type FaceClient interface {
	DetectFaces(ctx context.Context, source string) ([]string, error)
	Identify(ctx context.Context, faceIDs []string, groupID string) ([]face.Match, error)
}

// Result is the outcome of matching one captured face against a group.
// PersonID is empty when no candidate cleared the threshold.
type Result struct {
	PersonID   string
	Confidence float64
	Accepted   bool
}

// Matcher identifies captured faces against a trained person group.
type Matcher struct {
	client    FaceClient
	threshold float64
}

// NewMatcher creates a Matcher. Candidates must exceed threshold strictly
// to be accepted.
func NewMatcher(client FaceClient, threshold float64) *Matcher {
	return &Matcher{client: client, threshold: threshold}
}

// Match detects the face in source and identifies it against groupID. When
// the image contains several faces only the first reported one is used.
func (m *Matcher) Match(ctx context.Context, groupID, source string) (*Result, error) {
	faceIDs, err := m.client.DetectFaces(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("detect face in %s: %w", source, err)
	}
	if len(faceIDs) == 0 {
		return nil, fmt.Errorf("match %s: %w", source, ErrNoFaceDetected)
	}
	return m.MatchFace(ctx, groupID, faceIDs[0])
}

// MatchFace identifies an already detected face id against groupID.
func (m *Matcher) MatchFace(ctx context.Context, groupID, faceID string) (*Result, error) {
	matches, err := m.client.Identify(ctx, []string{faceID}, groupID)
	if err != nil {
		return nil, fmt.Errorf("identify against %s: %w", groupID, err)
	}
	return m.decide(matches), nil
}

// decide picks the strongest candidate across all matches and applies the
// threshold. Equality with the threshold is a rejection.
func (m *Matcher) decide(matches []face.Match) *Result {
	result := &Result{}
	for _, match := range matches {
		for _, candidate := range match.Candidates {
			if candidate.Confidence > result.Confidence {
				result.Confidence = candidate.Confidence
				if candidate.Confidence > m.threshold {
					result.PersonID = candidate.PersonID
					result.Accepted = true
				}
			}
		}
	}
	return result
}
