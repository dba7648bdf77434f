package identity

import (
	"context"
	"errors"
	"testing"

	"boardcheck/internal/services/face"
)

type fakeFaceClient struct {
	detected []string
	matches  []face.Match
	groupID  string
}

func (f *fakeFaceClient) DetectFaces(_ context.Context, _ string) ([]string, error) {
	return f.detected, nil
}

func (f *fakeFaceClient) Identify(_ context.Context, _ []string, groupID string) ([]face.Match, error) {
	f.groupID = groupID
	return f.matches, nil
}

func TestMatchAcceptsAboveThreshold(t *testing.T) {
	client := &fakeFaceClient{
		detected: []string{"face-1"},
		matches: []face.Match{{
			FaceID:     "face-1",
			Candidates: []face.Candidate{{PersonID: "person-a", Confidence: 0.92}},
		}},
	}
	matcher := NewMatcher(client, 0.65)

	result, err := matcher.Match(context.Background(), "grp", "capture.jpg")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !result.Accepted || result.PersonID != "person-a" {
		t.Fatalf("expected accepted match for person-a, got %+v", result)
	}
	if client.groupID != "grp" {
		t.Fatalf("identified against wrong group %q", client.groupID)
	}
}

func TestMatchRejectsBelowThreshold(t *testing.T) {
	client := &fakeFaceClient{
		detected: []string{"face-1"},
		matches: []face.Match{{
			FaceID:     "face-1",
			Candidates: []face.Candidate{{PersonID: "person-a", Confidence: 0.40}},
		}},
	}
	matcher := NewMatcher(client, 0.65)

	result, err := matcher.Match(context.Background(), "grp", "capture.jpg")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if result.Accepted || result.PersonID != "" {
		t.Fatalf("low-confidence candidate must be rejected, got %+v", result)
	}
	if result.Confidence != 0.40 {
		t.Fatalf("confidence should be reported even on rejection, got %v", result.Confidence)
	}
}

func TestMatchRejectsExactlyAtThreshold(t *testing.T) {
	client := &fakeFaceClient{
		detected: []string{"face-1"},
		matches: []face.Match{{
			FaceID:     "face-1",
			Candidates: []face.Candidate{{PersonID: "person-a", Confidence: 0.65}},
		}},
	}
	matcher := NewMatcher(client, 0.65)

	result, err := matcher.Match(context.Background(), "grp", "capture.jpg")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if result.Accepted {
		t.Fatal("confidence equal to the threshold must not be accepted")
	}
}

func TestMatchAcceptsJustAboveThreshold(t *testing.T) {
	client := &fakeFaceClient{
		detected: []string{"face-1"},
		matches: []face.Match{{
			FaceID:     "face-1",
			Candidates: []face.Candidate{{PersonID: "person-a", Confidence: 0.650001}},
		}},
	}
	matcher := NewMatcher(client, 0.65)

	result, err := matcher.Match(context.Background(), "grp", "capture.jpg")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !result.Accepted {
		t.Fatal("confidence just above the threshold must be accepted")
	}
}

func TestMatchPicksStrongestCandidate(t *testing.T) {
	client := &fakeFaceClient{
		detected: []string{"face-1"},
		matches: []face.Match{{
			FaceID: "face-1",
			Candidates: []face.Candidate{
				{PersonID: "person-a", Confidence: 0.70},
				{PersonID: "person-b", Confidence: 0.88},
			},
		}},
	}
	matcher := NewMatcher(client, 0.65)

	result, err := matcher.Match(context.Background(), "grp", "capture.jpg")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if result.PersonID != "person-b" || result.Confidence != 0.88 {
		t.Fatalf("expected strongest candidate, got %+v", result)
	}
}

func TestMatchNoFaceDetected(t *testing.T) {
	matcher := NewMatcher(&fakeFaceClient{}, 0.65)
	_, err := matcher.Match(context.Background(), "grp", "capture.jpg")
	if !errors.Is(err, ErrNoFaceDetected) {
		t.Fatalf("expected ErrNoFaceDetected, got %v", err)
	}
}
