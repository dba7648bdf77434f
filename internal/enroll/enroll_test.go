package enroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"boardcheck/internal/services"
	"boardcheck/internal/services/face"
)

type fakeGroupClient struct {
	faces    map[string][]string // source -> detected face ids
	statuses []face.TrainingState

	created      []string
	persons      int
	added        []string
	trained      int
	deleted      []string
	statusCalls  int
	verifyCalled bool
	verifyResult *face.Verification
}

func (f *fakeGroupClient) CreatePersonGroup(_ context.Context, groupID, _ string) error {
	f.created = append(f.created, groupID)
	return nil
}

func (f *fakeGroupClient) CreatePerson(_ context.Context, _, _ string) (string, error) {
	f.persons++
	return fmt.Sprintf("person-%d", f.persons), nil
}

func (f *fakeGroupClient) AddPersonFace(_ context.Context, _, _, source string) (string, error) {
	f.added = append(f.added, source)
	return "persisted-" + source, nil
}

func (f *fakeGroupClient) Train(_ context.Context, _ string) error {
	f.trained++
	return nil
}

func (f *fakeGroupClient) TrainingStatus(_ context.Context, _ string) (*face.TrainingStatus, error) {
	if f.statusCalls >= len(f.statuses) {
		return &face.TrainingStatus{Status: face.TrainingRunning}, nil
	}
	state := f.statuses[f.statusCalls]
	f.statusCalls++
	return &face.TrainingStatus{Status: state, Message: "status"}, nil
}

func (f *fakeGroupClient) DeletePersonGroup(_ context.Context, groupID string) error {
	f.deleted = append(f.deleted, groupID)
	return nil
}

func (f *fakeGroupClient) DetectFaces(_ context.Context, source string) ([]string, error) {
	return f.faces[source], nil
}

func (f *fakeGroupClient) Verify(_ context.Context, _, _ string) (*face.Verification, error) {
	f.verifyCalled = true
	if f.verifyResult != nil {
		return f.verifyResult, nil
	}
	return &face.Verification{IsIdentical: true, Confidence: 0.9}, nil
}

func newTestEnroller(client GroupClient) *Enroller {
	e := NewEnroller(client, nil, WithPollInterval(time.Millisecond), WithTimeout(time.Second))
	e.sleep = func(context.Context, time.Duration) error { return nil }
	return e
}

func TestEnrollPersonSkipsImagesWithoutFaces(t *testing.T) {
	client := &fakeGroupClient{
		faces: map[string][]string{
			"a.jpg": {"face-a"},
			"b.jpg": nil,
			"c.jpg": {"face-c"},
		},
	}
	enroller := newTestEnroller(client)

	group, err := enroller.EnrollPerson(context.Background(), "grp", "jane_doe", []string{"a.jpg", "b.jpg", "c.jpg"})
	if err != nil {
		t.Fatalf("EnrollPerson: %v", err)
	}
	if len(group.FaceIDs) != 2 {
		t.Fatalf("expected 2 enrolled faces, got %d", len(group.FaceIDs))
	}
	if len(client.added) != 2 || client.added[0] != "a.jpg" || client.added[1] != "c.jpg" {
		t.Fatalf("unexpected registered sources: %v", client.added)
	}
	if len(client.deleted) != 0 {
		t.Fatalf("group should not have been deleted: %v", client.deleted)
	}
	if !client.verifyCalled {
		t.Fatal("expected consistency check across the two reference faces")
	}
}

func TestEnrollPersonFailsWhenNoImageHasAFace(t *testing.T) {
	client := &fakeGroupClient{faces: map[string][]string{}}
	enroller := newTestEnroller(client)

	_, err := enroller.EnrollPerson(context.Background(), "grp", "jane_doe", []string{"a.jpg", "b.jpg"})
	if !errors.Is(err, ErrEnrollmentImpossible) {
		t.Fatalf("expected ErrEnrollmentImpossible, got %v", err)
	}
	if len(client.deleted) != 1 {
		t.Fatalf("expected group teardown, deletions: %v", client.deleted)
	}
}

func TestTrainSucceedsAfterPolling(t *testing.T) {
	client := &fakeGroupClient{
		faces:    map[string][]string{"a.jpg": {"face-a"}},
		statuses: []face.TrainingState{face.TrainingRunning, face.TrainingRunning, face.TrainingSucceeded},
	}
	enroller := newTestEnroller(client)

	group, err := enroller.EnrollPerson(context.Background(), "grp", "jane_doe", []string{"a.jpg"})
	if err != nil {
		t.Fatalf("EnrollPerson: %v", err)
	}
	if err := enroller.Train(context.Background(), group); err != nil {
		t.Fatalf("Train: %v", err)
	}
	if group.State != StateTrained {
		t.Fatalf("expected trained state, got %s", group.State)
	}
	if client.statusCalls != 3 {
		t.Fatalf("expected 3 status polls, got %d", client.statusCalls)
	}
}

func TestTrainFailureDeletesGroup(t *testing.T) {
	client := &fakeGroupClient{
		faces:    map[string][]string{"a.jpg": {"face-a"}},
		statuses: []face.TrainingState{face.TrainingFailed},
	}
	enroller := newTestEnroller(client)

	group, err := enroller.EnrollPerson(context.Background(), "grp", "jane_doe", []string{"a.jpg"})
	if err != nil {
		t.Fatalf("EnrollPerson: %v", err)
	}
	err = enroller.Train(context.Background(), group)
	if !errors.Is(err, ErrTrainingFailed) {
		t.Fatalf("expected ErrTrainingFailed, got %v", err)
	}
	if group.State != StateFailed {
		t.Fatalf("expected failed state, got %s", group.State)
	}
	if len(client.deleted) != 1 {
		t.Fatalf("expected group teardown, deletions: %v", client.deleted)
	}
}

func TestTrainTimesOut(t *testing.T) {
	client := &fakeGroupClient{faces: map[string][]string{"a.jpg": {"face-a"}}}
	enroller := NewEnroller(client, nil, WithPollInterval(time.Millisecond), WithTimeout(time.Millisecond))
	enroller.sleep = func(context.Context, time.Duration) error {
		time.Sleep(2 * time.Millisecond)
		return nil
	}

	group, err := enroller.EnrollPerson(context.Background(), "grp", "jane_doe", []string{"a.jpg"})
	if err != nil {
		t.Fatalf("EnrollPerson: %v", err)
	}
	err = enroller.Train(context.Background(), group)
	if !errors.Is(err, ErrEnrollmentTimeout) {
		t.Fatalf("expected ErrEnrollmentTimeout, got %v", err)
	}
}

func TestTrainStopsOnContextCancel(t *testing.T) {
	client := &fakeGroupClient{faces: map[string][]string{"a.jpg": {"face-a"}}}
	enroller := NewEnroller(client, nil, WithPollInterval(time.Hour), WithTimeout(time.Hour))

	group, err := enroller.EnrollPerson(context.Background(), "grp", "jane_doe", []string{"a.jpg"})
	if err != nil {
		t.Fatalf("EnrollPerson: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := enroller.Train(ctx, group); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestEnrollPersonLogsContextFields(t *testing.T) {
	client := &fakeGroupClient{
		faces: map[string][]string{
			"good.jpg":  {"face-1"},
			"blank.jpg": {},
		},
	}
	var buf bytes.Buffer
	enroller := NewEnroller(client, slog.New(slog.NewTextHandler(&buf, nil)),
		WithPollInterval(time.Millisecond), WithTimeout(time.Second))
	enroller.sleep = func(context.Context, time.Duration) error { return nil }

	ctx := services.WithRunID(context.Background(), "run-9")
	ctx = services.WithPassenger(ctx, "Jane Doe")
	if _, err := enroller.EnrollPerson(ctx, "group-1", "jane", []string{"good.jpg", "blank.jpg"}); err != nil {
		t.Fatalf("EnrollPerson: %v", err)
	}

	out := buf.String()
	for _, field := range []string{"passenger=", "run_id=", "component=enroll"} {
		if !strings.Contains(out, field) {
			t.Fatalf("expected %s in log output, got %q", field, out)
		}
	}
}
