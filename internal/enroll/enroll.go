package enroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"boardcheck/internal/logging"
	"boardcheck/internal/services"
	"boardcheck/internal/services/face"
)

var (
	// ErrEnrollmentImpossible signals that none of the reference images
	// yielded a usable face, so the person cannot be enrolled.
	ErrEnrollmentImpossible = errors.New("no usable reference faces")
	// ErrTrainingFailed signals that the service reported training failure.
	ErrTrainingFailed = errors.New("person group training failed")
	// ErrEnrollmentTimeout signals that training did not reach a terminal
	// state within the configured window.
	ErrEnrollmentTimeout = errors.New("person group training timed out")
)

// GroupState is the local lifecycle of a person group.
type GroupState string

const (
	StateCreated  GroupState = "created"
	StateTraining GroupState = "training"
	StateTrained  GroupState = "trained"
	StateFailed   GroupState = "failed"
)

// PersonGroup records one enrolled person and the group that holds them.
type PersonGroup struct {
	ID       string
	Name     string
	PersonID string
	State    GroupState
	// FaceIDs are the persisted face ids registered for the person, in
	// enrollment order.
	FaceIDs []string
}

// GroupClient is the subset of the face service used during enrollment.
type GroupClient interface {
	CreatePersonGroup(ctx context.Context, groupID, name string) error
	CreatePerson(ctx context.Context, groupID, name string) (string, error)
	AddPersonFace(ctx context.Context, groupID, personID, source string) (string, error)
	Train(ctx context.Context, groupID string) error
	TrainingStatus(ctx context.Context, groupID string) (*face.TrainingStatus, error)
	DeletePersonGroup(ctx context.Context, groupID string) error
	DetectFaces(ctx context.Context, source string) ([]string, error)
	Verify(ctx context.Context, faceA, faceB string) (*face.Verification, error)
}

// Enroller drives person-group enrollment against a face service.
type Enroller struct {
	client       GroupClient
	pollInterval time.Duration
	timeout      time.Duration
	logger       *slog.Logger

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures an Enroller.
type Option func(*Enroller)

// WithPollInterval overrides the training-status poll interval.
func WithPollInterval(interval time.Duration) Option {
	return func(e *Enroller) {
		if interval > 0 {
			e.pollInterval = interval
		}
	}
}

// WithTimeout overrides the training wait deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Enroller) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// NewEnroller creates an Enroller. A nil logger discards output.
func NewEnroller(client GroupClient, logger *slog.Logger, opts ...Option) *Enroller {
	if logger == nil {
		logger = logging.NewNop()
	}
	enroller := &Enroller{
		client:       client,
		pollInterval: 10 * time.Second,
		timeout:      10 * time.Minute,
		logger:       logger,
		sleep:        sleepContext,
	}
	for _, opt := range opts {
		opt(enroller)
	}
	return enroller
}

// EnrollPerson creates a person group holding a single person and registers
// every usable reference image under it. Images without a detectable face
// are skipped with a warning. When no image yields a face the group is torn
// down and ErrEnrollmentImpossible is returned.
func (e *Enroller) EnrollPerson(ctx context.Context, groupID, name string, sources []string) (*PersonGroup, error) {
	ctx = services.WithComponent(ctx, "enroll")
	logger := logging.WithContext(ctx, e.logger)
	if err := e.client.CreatePersonGroup(ctx, groupID, name); err != nil {
		return nil, fmt.Errorf("create person group %s: %w", groupID, err)
	}
	personID, err := e.client.CreatePerson(ctx, groupID, name)
	if err != nil {
		e.cleanup(ctx, groupID)
		return nil, fmt.Errorf("create person %s: %w", name, err)
	}

	group := &PersonGroup{ID: groupID, Name: name, PersonID: personID, State: StateCreated}
	detected := make([]string, 0, len(sources))
	for _, source := range sources {
		faceIDs, err := e.client.DetectFaces(ctx, source)
		if err != nil {
			e.cleanup(ctx, groupID)
			return nil, fmt.Errorf("detect faces in %s: %w", source, err)
		}
		if len(faceIDs) == 0 {
			logger.Warn("skipping reference image, no face detected",
				logging.String(logging.FieldGroupID, groupID),
				logging.String(logging.FieldSource, source))
			continue
		}
		persistedID, err := e.client.AddPersonFace(ctx, groupID, personID, source)
		if err != nil {
			e.cleanup(ctx, groupID)
			return nil, fmt.Errorf("add face from %s: %w", source, err)
		}
		group.FaceIDs = append(group.FaceIDs, persistedID)
		detected = append(detected, faceIDs[0])
	}

	if len(group.FaceIDs) == 0 {
		e.cleanup(ctx, groupID)
		return nil, fmt.Errorf("enroll %s: %w", name, ErrEnrollmentImpossible)
	}

	e.checkConsistency(ctx, groupID, detected, logger)
	return group, nil
}

// checkConsistency verifies the first two detected reference faces against
// each other and warns when the service does not consider them the same
// person. Advisory only; enrollment proceeds either way.
func (e *Enroller) checkConsistency(ctx context.Context, groupID string, detected []string, logger *slog.Logger) {
	if len(detected) < 2 {
		return
	}
	result, err := e.client.Verify(ctx, detected[0], detected[1])
	if err != nil {
		logger.Warn("reference consistency check unavailable",
			logging.String(logging.FieldGroupID, groupID),
			logging.Error(err))
		return
	}
	if !result.IsIdentical {
		logger.Warn("reference images may show different people",
			logging.String(logging.FieldGroupID, groupID),
			logging.Float64("confidence", result.Confidence))
	}
}

// Train starts training and blocks until the group reaches a terminal
// state, polling at the configured interval. On failure or timeout the
// group is deleted so a retry can start clean.
func (e *Enroller) Train(ctx context.Context, group *PersonGroup) error {
	ctx = services.WithComponent(ctx, "enroll")
	logger := logging.WithContext(ctx, e.logger)
	if err := e.client.Train(ctx, group.ID); err != nil {
		return fmt.Errorf("start training %s: %w", group.ID, err)
	}
	group.State = StateTraining

	deadline := time.Now().Add(e.timeout)
	for {
		status, err := e.client.TrainingStatus(ctx, group.ID)
		if err != nil {
			return fmt.Errorf("training status %s: %w", group.ID, err)
		}
		switch status.Status {
		case face.TrainingSucceeded:
			group.State = StateTrained
			logger.Info("person group trained",
				logging.String(logging.FieldGroupID, group.ID))
			return nil
		case face.TrainingFailed:
			group.State = StateFailed
			e.cleanup(ctx, group.ID)
			return fmt.Errorf("train %s: %s: %w", group.ID, status.Message, ErrTrainingFailed)
		}

		if time.Now().After(deadline) {
			group.State = StateFailed
			e.cleanup(ctx, group.ID)
			return fmt.Errorf("train %s: %w", group.ID, ErrEnrollmentTimeout)
		}
		if err := e.sleep(ctx, e.pollInterval); err != nil {
			return err
		}
	}
}

func (e *Enroller) cleanup(ctx context.Context, groupID string) {
	if err := e.client.DeletePersonGroup(ctx, groupID); err != nil {
		logging.WithContext(ctx, e.logger).Warn("person group cleanup failed",
			logging.String(logging.FieldGroupID, groupID),
			logging.Error(err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
