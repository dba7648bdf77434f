package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"boardcheck/internal/config"
	"boardcheck/internal/crossval"
	"boardcheck/internal/enroll"
	"boardcheck/internal/feedback"
	"boardcheck/internal/identity"
	"boardcheck/internal/insights"
	"boardcheck/internal/logging"
	"boardcheck/internal/manifest"
	"boardcheck/internal/notifications"
	"boardcheck/internal/records"
	"boardcheck/internal/services"
	"boardcheck/internal/services/blobstore"
	"boardcheck/internal/services/face"
	"boardcheck/internal/services/formrec"
	"boardcheck/internal/services/videoindex"
	"boardcheck/internal/textutil"
)

// ErrDocumentExtraction signals that a passenger's ID card or boarding pass
// could not be parsed, aborting that passenger's verification.
var ErrDocumentExtraction = errors.New("document extraction failed")

// Extractor parses structured fields out of presented documents.
type Extractor interface {
	AnalyzeIDDocument(ctx context.Context, source string) (*formrec.IDDocument, error)
	AnalyzeBoardingPass(ctx context.Context, modelID, source string) (*formrec.BoardingPass, error)
}

// VideoUploader submits a passenger video for insight indexing.
type VideoUploader interface {
	Upload(ctx context.Context, path, name, videoLanguage string) (string, error)
}

// InsightCollector waits out indexing and extracts reference faces.
type InsightCollector interface {
	AwaitIndexed(ctx context.Context, videoID string) (*videoindex.Index, error)
	CollectReferenceFaces(ctx context.Context, index *videoindex.Index, outputDir string) ([]string, error)
	Summarize(index *videoindex.Index) (*insights.Summary, error)
}

// GroupEnroller builds and trains a person group from reference images.
type GroupEnroller interface {
	EnrollPerson(ctx context.Context, groupID, name string, sources []string) (*enroll.PersonGroup, error)
	Train(ctx context.Context, group *enroll.PersonGroup) error
}

// FaceMatcher matches a presented document photo against a trained group.
type FaceMatcher interface {
	Match(ctx context.Context, groupID, source string) (*identity.Result, error)
}

// RecordStore persists runs and passenger outcomes.
type RecordStore interface {
	StartRun(ctx context.Context, id, manifestPath string) (*records.Run, error)
	CompleteRun(ctx context.Context, run *records.Run) error
	SaveRecord(ctx context.Context, record *records.PassengerRecord) error
}

// Deps bundles the collaborators of the orchestrator.
type Deps struct {
	Extractor Extractor
	Uploader  VideoUploader
	Collector InsightCollector
	Enroller  GroupEnroller
	Matcher   FaceMatcher
	Store     RecordStore
	Notifier  notifications.Service
	Blob      blobstore.Store
}

// Orchestrator runs the verification pipeline over a manifest.
type Orchestrator struct {
	cfg    *config.Config
	deps   Deps
	logger *slog.Logger

	now   func() time.Time
	newID func() string
}

// New creates an Orchestrator from explicit collaborators. A nil logger
// discards output; a nil notifier is replaced with a noop service.
func New(cfg *config.Config, deps Deps, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(&config.Config{})
	}
	return &Orchestrator{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// NewFromConfig wires an Orchestrator against the real external services
// named in the configuration.
func NewFromConfig(cfg *config.Config, store RecordStore, logger *slog.Logger) (*Orchestrator, error) {
	faceClient, err := face.New(cfg.Face.Endpoint, cfg.Face.APIKey)
	if err != nil {
		return nil, fmt.Errorf("face client: %w", err)
	}
	formClient, err := formrec.New(cfg.FormRecognizer.Endpoint, cfg.FormRecognizer.APIKey)
	if err != nil {
		return nil, fmt.Errorf("form recognizer client: %w", err)
	}
	videoClient, err := videoindex.New(cfg.VideoIndex.Endpoint, cfg.VideoIndex.APIKey, cfg.VideoIndex.AccountID)
	if err != nil {
		return nil, fmt.Errorf("video index client: %w", err)
	}

	deps := Deps{
		Extractor: formClient,
		Uploader:  videoClient,
		Collector: insights.NewCollector(videoClient, cfg.Verification.VideoLanguage, logger,
			insights.WithPollInterval(cfg.IndexingPollInterval()),
			insights.WithTimeout(cfg.IndexingTimeout())),
		Enroller: enroll.NewEnroller(faceClient, logger,
			enroll.WithPollInterval(cfg.TrainingPollInterval()),
			enroll.WithTimeout(cfg.TrainingTimeout())),
		Matcher:  identity.NewMatcher(faceClient, cfg.Verification.MatchThreshold),
		Store:    store,
		Notifier: notifications.NewService(cfg),
		Blob:     blobstore.NewFromConfig(cfg),
	}
	return New(cfg, deps, logger), nil
}

// Summary is the aggregate outcome of one verification run.
type Summary struct {
	RunID         string
	ManifestPath  string
	ValidatedPath string
	Total         int
	Verified      int
	Flagged       int
	Failed        int
	Duration      time.Duration
	Records       []*Record
}

// Run verifies every passenger in the manifest against their presented
// documents. Per-passenger failures are isolated; the run continues through
// the remaining manifest and reports them in the summary.
func (o *Orchestrator) Run(ctx context.Context, manifestPath, documentsPath string) (*Summary, error) {
	started := o.now()

	loaded, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	documents, err := LoadDocuments(documentsPath)
	if err != nil {
		return nil, err
	}

	runID := o.newID()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, o.logger)
	logger.Info("verification run starting",
		logging.String("manifest", manifestPath),
		logging.Int("passengers", len(loaded.Records)))

	var run *records.Run
	if o.deps.Store != nil {
		run, err = o.deps.Store.StartRun(ctx, runID, manifestPath)
		if err != nil {
			return nil, fmt.Errorf("start run: %w", err)
		}
	}
	if err := o.deps.Notifier.NotifyRunStarted(ctx, manifestPath, len(loaded.Records)); err != nil {
		logger.Warn("run-started notification failed", logging.Error(err))
	}

	summary := &Summary{
		RunID:         runID,
		ManifestPath:  manifestPath,
		ValidatedPath: manifest.ValidatedPath(manifestPath),
		Total:         len(loaded.Records),
	}
	for _, rec := range loaded.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		passengerCtx := services.WithPassenger(ctx, rec.FullName())
		passengerLog := logging.WithContext(passengerCtx, o.logger)
		result := o.verifyPassenger(passengerCtx, rec, documents, passengerLog)
		summary.Records = append(summary.Records, result)

		switch {
		case result.Failed():
			summary.Failed++
			passengerLog.Error("passenger processing aborted", logging.Error(result.Err))
			if err := o.deps.Notifier.NotifyError(passengerCtx, result.Err, rec.FullName()); err != nil {
				passengerLog.Warn("error notification failed", logging.Error(err))
			}
		case result.Cleared():
			summary.Verified++
			passengerLog.Info("passenger verified",
				logging.Float64("confidence", result.Confidence))
		default:
			summary.Flagged++
			reason := strings.Join(result.Messages, "; ")
			passengerLog.Info("passenger flagged", logging.String("reason", reason))
			if err := o.deps.Notifier.NotifyPassengerFlagged(passengerCtx, rec.FullName(), rec.FlightNo, reason); err != nil {
				passengerLog.Warn("flagged notification failed", logging.Error(err))
			}
		}

		if o.deps.Store != nil {
			if err := o.deps.Store.SaveRecord(passengerCtx, toStoredRecord(runID, result)); err != nil {
				passengerLog.Warn("record persistence failed", logging.Error(err))
			}
		}
	}

	if err := WriteValidated(summary.ValidatedPath, loaded.Header, summary.Records); err != nil {
		return nil, err
	}
	// The validated path is derived from the manifest name, so a rerun of
	// the same manifest overwrites it. The staging directory keeps one
	// copy per run, and the blob upload reads from there.
	uploadPath := summary.ValidatedPath
	if dir := strings.TrimSpace(o.cfg.Paths.StagingDir); dir != "" {
		staged := filepath.Join(dir, runID+".csv")
		if err := copyFile(summary.ValidatedPath, staged); err != nil {
			logger.Warn("validated manifest staging failed", logging.Error(err))
		} else {
			uploadPath = staged
			logger.Info("validated manifest staged", logging.String("path", staged))
		}
	}
	if o.deps.Blob != nil {
		remote, err := o.deps.Blob.Upload(ctx, uploadPath, "validated/"+runID+".csv")
		if err != nil {
			logger.Warn("validated manifest upload failed", logging.Error(err))
		} else if remote != uploadPath {
			logger.Info("validated manifest uploaded", logging.String("remote", remote))
		}
	}

	summary.Duration = o.now().Sub(started)
	if run != nil {
		run.Total = summary.Total
		run.Verified = summary.Verified
		run.Flagged = summary.Flagged
		run.Failed = summary.Failed
		if err := o.deps.Store.CompleteRun(ctx, run); err != nil {
			logger.Warn("run completion persistence failed", logging.Error(err))
		}
	}
	if err := o.deps.Notifier.NotifyRunCompleted(ctx, summary.Verified, summary.Flagged, summary.Failed, summary.Duration); err != nil {
		logger.Warn("run-completed notification failed", logging.Error(err))
	}
	logger.Info("verification run finished",
		logging.Int("verified", summary.Verified),
		logging.Int("flagged", summary.Flagged),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration))
	return summary, nil
}

func (o *Orchestrator) verifyPassenger(ctx context.Context, rec manifest.Record, documents map[string]DocumentSet, logger *slog.Logger) *Record {
	result := &Record{Manifest: rec}

	docs, ok := documents[textutil.Clean(rec.FullName())]
	if !ok {
		result.Err = fmt.Errorf("%s: %w", rec.FullName(), ErrMissingDocuments)
		return result
	}

	card, err := o.deps.Extractor.AnalyzeIDDocument(ctx, docs.IDCard)
	if err != nil {
		result.Err = fmt.Errorf("id card %s: %w: %w", docs.IDCard, ErrDocumentExtraction, err)
		return result
	}
	pass, err := o.deps.Extractor.AnalyzeBoardingPass(ctx, o.cfg.FormRecognizer.BoardingPassModelID, docs.BoardingPass)
	if err != nil {
		result.Err = fmt.Errorf("boarding pass %s: %w: %w", docs.BoardingPass, ErrDocumentExtraction, err)
		return result
	}

	if m := crossval.ValidateName(rec, pass, card); m == nil {
		result.NameValidation = true
	} else {
		result.Messages = append(result.Messages, m.Message)
	}
	if m := crossval.ValidateDOB(rec, card); m == nil {
		result.DoBValidation = true
	} else {
		result.Messages = append(result.Messages, m.Message)
	}
	if m := crossval.ValidateBoardingPass(rec, pass); m == nil {
		result.BoardingPassValidation = true
	} else {
		result.Messages = append(result.Messages, m.Message)
	}

	details := feedback.FlightDetails{
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		FlightNo:     rec.FlightNo,
		BoardingTime: rec.BoardingTime,
		Origin:       rec.Origin,
		Destination:  rec.Destination,
	}

	videoID, err := o.deps.Uploader.Upload(ctx, docs.Video, textutil.SanitizeToken(rec.FullName()), o.cfg.Verification.VideoLanguage)
	if err != nil {
		result.Err = fmt.Errorf("upload video %s: %w", docs.Video, err)
		return result
	}
	result.VideoID = videoID

	// Identity verification is fail-closed: errors leave PersonValidation
	// unset instead of aborting the passenger. Fatal errors are the
	// exception; a misconfigured service or missing input fails the same
	// way on retry, so the passenger aborts.
	if err := o.verifyIdentity(ctx, rec, docs, videoID, result, logger); err != nil {
		if services.Fatal(err) {
			result.Err = fmt.Errorf("identity verification: %w", err)
			return result
		}
		logger.Warn("identity verification incomplete", logging.Error(err))
	}
	if !result.PersonValidation {
		result.Messages = append(result.Messages, feedback.IdentityUnverified(details))
	}

	// Luggage inspection is not integrated; the flag is always granted.
	result.LuggageValidation = true

	if result.Cleared() {
		result.Feedback = feedback.AllClear(details)
	} else {
		result.Feedback = strings.Join(result.Messages, "\n\n")
	}
	return result
}

func (o *Orchestrator) verifyIdentity(ctx context.Context, rec manifest.Record, docs DocumentSet, videoID string, result *Record, logger *slog.Logger) error {
	index, err := o.deps.Collector.AwaitIndexed(ctx, videoID)
	if err != nil {
		return err
	}
	if summary, err := o.deps.Collector.Summarize(index); err != nil {
		logger.Warn("insight summary unavailable", logging.Error(err))
	} else {
		logger.Info("video insights summarized",
			logging.Int("sentiments", len(summary.Sentiments)),
			logging.Int("emotions", len(summary.Emotions)))
	}

	thumbnails, err := o.deps.Collector.CollectReferenceFaces(ctx, index, o.cfg.Paths.ThumbnailDir)
	if err != nil {
		return err
	}

	groupID := o.groupID()
	groupName := fmt.Sprintf("%s_%s", textutil.SanitizeToken(rec.FullName()), strconv.FormatInt(o.now().Unix(), 10))
	group, err := o.deps.Enroller.EnrollPerson(ctx, groupID, groupName, thumbnails)
	if err != nil {
		return err
	}
	result.GroupID = group.ID
	if err := o.deps.Enroller.Train(ctx, group); err != nil {
		return err
	}

	match, err := o.deps.Matcher.Match(ctx, group.ID, docs.IDCard)
	if err != nil {
		return err
	}
	result.Confidence = match.Confidence
	result.PersonValidation = match.Accepted
	return nil
}

// groupID builds a fresh group identifier, prefixed with the configured one
// when set so related groups sort together on the service.
func (o *Orchestrator) groupID() string {
	id := o.newID()
	if base := strings.TrimSpace(o.cfg.Verification.PersonGroupID); base != "" {
		return base + "-" + id[:8]
	}
	return id
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

func toStoredRecord(runID string, result *Record) *records.PassengerRecord {
	stored := &records.PassengerRecord{
		RunID:             runID,
		FirstName:         result.Manifest.FirstName,
		LastName:          result.Manifest.LastName,
		FlightNo:          result.Manifest.FlightNo,
		GroupID:           result.GroupID,
		VideoID:           result.VideoID,
		BoardingPassValid: result.BoardingPassValidation,
		NameValid:         result.NameValidation,
		DOBValid:          result.DoBValidation,
		PersonValid:       result.PersonValidation,
		LuggageValid:      result.LuggageValidation,
		Confidence:        result.Confidence,
		Feedback:          result.Feedback,
	}
	if result.Err != nil {
		stored.ErrorMessage = result.Err.Error()
	}
	return stored
}
