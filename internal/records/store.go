package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"boardcheck/internal/config"
)

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the records database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "records.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun records the beginning of a verification run.
func (s *Store) StartRun(ctx context.Context, id, manifestPath string) (*Run, error) {
	now := time.Now().UTC()
	if err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, manifest_path, started_at) VALUES (?, ?, ?)`,
		id, manifestPath, now.Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &Run{ID: id, ManifestPath: manifestPath, StartedAt: now}, nil
}

// CompleteRun stamps the run finished and stores its outcome counts.
func (s *Store) CompleteRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	now := time.Now().UTC()
	run.CompletedAt = &now
	if err := s.execWithRetry(ctx,
		`UPDATE runs SET completed_at = ?, total = ?, verified = ?, flagged = ?, failed = ? WHERE id = ?`,
		now.Format(time.RFC3339Nano), run.Total, run.Verified, run.Flagged, run.Failed, run.ID,
	); err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

// SaveRecord persists one passenger outcome and fills in its row id.
func (s *Store) SaveRecord(ctx context.Context, record *PassengerRecord) error {
	if record == nil {
		return errors.New("record is nil")
	}
	record.CreatedAt = time.Now().UTC()

	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx,
			`INSERT INTO passenger_records (
                run_id, first_name, last_name, flight_no, group_id, video_id,
                boarding_pass_valid, name_valid, dob_valid, person_valid, luggage_valid,
                confidence, feedback, error_message, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.RunID,
			record.FirstName,
			record.LastName,
			record.FlightNo,
			nullableString(record.GroupID),
			nullableString(record.VideoID),
			boolToInt(record.BoardingPassValid),
			boolToInt(record.NameValid),
			boolToInt(record.DOBValid),
			boolToInt(record.PersonValid),
			boolToInt(record.LuggageValid),
			record.Confidence,
			nullableString(record.Feedback),
			nullableString(record.ErrorMessage),
			record.CreatedAt.Format(time.RFC3339Nano),
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("insert passenger record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	record.ID = id
	return nil
}

// RecordsByRun returns the passenger records of one run in insertion order.
func (s *Store) RecordsByRun(ctx context.Context, runID string) ([]*PassengerRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, first_name, last_name, flight_no, group_id, video_id,
                boarding_pass_valid, name_valid, dob_valid, person_valid, luggage_valid,
                confidence, feedback, error_message, created_at
         FROM passenger_records WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var result []*PassengerRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, manifest_path, started_at, completed_at, total, verified, flagged, failed
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recent run, or nil when none exist.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*PassengerRecord, error) {
	var (
		record      PassengerRecord
		groupID     sql.NullString
		videoID     sql.NullString
		boardingOK  int
		nameOK      int
		dobOK       int
		personOK    int
		luggageOK   int
		feedback    sql.NullString
		errMessage  sql.NullString
		createdText string
	)
	if err := row.Scan(
		&record.ID, &record.RunID, &record.FirstName, &record.LastName, &record.FlightNo,
		&groupID, &videoID,
		&boardingOK, &nameOK, &dobOK, &personOK, &luggageOK,
		&record.Confidence, &feedback, &errMessage, &createdText,
	); err != nil {
		return nil, fmt.Errorf("scan passenger record: %w", err)
	}
	record.GroupID = groupID.String
	record.VideoID = videoID.String
	record.BoardingPassValid = boardingOK != 0
	record.NameValid = nameOK != 0
	record.DOBValid = dobOK != 0
	record.PersonValid = personOK != 0
	record.LuggageValid = luggageOK != 0
	record.Feedback = feedback.String
	record.ErrorMessage = errMessage.String
	if created, err := time.Parse(time.RFC3339Nano, createdText); err == nil {
		record.CreatedAt = created
	}
	return &record, nil
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run           Run
		startedText   string
		completedText sql.NullString
	)
	if err := row.Scan(
		&run.ID, &run.ManifestPath, &startedText, &completedText,
		&run.Total, &run.Verified, &run.Flagged, &run.Failed,
	); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if started, err := time.Parse(time.RFC3339Nano, startedText); err == nil {
		run.StartedAt = started
	}
	if completedText.Valid {
		if completed, err := time.Parse(time.RFC3339Nano, completedText.String); err == nil {
			run.CompletedAt = &completed
		}
	}
	return &run, nil
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
