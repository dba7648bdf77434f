package logging

import (
	"context"
	"log/slog"

	"boardcheck/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for pipeline component names.
	FieldComponent = "component"
	// FieldPassenger is the standardized structured logging key for the passenger under verification.
	FieldPassenger = "passenger"
	// FieldRunID is the standardized structured logging key for batch run identifiers.
	FieldRunID = "run_id"
	// FieldVideoID is the standardized structured logging key for uploaded video identifiers.
	FieldVideoID = "video_id"
	// FieldGroupID is the standardized structured logging key for person-group identifiers.
	FieldGroupID = "group_id"
	// FieldSource is the standardized structured logging key for document/image source references.
	FieldSource = "source"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if name, ok := services.PassengerFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPassenger, name))
	}
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if component, ok := services.ComponentFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldComponent, component))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
