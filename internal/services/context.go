package services

import "context"

type contextKey string

const (
	passengerKey contextKey = "passenger"
	runIDKey     contextKey = "run_id"
	componentKey contextKey = "component"
)

// WithPassenger annotates context with the full name of the passenger being
// verified.
func WithPassenger(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, passengerKey, name)
}

// PassengerFromContext extracts the passenger name if present.
func PassengerFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(passengerKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(runIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithComponent annotates context with the pipeline component name.
func WithComponent(ctx context.Context, component string) context.Context {
	if component == "" {
		return ctx
	}
	return context.WithValue(ctx, componentKey, component)
}

// ComponentFromContext extracts the pipeline component name if present.
func ComponentFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(componentKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
