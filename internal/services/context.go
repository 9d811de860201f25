package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	appIDKey contextKey = "app_id"
	stageKey contextKey = "stage"
)

// WithRunID annotates context with the identifier of the current sync run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithAppID annotates context with the Steam application being processed.
func WithAppID(ctx context.Context, appID int64) context.Context {
	return context.WithValue(ctx, appIDKey, appID)
}

// AppIDFromContext extracts the Steam application ID if present.
func AppIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(appIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithStage annotates context with the sync stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
