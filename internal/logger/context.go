package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	runIDKey ctxKey = iota
	audioKey
)

// WithRunID tags every record logged with ctx by the given run id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithAudio tags every record logged with ctx by the audio being processed.
func WithAudio(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, audioKey, name)
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		attrs = append(attrs, slog.String("run_id", v))
	}
	if v, ok := ctx.Value(audioKey).(string); ok && v != "" {
		attrs = append(attrs, slog.String("audio", v))
	}
	return attrs
}
