package logger

import "context"

// Logger is the printf-style logger used across the pipeline.
// Context values set with WithRunID and WithAudio are attached to every record.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
}
