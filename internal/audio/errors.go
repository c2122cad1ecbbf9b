package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAudio is returned for empty, silent or otherwise unusable audio.
	ErrInvalidAudio = errors.New("invalid audio")
	// ErrLoadFailed wraps every failure of Loader.Load.
	ErrLoadFailed = errors.New("audio load failed")
	// ErrUnsupportedFormat is returned for source files the loader cannot convert.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// InvalidAudioError describes why an audio buffer was rejected.
type InvalidAudioError struct {
	Name   string
	Reason string
}

func (e *InvalidAudioError) Error() string {
	return fmt.Sprintf("invalid audio %q: %s", e.Name, e.Reason)
}

func (e *InvalidAudioError) Unwrap() error { return ErrInvalidAudio }
