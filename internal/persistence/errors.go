package persistence

import (
	"errors"
	"fmt"
)

// ErrSetup marks failures that prevent any segment of an audio from being persisted.
var ErrSetup = errors.New("persistence setup failed")

var errNoCloudParent = errors.New("no upload folder configured and the audio has no source folder")

// SetupError reports which setup step failed for which audio.
type SetupError struct {
	Audio string
	Op    string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s for %q: %v", e.Op, e.Audio, e.Err)
}

func (e *SetupError) Unwrap() []error { return []error{ErrSetup, e.Err} }
