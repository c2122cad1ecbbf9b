package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// Transcriber produces speaker-attributed segments with times relative to samples[0].
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]models.RawSegment, error)
}
