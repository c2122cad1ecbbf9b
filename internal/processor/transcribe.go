package processor

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// transcribe runs speech-to-text on the trimmed samples.
// Segment times are relative to the first non-silent sample.
func (p *implProcessor) transcribe(ctx context.Context, a *audio.Audio) ([]models.RawSegment, error) {
	p.logger.Info(ctx, "Starting transcription of %.2fs of speech", float64(a.Interval().Len())/float64(a.SampleRate()))

	raws, err := p.deps.Transcriber.Transcribe(ctx, a.Trimmed(), a.SampleRate())
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("no segments produced")
	}

	p.logger.Info(ctx, "Transcription completed: %d segments", len(raws))
	return raws, nil
}
