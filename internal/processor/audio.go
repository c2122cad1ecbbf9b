package processor

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// load downloads file and trims its silence.
func (p *implProcessor) load(ctx context.Context, file models.File, name string) (*audio.Audio, error) {
	p.logger.Info(ctx, "Loading audio: %s", file.FullName())

	a, err := p.deps.Loader.Load(ctx, file, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	p.logger.Info(ctx, "Audio loaded: %.2fs, non-silent %.2fs to %.2fs",
		a.Duration(), a.StartOffset(), a.Duration()-a.EndOffset())
	return a, nil
}
