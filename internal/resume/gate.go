package resume

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// AudioFinder is the lookup the gate needs from the database.
type AudioFinder interface {
	FindAudiosByNamePrefix(ctx context.Context, prefix string, excludeErrored bool) ([]models.AudioRecord, error)
}

// Gate decides whether an audio was already ingested.
type Gate struct {
	finder AudioFinder
}

func NewGate(finder AudioFinder) *Gate {
	return &Gate{finder: finder}
}

// AlreadyProcessed reports whether any stored audio name starts with name (case-sensitive).
// With ignoreErrored, audios flagged as errored do not count and will be processed again.
func (g *Gate) AlreadyProcessed(ctx context.Context, name string, ignoreErrored bool) (bool, error) {
	if name == "" {
		return false, fmt.Errorf("empty audio name")
	}
	records, err := g.finder.FindAudiosByNamePrefix(ctx, name, ignoreErrored)
	if err != nil {
		return false, fmt.Errorf("find audios by name %q: %w", name, err)
	}
	return len(records) > 0, nil
}
