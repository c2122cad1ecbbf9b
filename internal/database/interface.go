package database

import (
	"context"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// Store is the relational sink and lookup for audios and their segments.
type Store interface {
	InsertAudio(ctx context.Context, name string, corpusID int, duration float64) (int64, error)
	// InsertSegment is idempotent on (audio id, segment index).
	InsertSegment(ctx context.Context, audioID int64, seg models.Segment) error
	UpdateAudioDuration(ctx context.Context, audioID int64, duration float64) error
	MarkAudioErrored(ctx context.Context, audioID int64) error
	MarkAudioFinished(ctx context.Context, audioID int64) error

	FindAudiosByNamePrefix(ctx context.Context, prefix string, excludeErrored bool) ([]models.AudioRecord, error)
	FindAudiosByCorpus(ctx context.Context, corpusID int, onlyFinished bool) ([]models.AudioRecord, error)
	FindSegmentsByAudioIDs(ctx context.Context, audioIDs []int64) ([]models.SegmentRecord, error)
	CountSegmentsByAudio(ctx context.Context, audioID int64) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}
