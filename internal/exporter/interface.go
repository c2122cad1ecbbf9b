package exporter

import (
	"context"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// Exporter turns the committed rows of a corpus into dataset artifacts.
type Exporter interface {
	Export(ctx context.Context, corpusID int, opts Options) (*Summary, error)
}

// Database is the read side the exporter needs.
type Database interface {
	FindAudiosByCorpus(ctx context.Context, corpusID int, onlyFinished bool) ([]models.AudioRecord, error)
	FindSegmentsByAudioIDs(ctx context.Context, audioIDs []int64) ([]models.SegmentRecord, error)
}

// OriginalSource loads the untrimmed recording of a stored audio.
type OriginalSource interface {
	Original(ctx context.Context, name string) (*audio.Audio, error)
}
