package persistence

import (
	"context"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// Coordinator commits the segments of one audio to every configured sink.
type Coordinator interface {
	// Persist returns a per-segment report. Only setup failures are returned as errors.
	Persist(ctx context.Context, a *audio.Audio, segments []models.RawSegment) (*Report, error)
}

// Database is the relational sink.
type Database interface {
	InsertAudio(ctx context.Context, name string, corpusID int, duration float64) (int64, error)
	InsertSegment(ctx context.Context, audioID int64, seg models.Segment) error
	UpdateAudioDuration(ctx context.Context, audioID int64, duration float64) error
	MarkAudioErrored(ctx context.Context, audioID int64) error
	MarkAudioFinished(ctx context.Context, audioID int64) error
}

// Transport is the remote host sink.
type Transport interface {
	Put(ctx context.Context, localPath, remotePath string) error
}

// Uploader is the cloud folder sink.
type Uploader interface {
	Upload(ctx context.Context, parentID string, f models.FileToUpload) (string, error)
}

// Sinks holds the optional destinations. A nil field disables that sink.
type Sinks struct {
	Database Database
	Remote   Transport
	Cloud    Uploader
}

// ArtifactWriter writes the local files of a segment.
type ArtifactWriter interface {
	WriteAudio(ctx context.Context, path string, samples []float32, sampleRate int) error
	WriteText(ctx context.Context, path, text string) error
}
