package processor

import (
	"context"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
	"github.com/nguyentantai21042004/corpus-flow/internal/persistence"
)

// Processor ingests source audios one at a time.
type Processor interface {
	// Process ingests one source file. Audios already in the database are skipped.
	Process(ctx context.Context, file models.File) (*Result, error)
	// Run ingests every audio listed under folderIDs, in name order.
	Run(ctx context.Context, folderIDs []string) (*RunSummary, error)
	// ProcessPath ingests a local file and archives it once handled. Used by the watcher.
	ProcessPath(ctx context.Context, path string) error
}

// Loader turns a listed file into a trimmed Audio.
type Loader interface {
	Load(ctx context.Context, file models.File, name string) (*audio.Audio, error)
}

// Gate reports whether an audio was already ingested.
type Gate interface {
	AlreadyProcessed(ctx context.Context, name string, ignoreErrored bool) (bool, error)
}

// Lister lists source audios.
type Lister interface {
	ListFiles(ctx context.Context, folderIDs []string, format string) ([]models.File, error)
}

// Result describes the handling of one audio.
type Result struct {
	Name    string
	Skipped bool
	Report  *persistence.Report
}

// RunSummary counts the audios of one Run.
type RunSummary struct {
	Total     int
	Persisted int
	Skipped   int
	Failed    int
}
