package processor

import (
	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
	"github.com/nguyentantai21042004/corpus-flow/internal/persistence"
	"github.com/nguyentantai21042004/corpus-flow/internal/resume"
	"github.com/nguyentantai21042004/corpus-flow/internal/transcriber"
)

// Deps are the collaborators of a Processor. Gate may be nil when no database is configured.
type Deps struct {
	Source      Lister
	Loader      Loader
	Gate        Gate
	Normalizer  *resume.Normalizer
	Transcriber transcriber.Transcriber
	Coordinator persistence.Coordinator
}

type Options struct {
	// Format restricts listings to one extension. Empty lists every audio format.
	Format        string
	IgnoreErrored bool
	// ArchiveDir receives watched files once handled.
	ArchiveDir   string
	ShowProgress bool
}

type implProcessor struct {
	deps   Deps
	opts   Options
	logger logger.Logger
}

// New creates a new Processor instance
func New(deps Deps, opts Options, log logger.Logger) Processor {
	if deps.Normalizer == nil {
		deps.Normalizer = resume.NewNormalizer(nil, 0)
	}
	return &implProcessor{
		deps:   deps,
		opts:   opts,
		logger: log,
	}
}
