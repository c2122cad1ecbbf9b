package persistence

import (
	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
)

// Options configures a Coordinator.
type Options struct {
	OutputRoot string
	CorpusID   int
	// Workers bounds concurrent segment tasks per audio.
	Workers     int
	AudioFormat string
	// RemoteRoot is the dataset directory on the remote host.
	RemoteRoot string
	// CloudFolderID is the upload parent. Empty uses the audio's source folder.
	CloudFolderID string
	MarkFinished  bool
}

type implCoordinator struct {
	opts   Options
	sinks  Sinks
	writer ArtifactWriter
	logger logger.Logger
}

// New creates a Coordinator writing local artifacts with writer and pushing to sinks.
func New(opts Options, sinks Sinks, writer ArtifactWriter, log logger.Logger) Coordinator {
	if opts.Workers <= 0 {
		opts.Workers = 32
	}
	if opts.AudioFormat == "" {
		opts.AudioFormat = "wav"
	}
	return &implCoordinator{
		opts:   opts,
		sinks:  sinks,
		writer: writer,
		logger: log,
	}
}
