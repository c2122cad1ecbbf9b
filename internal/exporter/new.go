package exporter

import (
	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
	"github.com/nguyentantai21042004/corpus-flow/internal/persistence"
)

// Options selects which artifacts Export produces.
type Options struct {
	OnlyFinished   bool
	// CSV dumps the audio and segment tables as CSV, with a parquet copy of the segments.
	CSV            bool
	Concatenated   bool
	BySpeaker      bool
	Docx           bool
	TextGrid       bool
	Metadata       bool
	OriginalAudios bool
	// AudioFormats lists the extensions written for original audios, e.g. "wav", "mp3".
	AudioFormats []string
}

// Summary counts the artifacts of one Export call.
type Summary struct {
	Audios  int
	Written int
	Skipped int
	Failed  int
}

type implExporter struct {
	outputDir string
	db        Database
	originals OriginalSource
	writer    persistence.ArtifactWriter
	logger    logger.Logger
}

// New creates an Exporter writing under outputDir. originals may be nil when
// original audios are never requested.
func New(outputDir string, db Database, originals OriginalSource, writer persistence.ArtifactWriter, log logger.Logger) Exporter {
	return &implExporter{
		outputDir: outputDir,
		db:        db,
		originals: originals,
		writer:    writer,
		logger:    log,
	}
}
