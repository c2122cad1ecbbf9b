package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
	"github.com/nguyentantai21042004/corpus-flow/internal/metrics"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
	"github.com/nguyentantai21042004/corpus-flow/internal/persistence"
)

// Process orchestrates the ingestion of one audio
func (p *implProcessor) Process(ctx context.Context, file models.File) (*Result, error) {
	startTime := time.Now()
	name := p.deps.Normalizer.Normalize(file.FullName())
	ctx = logger.WithAudio(ctx, name)
	result := &Result{Name: name}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting audio: %s", file.FullName())
	p.logger.Info(ctx, "========================================")

	// Step 1: Skip audios already in the database
	done, err := p.alreadyProcessed(ctx, name)
	if err != nil {
		metrics.RecordAudio("gate_failed")
		return nil, fmt.Errorf("check %s: %w", name, err)
	}
	if done {
		p.logger.Info(ctx, "Audio %s already processed, skipping", name)
		metrics.RecordAudio("skipped")
		result.Skipped = true
		return result, nil
	}

	// Step 2: Download, convert and trim
	a, err := p.load(ctx, file, name)
	if err != nil {
		metrics.RecordAudio("load_failed")
		return nil, err
	}

	// Step 3: Transcribe the trimmed samples
	raws, err := p.transcribe(ctx, a)
	if err != nil {
		metrics.RecordAudio("transcribe_failed")
		return nil, fmt.Errorf("transcribe %s: %w", name, err)
	}

	// Step 4: Persist every segment to every sink
	report, err := p.deps.Coordinator.Persist(ctx, a, raws)
	if err != nil {
		if errors.Is(err, persistence.ErrSetup) {
			metrics.RecordAudio("setup_failed")
		}
		return nil, fmt.Errorf("persist %s: %w", name, err)
	}
	result.Report = report
	metrics.RecordAudio("persisted")

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Audio completed: %s", name)
	p.logger.Info(ctx, "Segments: %d persisted, %d failed, %d skipped", len(report.Persisted()), len(report.Failed()), len(report.Skipped()))
	for _, sink := range []persistence.SinkName{persistence.SinkDatabase, persistence.SinkRemote, persistence.SinkCloud} {
		if n := report.SinkFailures(sink); n > 0 {
			p.logger.Warn(ctx, "Sink %s failed for %d segments", sink, n)
		}
	}
	if report.ManifestErr != nil {
		p.logger.Warn(ctx, "Manifest not written: %v", report.ManifestErr)
	}
	p.logger.Info(ctx, "Finished flag: %t", report.Finished)
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return result, nil
}

func (p *implProcessor) alreadyProcessed(ctx context.Context, name string) (bool, error) {
	if p.deps.Gate == nil {
		return false, nil
	}
	return p.deps.Gate.AlreadyProcessed(ctx, p.deps.Normalizer.SearchKey(name), p.opts.IgnoreErrored)
}
