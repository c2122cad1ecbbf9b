package persistence

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/metrics"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

func (c *implCoordinator) Persist(ctx context.Context, a *audio.Audio, raws []models.RawSegment) (*Report, error) {
	start := time.Now()
	l := layout{root: c.opts.OutputRoot, name: a.Name, format: c.opts.AudioFormat}

	audioID, err := c.setup(ctx, a, l)
	if err != nil {
		return nil, err
	}

	ordered := orderSegments(raws)
	segments := make([]models.Segment, len(ordered))
	for i, raw := range ordered {
		segments[i] = buildSegment(a, raw, l)
	}

	report := &Report{
		AudioName:    a.Name,
		AudioID:      audioID,
		ManifestPath: l.manifest(),
		Segments:     make([]SegmentResult, len(segments)),
	}

	// Started tasks finish even if ctx is cancelled; no new task starts afterwards.
	work := context.WithoutCancel(ctx)
	var g errgroup.Group
	g.SetLimit(c.opts.Workers)
	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			report.Segments[i] = SegmentResult{
				Index:        seg.Index,
				ArtifactName: seg.ArtifactName,
				Segment:      seg,
				Local:        skipped(err),
			}
			metrics.RecordSegmentOutcome(string(SinkLocal), string(StatusSkipped))
			continue
		}
		g.Go(func() error {
			report.Segments[i] = c.persistSegment(work, a, audioID, seg)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Segments, func(i, j int) bool {
		return report.Segments[i].Index < report.Segments[j].Index
	})

	c.finish(work, a, report)

	report.Elapsed = time.Since(start)
	metrics.RecordPersistDuration(report.Elapsed)
	return report, nil
}

// setup creates the audio row and the local directories.
func (c *implCoordinator) setup(ctx context.Context, a *audio.Audio, l layout) (int64, error) {
	var audioID int64
	if c.sinks.Database != nil {
		id, err := c.sinks.Database.InsertAudio(ctx, a.Name, c.opts.CorpusID, a.Duration())
		if err != nil {
			return 0, &SetupError{Audio: a.Name, Op: "create audio record", Err: err}
		}
		audioID = id
	}

	for _, dir := range []string{l.audioDir(), l.textDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			if c.sinks.Database != nil {
				if merr := c.sinks.Database.MarkAudioErrored(context.WithoutCancel(ctx), audioID); merr != nil {
					c.logger.Error(ctx, "Failed to flag audio %d as errored: %v", audioID, merr)
				}
			}
			return 0, &SetupError{Audio: a.Name, Op: "create output directories", Err: err}
		}
	}
	return audioID, nil
}

// persistSegment writes the local artifacts of seg, then pushes them to every sink.
func (c *implCoordinator) persistSegment(ctx context.Context, a *audio.Audio, audioID int64, seg models.Segment) SegmentResult {
	res := SegmentResult{
		Index:        seg.Index,
		ArtifactName: seg.ArtifactName,
		Segment:      seg,
		Sinks:        make(map[SinkName]Outcome),
	}

	if err := c.writeLocal(ctx, a, seg); err != nil {
		c.logger.Error(ctx, "Segment %s: local write failed: %v", seg.ArtifactName, err)
		res.Local = failed(err)
		metrics.RecordSegmentOutcome(string(SinkLocal), string(StatusFailed))
		return res
	}
	res.Local = succeeded()
	metrics.RecordSegmentOutcome(string(SinkLocal), string(StatusOK))

	if c.sinks.Database != nil {
		res.Sinks[SinkDatabase] = c.record(ctx, SinkDatabase, seg, c.sinks.Database.InsertSegment(ctx, audioID, seg))
	}
	if c.sinks.Remote != nil {
		res.Sinks[SinkRemote] = c.record(ctx, SinkRemote, seg, c.pushRemote(ctx, seg))
	}
	if c.sinks.Cloud != nil {
		res.Sinks[SinkCloud] = c.record(ctx, SinkCloud, seg, c.upload(ctx, a, seg))
	}
	return res
}

func (c *implCoordinator) writeLocal(ctx context.Context, a *audio.Audio, seg models.Segment) error {
	samples := a.Slice(seg.RelativeStart, seg.RelativeEnd)
	if err := c.writer.WriteAudio(ctx, seg.AudioPath, samples, a.SampleRate()); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	if err := c.writer.WriteText(ctx, seg.TextPath, seg.Text); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	return nil
}

func (c *implCoordinator) pushRemote(ctx context.Context, seg models.Segment) error {
	if err := c.sinks.Remote.Put(ctx, seg.AudioPath, path.Join(c.opts.RemoteRoot, seg.RelativeAudioPath)); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	if err := c.sinks.Remote.Put(ctx, seg.TextPath, path.Join(c.opts.RemoteRoot, seg.RelativeTextPath)); err != nil {
		return fmt.Errorf("text: %w", err)
	}
	return nil
}

func (c *implCoordinator) upload(ctx context.Context, a *audio.Audio, seg models.Segment) error {
	parent := c.opts.CloudFolderID
	if parent == "" {
		parent = a.SourceFolderID
	}
	if parent == "" {
		return errNoCloudParent
	}

	uploads := []models.FileToUpload{
		{
			Name:      path.Join("transcriptions", a.Name, "audios", seg.ArtifactName),
			Extension: c.opts.AudioFormat,
			Path:      seg.AudioPath,
			MimeType:  models.MimeType(c.opts.AudioFormat),
		},
		{
			Name:      path.Join("transcriptions", a.Name, "texts", seg.ArtifactName),
			Extension: "txt",
			Path:      seg.TextPath,
			MimeType:  models.MimeType("txt"),
		},
	}
	for _, u := range uploads {
		if _, err := c.sinks.Cloud.Upload(ctx, parent, u); err != nil {
			return fmt.Errorf("upload %s.%s: %w", u.Name, u.Extension, err)
		}
	}
	return nil
}

func (c *implCoordinator) record(ctx context.Context, sink SinkName, seg models.Segment, err error) Outcome {
	if err != nil {
		c.logger.Error(ctx, "Segment %s: %s sink failed: %v", seg.ArtifactName, sink, err)
		metrics.RecordSegmentOutcome(string(sink), string(StatusFailed))
		return failed(err)
	}
	metrics.RecordSegmentOutcome(string(sink), string(StatusOK))
	return succeeded()
}

// finish updates the stored duration, writes the manifest and flags the audio finished.
// An audio without a manifest is never flagged finished.
func (c *implCoordinator) finish(ctx context.Context, a *audio.Audio, report *Report) {
	var persisted []models.Segment
	for _, s := range report.Segments {
		if s.Local.Status == StatusOK {
			persisted = append(persisted, s.Segment)
		}
	}

	if n := len(report.Segments); n > 0 {
		report.Duration = report.Segments[n-1].Segment.AbsoluteEnd
		if c.sinks.Database != nil {
			if err := c.sinks.Database.UpdateAudioDuration(ctx, report.AudioID, report.Duration); err != nil {
				c.logger.Error(ctx, "Failed to update duration of %s: %v", a.Name, err)
			}
		}
	}

	if err := writeManifest(report.ManifestPath, a.Name, persisted); err != nil {
		c.logger.Error(ctx, "Failed to write manifest %s: %v", report.ManifestPath, err)
		report.ManifestErr = err
	}

	if !c.opts.MarkFinished || report.ManifestErr != nil || len(report.Failed()) > 0 || len(report.Skipped()) > 0 {
		return
	}
	if c.sinks.Database != nil {
		if err := c.sinks.Database.MarkAudioFinished(ctx, report.AudioID); err != nil {
			c.logger.Error(ctx, "Failed to mark %s finished: %v", a.Name, err)
			return
		}
	}
	report.Finished = true
}
