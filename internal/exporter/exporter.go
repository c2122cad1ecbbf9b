package exporter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/corpus-flow/internal/metrics"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

var errNoOriginalSource = errors.New("no source configured for original audios")

// Export reads the audios of corpusID with their segments and writes every requested
// artifact. Existing files are left untouched, so a repeated export only fills gaps.
func (e *implExporter) Export(ctx context.Context, corpusID int, opts Options) (*Summary, error) {
	audios, err := e.db.FindAudiosByCorpus(ctx, corpusID, opts.OnlyFinished)
	if err != nil {
		return nil, fmt.Errorf("find audios of corpus %d: %w", corpusID, err)
	}

	ids := make([]int64, len(audios))
	for i, a := range audios {
		ids[i] = a.ID
	}
	segments, err := e.db.FindSegmentsByAudioIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find segments of corpus %d: %w", corpusID, err)
	}
	byAudio := groupByAudio(segments)

	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	summary := &Summary{Audios: len(audios)}
	e.logger.Info(ctx, "Exporting %d audios and %d segments of corpus %d", len(audios), len(segments), corpusID)

	if opts.CSV {
		e.artifact(ctx, summary, "csv", filepath.Join(e.outputDir, fmt.Sprintf("corpus_%d_audios.csv", corpusID)), func(p string) error {
			return writeAudiosCSV(p, audios)
		})
		e.artifact(ctx, summary, "csv", filepath.Join(e.outputDir, fmt.Sprintf("corpus_%d_segments.csv", corpusID)), func(p string) error {
			return writeSegmentsCSV(p, segments)
		})
		e.artifact(ctx, summary, "parquet", filepath.Join(e.outputDir, fmt.Sprintf("corpus_%d_segments.parquet", corpusID)), func(p string) error {
			return writeSegmentsParquet(p, segments)
		})
	}

	for i, a := range audios {
		if ctx.Err() != nil {
			e.logger.Warn(ctx, "Export interrupted after %d/%d audios", i, len(audios))
			return summary, ctx.Err()
		}
		e.exportAudio(ctx, summary, a, byAudio[a.ID], opts)
	}

	e.logger.Info(ctx, "Export complete: %d written, %d skipped, %d failed", summary.Written, summary.Skipped, summary.Failed)
	return summary, nil
}

func (e *implExporter) exportAudio(ctx context.Context, summary *Summary, a models.AudioRecord, segs []models.SegmentRecord, opts Options) {
	dir := filepath.Join(e.outputDir, a.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.logger.Error(ctx, "Failed to create %s: %v", dir, err)
		summary.Failed++
		return
	}
	base := filepath.Join(dir, a.Name)

	if opts.Concatenated {
		e.artifact(ctx, summary, "concatenated", base+"_concatenated_text.txt", func(p string) error {
			return os.WriteFile(p, []byte(ConcatenatedText(texts(segs))), 0644)
		})
	}
	if opts.BySpeaker {
		e.artifact(ctx, summary, "by_speaker", base+"_by_speaker.txt", func(p string) error {
			return os.WriteFile(p, []byte(RenderSpeakerRuns(SpeakerRuns(segs))), 0644)
		})
	}
	if opts.Docx {
		e.artifact(ctx, summary, "docx", base+"_by_speaker.docx", func(p string) error {
			return speakerRunsToDocx(a.Name, SpeakerRuns(segs), p)
		})
	}
	if opts.TextGrid {
		e.artifact(ctx, summary, "textgrid", base+".textgrid", func(p string) error {
			return writeTextGridFile(p, a.Duration, segs)
		})
	}
	if opts.Metadata {
		e.artifact(ctx, summary, "metadata", base+"_metadata.json", func(p string) error {
			return writeMetadata(p, a.JSONMetadata)
		})
	}
	if opts.OriginalAudios {
		e.exportOriginal(ctx, summary, a, base, opts.AudioFormats)
	}
}

// exportOriginal loads the recording once and writes every missing format.
func (e *implExporter) exportOriginal(ctx context.Context, summary *Summary, a models.AudioRecord, base string, formats []string) {
	var missing []string
	for _, f := range formats {
		f = strings.TrimPrefix(strings.ToLower(f), ".")
		if exists(base + "." + f) {
			summary.Skipped++
			metrics.RecordExportArtifact("original", "skipped")
			continue
		}
		missing = append(missing, f)
	}
	if len(missing) == 0 {
		return
	}

	if e.originals == nil {
		e.fail(ctx, summary, "original", base, errNoOriginalSource)
		return
	}
	orig, err := e.originals.Original(ctx, a.Name)
	if err != nil {
		e.fail(ctx, summary, "original", base, err)
		return
	}

	for _, f := range missing {
		e.artifact(ctx, summary, "original", base+"."+f, func(p string) error {
			return e.writer.WriteAudio(ctx, p, orig.Samples(), orig.SampleRate())
		})
	}
}

// artifact runs write unless path already exists and accounts the result. write
// receives a hidden sibling of path that is renamed into place once complete.
func (e *implExporter) artifact(ctx context.Context, summary *Summary, kind, path string, write func(string) error) {
	if exists(path) {
		summary.Skipped++
		metrics.RecordExportArtifact(kind, "skipped")
		return
	}
	if err := writeAtomic(path, write); err != nil {
		e.fail(ctx, summary, kind, path, err)
		return
	}
	e.logger.Debug(ctx, "Wrote %s", path)
	summary.Written++
	metrics.RecordExportArtifact(kind, "written")
}

func (e *implExporter) fail(ctx context.Context, summary *Summary, kind, path string, err error) {
	e.logger.Error(ctx, "Failed to export %s %s: %v", kind, path, err)
	summary.Failed++
	metrics.RecordExportArtifact(kind, "failed")
}

// writeAtomic keeps the extension of path on the temporary file, since writers
// pick the encoding from it.
func writeAtomic(path string, write func(string) error) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	ext := filepath.Ext(base)
	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(base, ext)+".*.partial"+ext)
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := write(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// groupByAudio buckets segments per audio, each bucket in segment order.
func groupByAudio(segs []models.SegmentRecord) map[int64][]models.SegmentRecord {
	out := make(map[int64][]models.SegmentRecord)
	for _, s := range segs {
		out[s.AudioID] = append(out[s.AudioID], s)
	}
	for _, list := range out {
		sort.SliceStable(list, func(i, j int) bool { return list[i].SegmentNum < list[j].SegmentNum })
	}
	return out
}

func texts(segs []models.SegmentRecord) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Text
	}
	return out
}
