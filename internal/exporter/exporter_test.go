package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
	"github.com/nguyentantai21042004/corpus-flow/internal/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDatabase struct {
	audios   []models.AudioRecord
	segments []models.SegmentRecord
}

func (f *fakeDatabase) FindAudiosByCorpus(ctx context.Context, corpusID int, onlyFinished bool) ([]models.AudioRecord, error) {
	var out []models.AudioRecord
	for _, a := range f.audios {
		if a.CorpusID == corpusID && (!onlyFinished || a.Finished) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeDatabase) FindSegmentsByAudioIDs(ctx context.Context, ids []int64) ([]models.SegmentRecord, error) {
	var out []models.SegmentRecord
	for _, s := range f.segments {
		for _, id := range ids {
			if s.AudioID == id {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

type fakeOriginals struct {
	calls int
	err   error
}

func (f *fakeOriginals) Original(ctx context.Context, name string) (*audio.Audio, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	samples := make([]float32, 4800)
	for i := range samples {
		samples[i] = 0.2
	}
	return audio.New(name, samples, 48000, audio.Interval{Start: 0, End: len(samples)})
}

func testDatabase() *fakeDatabase {
	return &fakeDatabase{
		audios: []models.AudioRecord{
			{ID: 1, Name: "aula_01", CorpusID: 5, Duration: 20, Finished: true, JSONMetadata: `{"speakers":2}`},
			{ID: 2, Name: "aula_02", CorpusID: 5, Duration: 30},
		},
		segments: []models.SegmentRecord{
			{ID: 11, AudioID: 1, SegmentNum: 1, Text: "world", StartTime: 3, EndTime: 5, SpeakerID: speaker(1)},
			{ID: 10, AudioID: 1, SegmentNum: 0, Text: "Hello", StartTime: 1, EndTime: 2, SpeakerID: speaker(0)},
			{ID: 20, AudioID: 2, SegmentNum: 0, Text: "unfinished"},
		},
	}
}

func allArtifacts() Options {
	return Options{
		OnlyFinished:   true,
		CSV:            true,
		Concatenated:   true,
		BySpeaker:      true,
		Docx:           true,
		TextGrid:       true,
		Metadata:       true,
		OriginalAudios: true,
		AudioFormats:   []string{"wav"},
	}
}

func TestExportWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	originals := &fakeOriginals{}
	e := New(dir, testDatabase(), originals, persistence.NewFileWriter(nil, ""), logger.New("error"))

	summary, err := e.Export(context.Background(), 5, allArtifacts())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Audios)
	assert.Equal(t, 9, summary.Written)
	assert.Zero(t, summary.Failed)

	text, err := os.ReadFile(filepath.Join(dir, "aula_01", "aula_01_concatenated_text.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Hello world", string(text))

	bySpeaker, err := os.ReadFile(filepath.Join(dir, "aula_01", "aula_01_by_speaker.txt"))
	require.NoError(t, err)
	assert.Equal(t, "SPEAKER 0: Hello\n\nSPEAKER 1: world", string(bySpeaker))

	meta, err := os.ReadFile(filepath.Join(dir, "aula_01", "aula_01_metadata.json"))
	require.NoError(t, err)
	var decoded map[string]int
	require.NoError(t, json.Unmarshal(meta, &decoded))
	assert.Equal(t, 2, decoded["speakers"])

	segmentsCSV, err := os.ReadFile(filepath.Join(dir, "corpus_5_segments.csv"))
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(segmentsCSV), "\n"))
	assert.NotContains(t, string(segmentsCSV), "unfinished")

	rows, err := parquet.ReadFile[segmentRow](filepath.Join(dir, "corpus_5_segments.parquet"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.ElementsMatch(t, []int64{10, 11}, []int64{rows[0].ID, rows[1].ID})
	for _, r := range rows {
		require.NotNil(t, r.SpeakerID)
	}

	samples, rate, err := audio.DecodeWAVFile(filepath.Join(dir, "aula_01", "aula_01.wav"))
	require.NoError(t, err)
	assert.Equal(t, 48000, rate)
	assert.Len(t, samples, 4800)

	assert.FileExists(t, filepath.Join(dir, "aula_01", "aula_01_by_speaker.docx"))
	assert.FileExists(t, filepath.Join(dir, "aula_01", "aula_01.textgrid"))
	assert.NoDirExists(t, filepath.Join(dir, "aula_02"))
}

func TestExportIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	originals := &fakeOriginals{}
	e := New(dir, testDatabase(), originals, persistence.NewFileWriter(nil, ""), logger.New("error"))

	first, err := e.Export(context.Background(), 5, allArtifacts())
	require.NoError(t, err)

	second, err := e.Export(context.Background(), 5, allArtifacts())
	require.NoError(t, err)
	assert.Zero(t, second.Written)
	assert.Equal(t, first.Written, second.Skipped)
	assert.Equal(t, 1, originals.calls, "originals are not reloaded when every format exists")
}

func TestExportIncludesUnfinishedWhenAsked(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, testDatabase(), nil, persistence.NewFileWriter(nil, ""), logger.New("error"))

	summary, err := e.Export(context.Background(), 5, Options{Concatenated: true, Metadata: true})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Audios)
	assert.Equal(t, 4, summary.Written)

	meta, err := os.ReadFile(filepath.Join(dir, "aula_02", "aula_02_metadata.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(meta))
}

func TestExportOriginalFailures(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		e := New(t.TempDir(), testDatabase(), nil, persistence.NewFileWriter(nil, ""), logger.New("error"))
		summary, err := e.Export(context.Background(), 5, Options{OnlyFinished: true, OriginalAudios: true, AudioFormats: []string{"wav"}})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("load error", func(t *testing.T) {
		originals := &fakeOriginals{err: errors.New("not found")}
		e := New(t.TempDir(), testDatabase(), originals, persistence.NewFileWriter(nil, ""), logger.New("error"))
		summary, err := e.Export(context.Background(), 5, Options{OnlyFinished: true, OriginalAudios: true, AudioFormats: []string{"wav", "mp3"}})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Zero(t, summary.Written)
	})

	t.Run("format without ffmpeg", func(t *testing.T) {
		dir := t.TempDir()
		e := New(dir, testDatabase(), &fakeOriginals{}, persistence.NewFileWriter(nil, ""), logger.New("error"))
		summary, err := e.Export(context.Background(), 5, Options{OnlyFinished: true, OriginalAudios: true, AudioFormats: []string{"wav", ".MP3"}})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Written)
		assert.Equal(t, 1, summary.Failed)
		assert.NoFileExists(t, filepath.Join(dir, "aula_01", "aula_01.mp3"))
	})
}

func TestExportSegmentsParquetKeepsNullSpeaker(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, testDatabase(), nil, persistence.NewFileWriter(nil, ""), logger.New("error"))

	summary, err := e.Export(context.Background(), 5, Options{CSV: true})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Written)

	rows, err := parquet.ReadFile[segmentRow](filepath.Join(dir, "corpus_5_segments.parquet"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		if r.ID == 20 {
			assert.Nil(t, r.SpeakerID)
			assert.Equal(t, "unfinished", r.Text)
		}
	}
}

func TestArtifactLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, testDatabase(), nil, persistence.NewFileWriter(nil, ""), logger.New("error")).(*implExporter)
	target := filepath.Join(dir, "aula_01_concatenated_text.txt")
	summary := &Summary{}

	e.artifact(context.Background(), summary, "concatenated", target, func(p string) error {
		require.NoError(t, os.WriteFile(p, []byte("half"), 0644))
		return errors.New("crashed mid-write")
	})
	assert.Equal(t, 1, summary.Failed)
	assert.NoFileExists(t, target)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	e.artifact(context.Background(), summary, "concatenated", target, func(p string) error {
		assert.NotEqual(t, target, p)
		assert.Equal(t, ".txt", filepath.Ext(p))
		return os.WriteFile(p, []byte("whole"), 0644)
	})
	assert.Equal(t, 1, summary.Written)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "whole", string(data))

	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
