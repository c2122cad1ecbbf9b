package persistence

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

var manifestHeader = []string{
	"audio_name",
	"audio_segment_path",
	"start",
	"end",
	"whisper_transcription",
	"transcription_path",
	"speaker_id",
}

// ManifestRow is one line of summary.csv.
type ManifestRow struct {
	AudioName string
	AudioPath string
	Start     float64
	End       float64
	Text      string
	TextPath  string
	SpeakerID int
}

// writeManifest writes the pipe-delimited manifest of the given segments, in order.
func writeManifest(path, audioName string, segments []models.Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	w.Comma = '|'
	if err := w.Write(manifestHeader); err != nil {
		f.Close()
		return err
	}
	for _, s := range segments {
		record := []string{
			audioName,
			s.AudioPath,
			formatSeconds(s.AbsoluteStart),
			formatSeconds(s.AbsoluteEnd),
			s.Text,
			s.TextPath,
			strconv.Itoa(s.SpeakerID),
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadManifest parses a summary.csv written by Persist.
func ReadManifest(path string) ([]ManifestRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '|'
	r.FieldsPerRecord = len(manifestHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("manifest %s has no header", path)
	}

	rows := make([]ManifestRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := ManifestRow{AudioName: rec[0], AudioPath: rec[1], Text: rec[4], TextPath: rec[5]}
		if row.Start, err = strconv.ParseFloat(rec[2], 64); err != nil {
			return nil, fmt.Errorf("manifest %s line %d: start: %w", path, i+2, err)
		}
		if row.End, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, fmt.Errorf("manifest %s line %d: end: %w", path, i+2, err)
		}
		if row.SpeakerID, err = strconv.Atoi(rec[6]); err != nil {
			return nil, fmt.Errorf("manifest %s line %d: speaker_id: %w", path, i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ManifestPath returns where Persist writes the manifest of the named audio.
func ManifestPath(root, audioName string) string {
	return layout{root: root, name: audioName}.manifest()
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
