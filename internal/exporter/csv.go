package exporter

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

func writeAudiosCSV(path string, audios []models.AudioRecord) error {
	rows := [][]string{{"id", "name", "corpus_id", "duration", "error_flag", "finished", "created_at"}}
	for _, a := range audios {
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			a.Name,
			strconv.Itoa(a.CorpusID),
			strconv.FormatFloat(a.Duration, 'f', -1, 64),
			strconv.FormatBool(a.ErrorFlag),
			strconv.FormatBool(a.Finished),
			a.CreatedAt,
		})
	}
	return writeCSV(path, rows)
}

func writeSegmentsCSV(path string, segs []models.SegmentRecord) error {
	rows := [][]string{{"id", "audio_id", "segment_num", "file_path", "text", "frames", "duration", "start_time", "end_time", "speaker_id"}}
	for _, s := range segs {
		speaker := ""
		if s.SpeakerID != nil {
			speaker = strconv.Itoa(*s.SpeakerID)
		}
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			strconv.FormatInt(s.AudioID, 10),
			strconv.Itoa(s.SegmentNum),
			s.FilePath,
			s.Text,
			strconv.Itoa(s.Frames),
			strconv.Itoa(s.Duration),
			strconv.FormatFloat(s.StartTime, 'f', -1, 64),
			strconv.FormatFloat(s.EndTime, 'f', -1, 64),
			speaker,
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
