package exporter

import (
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// segmentRow is the columnar layout of a Dataset row.
type segmentRow struct {
	ID         int64   `parquet:"id"`
	AudioID    int64   `parquet:"audio_id"`
	SegmentNum int64   `parquet:"segment_num"`
	FilePath   string  `parquet:"file_path"`
	Text       string  `parquet:"text"`
	Frames     int64   `parquet:"frames"`
	Duration   int64   `parquet:"duration"`
	StartTime  float64 `parquet:"start_time"`
	EndTime    float64 `parquet:"end_time"`
	SpeakerID  *int64  `parquet:"speaker_id,optional"`
}

func toSegmentRows(segs []models.SegmentRecord) []segmentRow {
	rows := make([]segmentRow, len(segs))
	for i, s := range segs {
		rows[i] = segmentRow{
			ID:         s.ID,
			AudioID:    s.AudioID,
			SegmentNum: int64(s.SegmentNum),
			FilePath:   s.FilePath,
			Text:       s.Text,
			Frames:     int64(s.Frames),
			Duration:   int64(s.Duration),
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
		}
		if s.SpeakerID != nil {
			id := int64(*s.SpeakerID)
			rows[i].SpeakerID = &id
		}
	}
	return rows
}

func writeSegmentsParquet(path string, segs []models.SegmentRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := parquet.NewGenericWriter[segmentRow](f)
	if _, err := w.Write(toSegmentRows(segs)); err != nil {
		f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
