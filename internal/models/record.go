package models

// AudioRecord is a row of the Audio table.
type AudioRecord struct {
	ID           int64
	Name         string
	CorpusID     int
	Duration     float64
	ErrorFlag    bool
	Finished     bool
	JSONMetadata string
	CreatedAt    string
}

// SegmentRecord is a row of the Dataset table.
type SegmentRecord struct {
	ID         int64
	AudioID    int64
	SegmentNum int
	FilePath   string
	Text       string
	Frames     int
	Duration   int
	StartTime  float64
	EndTime    float64
	// SpeakerID is nil when the row carries no speaker.
	SpeakerID *int
}
