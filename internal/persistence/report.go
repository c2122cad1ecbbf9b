package persistence

import (
	"time"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// SinkName identifies a destination in a Report.
type SinkName string

const (
	SinkLocal    SinkName = "local"
	SinkDatabase SinkName = "database"
	SinkRemote   SinkName = "remote"
	SinkCloud    SinkName = "cloud"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome is the result of one segment on one sink.
type Outcome struct {
	Status Status
	Err    error
}

func succeeded() Outcome { return Outcome{Status: StatusOK} }

func failed(err error) Outcome { return Outcome{Status: StatusFailed, Err: err} }

func skipped(err error) Outcome { return Outcome{Status: StatusSkipped, Err: err} }

// SegmentResult collects the outcomes of one segment.
type SegmentResult struct {
	Index        int
	ArtifactName string
	Segment      models.Segment
	Local        Outcome
	// Sinks holds an entry for every configured sink the segment reached.
	Sinks map[SinkName]Outcome
}

// Report summarizes one Persist call. Segments are sorted by index.
type Report struct {
	AudioName    string
	AudioID      int64
	Duration     float64
	ManifestPath string
	// ManifestErr is set when summary.csv could not be written.
	ManifestErr  error
	Finished     bool
	Segments     []SegmentResult
	Elapsed      time.Duration
}

// Persisted returns the segments written locally.
func (r *Report) Persisted() []SegmentResult {
	return r.filter(func(s SegmentResult) bool { return s.Local.Status == StatusOK })
}

// Failed returns the segments whose local write failed.
func (r *Report) Failed() []SegmentResult {
	return r.filter(func(s SegmentResult) bool { return s.Local.Status == StatusFailed })
}

// Skipped returns the segments never started because the run was cancelled.
func (r *Report) Skipped() []SegmentResult {
	return r.filter(func(s SegmentResult) bool { return s.Local.Status == StatusSkipped })
}

// SinkFailures counts segments whose push to sink failed.
func (r *Report) SinkFailures(sink SinkName) int {
	if sink == SinkLocal {
		return len(r.Failed())
	}
	n := 0
	for _, s := range r.Segments {
		if o, ok := s.Sinks[sink]; ok && o.Status == StatusFailed {
			n++
		}
	}
	return n
}

func (r *Report) filter(keep func(SegmentResult) bool) []SegmentResult {
	var out []SegmentResult
	for _, s := range r.Segments {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}
