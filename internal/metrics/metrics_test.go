package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAudio(t *testing.T) {
	audiosTotal.Reset()

	RecordAudio("persisted")
	RecordAudio("persisted")
	RecordAudio("skipped")

	if got := testutil.ToFloat64(audiosTotal.WithLabelValues("persisted")); got != 2 {
		t.Errorf("persisted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(audiosTotal.WithLabelValues("skipped")); got != 1 {
		t.Errorf("skipped = %v, want 1", got)
	}
}

func TestRecordSegmentOutcome(t *testing.T) {
	segmentOutcomesTotal.Reset()

	RecordSegmentOutcome("remote", "failed")

	if got := testutil.ToFloat64(segmentOutcomesTotal.WithLabelValues("remote", "failed")); got != 1 {
		t.Errorf("remote/failed = %v, want 1", got)
	}
}

func TestRecordPersistDuration(t *testing.T) {
	RecordPersistDuration(3 * time.Second)

	if n := testutil.CollectAndCount(persistDuration); n != 1 {
		t.Errorf("collected %d metrics, want 1", n)
	}
}

func TestRecordExportArtifact(t *testing.T) {
	exportArtifactsTotal.Reset()

	RecordExportArtifact("textgrid", "written")

	if got := testutil.ToFloat64(exportArtifactsTotal.WithLabelValues("textgrid", "written")); got != 1 {
		t.Errorf("textgrid/written = %v, want 1", got)
	}
}
