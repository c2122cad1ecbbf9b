// Package metrics exposes Prometheus metrics for the ingestion pipeline.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// audiosTotal counts audios by final outcome.
	// Labels:
	//   - outcome: "persisted", "skipped", "load_failed", "transcribe_failed", "setup_failed"
	audiosTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpusflow_audios_total",
			Help: "Total number of audios handled, by outcome",
		},
		[]string{"outcome"},
	)

	// segmentOutcomesTotal counts per-segment results for each sink.
	// Labels:
	//   - sink: "local", "database", "remote", "cloud"
	//   - status: "ok", "failed", "skipped"
	segmentOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpusflow_segment_outcomes_total",
			Help: "Total number of segment outcomes per sink",
		},
		[]string{"sink", "status"},
	)

	// persistDuration records how long persisting one audio took.
	persistDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "corpusflow_persist_duration_seconds",
			Help:    "Duration of persisting all segments of one audio in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	// exportArtifactsTotal counts exporter artifacts by kind and status.
	exportArtifactsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpusflow_export_artifacts_total",
			Help: "Total number of export artifacts by kind and status",
		},
		[]string{"kind", "status"},
	)
)

func init() {
	prometheus.MustRegister(audiosTotal)
	prometheus.MustRegister(segmentOutcomesTotal)
	prometheus.MustRegister(persistDuration)
	prometheus.MustRegister(exportArtifactsTotal)
}

func RecordAudio(outcome string) {
	audiosTotal.WithLabelValues(outcome).Inc()
}

func RecordSegmentOutcome(sink, status string) {
	segmentOutcomesTotal.WithLabelValues(sink, status).Inc()
}

func RecordPersistDuration(d time.Duration) {
	persistDuration.Observe(d.Seconds())
}

func RecordExportArtifact(kind, status string) {
	exportArtifactsTotal.WithLabelValues(kind, status).Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
