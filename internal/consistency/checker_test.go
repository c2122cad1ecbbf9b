package consistency

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/database"
	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
	"github.com/nguyentantai21042004/corpus-flow/internal/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persistFixture(t *testing.T, ctx context.Context, store database.Store, root, name string) {
	t.Helper()
	samples := make([]float32, 16000*6)
	for i := range samples {
		samples[i] = 0.3
	}
	a, err := audio.New(name, samples, 16000, audio.Interval{Start: 16000, End: 16000 * 5})
	require.NoError(t, err)

	c := persistence.New(persistence.Options{OutputRoot: root, CorpusID: 2, MarkFinished: true},
		persistence.Sinks{Database: store}, persistence.NewFileWriter(nil, ""), logger.New("error"))
	_, err = c.Persist(ctx, a, []models.RawSegment{
		{Index: 0, RelativeStart: 0, RelativeEnd: 1, Text: "um"},
		{Index: 1, RelativeStart: 1, RelativeEnd: 2.5, Text: "dois"},
	})
	require.NoError(t, err)
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	store, err := database.Open(ctx, database.Options{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate(ctx))

	root := t.TempDir()
	persistFixture(t, ctx, store, root, "SP_D2_255")
	persistFixture(t, ctx, store, root, "SP_D2_343")

	checker := NewChecker(store, root, "wav", logger.New("error"))

	report, err := checker.Check(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Audios)
	assert.Empty(t, report.Mismatches)

	audios, err := filepath.Glob(filepath.Join(root, "SP_D2_343", "audios", "*.wav"))
	require.NoError(t, err)
	require.Len(t, audios, 2)
	require.NoError(t, os.Remove(audios[0]))
	require.NoError(t, os.Remove(persistence.ManifestPath(root, "SP_D2_255")))

	report, err = checker.Check(ctx, 2)
	require.NoError(t, err)
	require.Len(t, report.Mismatches, 2)

	kinds := map[Kind]Mismatch{}
	for _, m := range report.Mismatches {
		kinds[m.Kind] = m
	}
	assert.Equal(t, "SP_D2_255", kinds[KindMissingManifest].Audio)
	assert.Equal(t, Mismatch{Audio: "SP_D2_343", Kind: KindSegmentCount, Disk: "1", DB: "2"}, kinds[KindSegmentCount])
}

func TestCheckDuration(t *testing.T) {
	ctx := context.Background()
	store, err := database.Open(ctx, database.Options{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate(ctx))

	root := t.TempDir()
	persistFixture(t, ctx, store, root, "SP_EF_156")

	audios, err := store.FindAudiosByCorpus(ctx, 2, false)
	require.NoError(t, err)
	require.Len(t, audios, 1)
	assert.InDelta(t, 3.5, audios[0].Duration, 1e-9)
	require.NoError(t, store.UpdateAudioDuration(ctx, audios[0].ID, 6))

	report, err := NewChecker(store, root, "", logger.New("error")).Check(ctx, 2)
	require.NoError(t, err)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, KindDuration, report.Mismatches[0].Kind)
	assert.Equal(t, "3.50", report.Mismatches[0].Disk)
}
