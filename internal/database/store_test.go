package database

import (
	"context"
	"testing"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	ctx := context.Background()

	store, err := Open(ctx, Options{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { store.Close() })
	return store
}

func segment(index int, start, end float64, speaker int) models.Segment {
	return models.Segment{
		RawSegment:        models.RawSegment{Index: index, Text: "text", SampleRate: 16000},
		AbsoluteStart:     start,
		AbsoluteEnd:       end,
		SpeakerID:         speaker,
		RelativeAudioPath: "talk/audios/seg.wav",
		Frames:            int((end - start) * 16000),
		DurationSeconds:   int(end - start),
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "oracle"})
	assert.Error(t, err)
}

func TestInsertAndFindByPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id1, err := store.InsertAudio(ctx, "SP_EF_0001", 1, 60)
	require.NoError(t, err)
	id2, err := store.InsertAudio(ctx, "SP_EF_0002", 1, 30)
	require.NoError(t, err)
	_, err = store.InsertAudio(ctx, "SPXEF_0003", 1, 30)
	require.NoError(t, err)
	require.NoError(t, store.MarkAudioErrored(ctx, id2))

	tests := []struct {
		name           string
		prefix         string
		excludeErrored bool
		wantIDs        []int64
	}{
		{"exact", "SP_EF_0001", true, []int64{id1}},
		{"prefix includes errored", "SP_EF", false, []int64{id1, id2}},
		{"prefix excludes errored", "SP_EF", true, []int64{id1}},
		{"underscore is literal", "SP_", false, []int64{id1, id2}},
		{"case sensitive", "sp_ef", false, nil},
		{"absent", "MG", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audios, err := store.FindAudiosByNamePrefix(ctx, tt.prefix, tt.excludeErrored)
			require.NoError(t, err)

			var ids []int64
			for _, a := range audios {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestAudioLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.InsertAudio(ctx, "talk", 4, 120)
	require.NoError(t, err)
	require.NoError(t, store.UpdateAudioDuration(ctx, id, 110.5))
	require.NoError(t, store.MarkAudioFinished(ctx, id))

	audios, err := store.FindAudiosByCorpus(ctx, 4, true)
	require.NoError(t, err)
	require.Len(t, audios, 1)
	assert.Equal(t, "talk", audios[0].Name)
	assert.Equal(t, 4, audios[0].CorpusID)
	assert.InDelta(t, 110.5, audios[0].Duration, 1e-9)
	assert.True(t, audios[0].Finished)
	assert.False(t, audios[0].ErrorFlag)
	assert.NotEmpty(t, audios[0].CreatedAt)
}

func TestFindAudiosByCorpusFilters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	finished, _ := store.InsertAudio(ctx, "a", 1, 1)
	require.NoError(t, store.MarkAudioFinished(ctx, finished))
	_, _ = store.InsertAudio(ctx, "b", 1, 1)
	errored, _ := store.InsertAudio(ctx, "c", 1, 1)
	require.NoError(t, store.MarkAudioErrored(ctx, errored))
	_, _ = store.InsertAudio(ctx, "d", 2, 1)

	all, err := store.FindAudiosByCorpus(ctx, 1, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	done, err := store.FindAudiosByCorpus(ctx, 1, true)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "a", done[0].Name)
}

func TestSegmentsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.InsertAudio(ctx, "talk", 1, 20)
	require.NoError(t, err)

	require.NoError(t, store.InsertSegment(ctx, id, segment(1, 10.0, 12.5, 2)))
	require.NoError(t, store.InsertSegment(ctx, id, segment(0, 5.0, 8.0, models.NoSpeaker)))
	require.NoError(t, store.InsertSegment(ctx, id, segment(1, 10.0, 12.5, 2)))

	n, err := store.CountSegmentsByAudio(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	segs, err := store.FindSegmentsByAudioIDs(ctx, []int64{id})
	require.NoError(t, err)
	require.Len(t, segs, 2)

	assert.Equal(t, 0, segs[0].SegmentNum)
	assert.Nil(t, segs[0].SpeakerID)
	assert.Equal(t, 48000, segs[0].Frames)
	assert.Equal(t, 3, segs[0].Duration)

	assert.Equal(t, 1, segs[1].SegmentNum)
	require.NotNil(t, segs[1].SpeakerID)
	assert.Equal(t, 2, *segs[1].SpeakerID)
	assert.InDelta(t, 12.5, segs[1].EndTime, 1e-9)
	assert.Equal(t, "talk/audios/seg.wav", segs[1].FilePath)
}

func TestFindSegmentsEmptyIDs(t *testing.T) {
	segs, err := newTestStore(t).FindSegmentsByAudioIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, segs)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "a!_b!%c!!", escapeLike("a_b%c!"))
}

func TestOpenThroughSSHRequiresMySQL(t *testing.T) {
	_, err := OpenThroughSSH(context.Background(), Options{Driver: "sqlite"}, nil)
	assert.ErrorContains(t, err, "mysql")
}
