package exporter

import (
	"testing"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func speaker(id int) *int { return &id }

func TestConcatenatedText(t *testing.T) {
	assert.Equal(t, "Hello world", ConcatenatedText([]string{"Hello", "world"}))
	assert.Equal(t, "line oneline two next", ConcatenatedText([]string{"line one\nline two", "next"}))
	assert.Equal(t, "", ConcatenatedText(nil))
}

func TestSpeakerRuns(t *testing.T) {
	segs := []models.SegmentRecord{
		{SegmentNum: 0, Text: "a", SpeakerID: speaker(0)},
		{SegmentNum: 1, Text: "b"},
		{SegmentNum: 2, Text: "c", SpeakerID: speaker(1)},
	}

	runs := SpeakerRuns(segs)
	require.Len(t, runs, 2)
	assert.Equal(t, 0, runs[0].SpeakerID)
	assert.Equal(t, "a b", runs[0].Text())
	assert.Equal(t, 1, runs[1].SpeakerID)
	assert.Equal(t, "c", runs[1].Text())

	assert.Equal(t, "SPEAKER 0: a b\n\nSPEAKER 1: c", RenderSpeakerRuns(runs))
}

func TestSpeakerRunsLeadingNullUsesDefault(t *testing.T) {
	segs := []models.SegmentRecord{
		{Text: "first"},
		{Text: "second", SpeakerID: speaker(0)},
		{Text: "third", SpeakerID: speaker(2)},
		{Text: "fourth", SpeakerID: speaker(0)},
	}

	runs := SpeakerRuns(segs)
	require.Len(t, runs, 3)
	assert.Equal(t, DefaultSpeaker, runs[0].SpeakerID)
	assert.Equal(t, "first second", runs[0].Text())
	assert.Equal(t, 2, runs[1].SpeakerID)
	assert.Equal(t, 0, runs[2].SpeakerID)
}

func TestSpeakerRunsEmpty(t *testing.T) {
	assert.Empty(t, SpeakerRuns(nil))
	assert.Equal(t, "", RenderSpeakerRuns(nil))
}
