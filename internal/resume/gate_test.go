package resume

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	audios []models.AudioRecord
	err    error
}

func (f *fakeFinder) FindAudiosByNamePrefix(ctx context.Context, prefix string, excludeErrored bool) ([]models.AudioRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.AudioRecord
	for _, a := range f.audios {
		if !strings.HasPrefix(a.Name, prefix) {
			continue
		}
		if excludeErrored && a.ErrorFlag {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func TestAlreadyProcessed(t *testing.T) {
	finder := &fakeFinder{audios: []models.AudioRecord{
		{ID: 1, Name: "entrevista_01"},
		{ID: 2, Name: "entrevista_02", ErrorFlag: true},
	}}
	gate := NewGate(finder)
	ctx := context.Background()

	tests := []struct {
		name          string
		audio         string
		ignoreErrored bool
		want          bool
	}{
		{"exact match", "entrevista_01", true, true},
		{"prefix match", "entrevista_0", true, true},
		{"case sensitive", "Entrevista_01", true, false},
		{"errored ignored", "entrevista_02", true, false},
		{"errored counted", "entrevista_02", false, true},
		{"absent", "palestra", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gate.AlreadyProcessed(ctx, tt.audio, tt.ignoreErrored)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlreadyProcessedErrors(t *testing.T) {
	gate := NewGate(&fakeFinder{err: errors.New("connection reset")})

	_, err := gate.AlreadyProcessed(context.Background(), "x", true)
	assert.ErrorContains(t, err, "connection reset")

	_, err = gate.AlreadyProcessed(context.Background(), "", true)
	assert.Error(t, err)
}
