package exporter

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageOriginals(t *testing.T) {
	src := t.TempDir()
	samples := make([]float32, 8000)
	for i := range samples {
		samples[i] = 0.3
	}
	require.NoError(t, audio.WriteWAVFile(filepath.Join(src, "aula_01_sem_cabecalho.wav"), samples, 16000))

	local := storage.NewLocal()
	loader := audio.NewLoader(local, nil, audio.LoaderOptions{TempDir: t.TempDir(), SampleRate: 16000})
	strip := func(name string) string { return strings.TrimSuffix(name, "_sem_cabecalho") }
	originals := NewStorageOriginals(local, loader, []string{src}, "wav", strip)

	a, err := originals.Original(context.Background(), "aula_01")
	require.NoError(t, err)
	assert.Equal(t, "aula_01", a.Name)
	assert.Equal(t, 16000, a.SampleRate())
	assert.Len(t, a.Samples(), 8000)

	_, err = originals.Original(context.Background(), "aula_02")
	assert.ErrorContains(t, err, "aula_02")
}
