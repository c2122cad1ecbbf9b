package audio

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDownloader struct {
	path string
	err  error
}

func (f *fakeDownloader) Download(ctx context.Context, file models.File, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	src, err := os.Open(f.path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(w, src)
	return err
}

type fakeExecutor struct {
	calls int
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls++
	return "", errors.New("ffmpeg not available")
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func writeFixture(t *testing.T, rate int) string {
	t.Helper()
	samples := append(make([]float32, rate), tone(rate, 0.6)...)
	path := filepath.Join(t.TempDir(), "fixture.wav")
	require.NoError(t, WriteWAVFile(path, samples, rate))
	return path
}

func TestLoaderUsesTargetWAVDirectly(t *testing.T) {
	exec := &fakeExecutor{}
	l := NewLoader(&fakeDownloader{path: writeFixture(t, 16000)}, exec, LoaderOptions{TempDir: t.TempDir()})

	file := models.File{ID: "1", Name: "talk", Extension: "wav", Parents: []string{"folder-a"}}
	a, err := l.Load(context.Background(), file, "talk")
	require.NoError(t, err)

	assert.Equal(t, 0, exec.calls)
	assert.Equal(t, "talk", a.Name)
	assert.Equal(t, "folder-a", a.SourceFolderID)
	assert.Equal(t, 16000, a.SampleRate())
	assert.InDelta(t, 2.0, a.Duration(), 1e-9)
	assert.Greater(t, a.StartOffset(), 0.8)
}

func TestLoaderConvertsOtherRates(t *testing.T) {
	exec := &fakeExecutor{}
	l := NewLoader(&fakeDownloader{path: writeFixture(t, 8000)}, exec, LoaderOptions{TempDir: t.TempDir()})

	_, err := l.Load(context.Background(), models.File{Name: "talk", Extension: "wav"}, "talk")
	require.Error(t, err)
	assert.Equal(t, 1, exec.calls)
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestLoaderRejectsUnsupported(t *testing.T) {
	l := NewLoader(&fakeDownloader{}, &fakeExecutor{}, LoaderOptions{TempDir: t.TempDir()})

	_, err := l.Load(context.Background(), models.File{Name: "notes", Extension: "pdf"}, "notes")
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoaderDownloadFailure(t *testing.T) {
	l := NewLoader(&fakeDownloader{err: errors.New("quota exceeded")}, &fakeExecutor{}, LoaderOptions{TempDir: t.TempDir()})

	_, err := l.Load(context.Background(), models.File{Name: "a", Extension: "mp3"}, "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.Contains(t, err.Error(), "quota exceeded")
}
