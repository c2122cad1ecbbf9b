package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/pkg/executor"
)

type fileWriter struct {
	executor executor.Executor
	ffmpeg   string
}

// NewFileWriter writes segment audio as WAV, converting through ffmpeg for other extensions.
func NewFileWriter(exec executor.Executor, ffmpegPath string) ArtifactWriter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &fileWriter{executor: exec, ffmpeg: ffmpegPath}
}

func (w *fileWriter) WriteAudio(ctx context.Context, path string, samples []float32, sampleRate int) error {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".wav") {
		return audio.WriteWAVFile(path, samples, sampleRate)
	}
	if w.executor == nil {
		return fmt.Errorf("cannot encode %s without ffmpeg", ext)
	}

	tmp := strings.TrimSuffix(path, ext) + ".tmp.wav"
	if err := audio.WriteWAVFile(tmp, samples, sampleRate); err != nil {
		return err
	}
	defer os.Remove(tmp)

	if _, err := w.executor.Execute(ctx, w.ffmpeg, "-y", "-i", tmp, path); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (w *fileWriter) WriteText(ctx context.Context, path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}
