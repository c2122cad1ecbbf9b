package transcriber

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/nguyentantai21042004/corpus-flow/internal/config"
	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	dir    string
	name   string
	args   []string
	output string
	err    error
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.ExecuteInDir(ctx, "", name, args...)
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	f.dir, f.name, f.args = dir, name, args
	if len(args) > 0 {
		if _, err := os.Stat(args[len(args)-1]); err != nil {
			return "", err
		}
	}
	return f.output, f.err
}

func TestCommandTranscribe(t *testing.T) {
	exec := &fakeExecutor{output: `{"segments": [{"start": 0, "end": 1.5, "text": "olá", "speaker": "SPEAKER_02"}]}`}
	tr, err := NewCommand(exec, CommandOptions{
		Command:  "whisperx-json",
		Args:     []string{"--language", "{language}", "--model", "{model}", "{audio}"},
		Language: "pt",
		Model:    "large-v3",
		TempDir:  t.TempDir(),
	}, logger.New("error"))
	require.NoError(t, err)

	segs, err := tr.Transcribe(context.Background(), make([]float32, 16000), 16000)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "SPEAKER_02", segs[0].SpeakerTag)

	assert.Equal(t, "whisperx-json", exec.name)
	assert.Equal(t, []string{"--language", "pt", "--model", "large-v3"}, exec.args[:4])
	assert.NotEmpty(t, exec.dir)

	_, err = os.Stat(exec.dir)
	assert.True(t, os.IsNotExist(err), "temp dir should be removed")
}

func TestCommandTranscribeFailure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("CUDA out of memory")}
	tr, err := NewCommand(exec, CommandOptions{Command: "helper", TempDir: t.TempDir()}, logger.New("error"))
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), make([]float32, 100), 16000)
	assert.ErrorContains(t, err, "CUDA out of memory")
}

func TestNew(t *testing.T) {
	log := logger.New("error")

	_, err := New(config.TranscriberConfig{Backend: "command"}, "", &fakeExecutor{}, log)
	assert.Error(t, err, "command backend needs a command")

	_, err = New(config.TranscriberConfig{Backend: "gemini"}, "", &fakeExecutor{}, log)
	assert.Error(t, err, "gemini backend needs keys")

	tr, err := New(config.TranscriberConfig{Backend: "gemini", APIKeys: []string{"k"}}, "", &fakeExecutor{}, log)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", tr.(*geminiTranscriber).model)

	_, err = New(config.TranscriberConfig{Backend: "oracle"}, "", &fakeExecutor{}, log)
	assert.Error(t, err)
}

func TestGeminiKeyRotation(t *testing.T) {
	tr, err := NewGemini([]string{"a", "b"}, "", "", "", logger.New("error"))
	require.NoError(t, err)
	g := tr.(*geminiTranscriber)

	key, idx := g.key()
	assert.Equal(t, "a", key)
	g.rotateKey(idx)
	g.rotateKey(idx)
	key, _ = g.key()
	assert.Equal(t, "b", key)

	assert.True(t, isQuotaError(errors.New("Error 429: RESOURCE_EXHAUSTED")))
	assert.False(t, isQuotaError(errors.New("invalid argument")))
}
