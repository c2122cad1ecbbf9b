package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
	"github.com/nguyentantai21042004/corpus-flow/pkg/executor"
)

// CommandOptions configures the external helper.
//
// Args may reference {audio}, {language} and {model}. The helper must print the
// transcript as JSON on stdout.
type CommandOptions struct {
	Command  string
	Args     []string
	Language string
	Model    string
	TempDir  string
}

type commandTranscriber struct {
	executor executor.Executor
	opts     CommandOptions
	logger   logger.Logger
}

// NewCommand creates a Transcriber that shells out to a whisper/diarization helper.
func NewCommand(exec executor.Executor, opts CommandOptions, log logger.Logger) (Transcriber, error) {
	if opts.Command == "" {
		return nil, fmt.Errorf("transcriber command is required")
	}
	if len(opts.Args) == 0 {
		opts.Args = []string{"{audio}"}
	}
	return &commandTranscriber{executor: exec, opts: opts, logger: log}, nil
}

func (t *commandTranscriber) Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]models.RawSegment, error) {
	if t.opts.TempDir != "" {
		if err := os.MkdirAll(t.opts.TempDir, 0o755); err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(t.opts.TempDir, "transcribe-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	wavPath := filepath.Join(dir, "input.wav")
	if err := audio.WriteWAVFile(wavPath, samples, sampleRate); err != nil {
		return nil, fmt.Errorf("write transcriber input: %w", err)
	}

	args := t.expandArgs(wavPath)
	t.logger.Debug(ctx, "Running transcriber: %s %s", t.opts.Command, strings.Join(args, " "))

	out, err := t.executor.ExecuteInDir(ctx, dir, t.opts.Command, args...)
	if err != nil {
		return nil, fmt.Errorf("transcriber command: %w", err)
	}

	segments, err := parseSegments([]byte(out), sampleRate)
	if err != nil {
		return nil, fmt.Errorf("transcriber output: %w", err)
	}
	return segments, nil
}

func (t *commandTranscriber) expandArgs(wavPath string) []string {
	r := strings.NewReplacer(
		"{audio}", wavPath,
		"{language}", t.opts.Language,
		"{model}", t.opts.Model,
	)
	args := make([]string, len(t.opts.Args))
	for i, a := range t.opts.Args {
		args[i] = r.Replace(a)
	}
	return args
}
