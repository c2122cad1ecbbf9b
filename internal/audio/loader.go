package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
	"github.com/nguyentantai21042004/corpus-flow/pkg/executor"
)

// Downloader fetches the bytes of a listed file.
type Downloader interface {
	Download(ctx context.Context, file models.File, w io.Writer) error
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	FFmpegPath string
	TempDir    string
	SampleRate int
	TopDB      float64
}

// Loader turns storage entries into Audio values.
type Loader struct {
	source   Downloader
	executor executor.Executor
	opts     LoaderOptions
}

// NewLoader creates a Loader reading from source and converting through ffmpeg.
func NewLoader(source Downloader, exec executor.Executor, opts LoaderOptions) *Loader {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 16000
	}
	if opts.TopDB <= 0 {
		opts.TopDB = DefaultTopDB
	}
	return &Loader{source: source, executor: exec, opts: opts}
}

// SampleRate is the rate every loaded Audio is resampled to.
func (l *Loader) SampleRate() int { return l.opts.SampleRate }

// Load downloads file, converts it to mono 16-bit PCM and detects its non-silent interval.
// Every error wraps ErrLoadFailed.
func (l *Loader) Load(ctx context.Context, file models.File, name string) (*Audio, error) {
	a, err := l.load(ctx, file, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, file.FullName(), err)
	}
	return a, nil
}

func (l *Loader) load(ctx context.Context, file models.File, name string) (*Audio, error) {
	if !models.IsAudioExtension(file.Extension) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, file.Extension)
	}

	if l.opts.TempDir != "" {
		if err := os.MkdirAll(l.opts.TempDir, 0o755); err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(l.opts.TempDir, "load-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "source."+file.Extension)
	if err := l.download(ctx, file, src); err != nil {
		return nil, err
	}

	wavPath := src
	if file.Extension != "wav" || !isTargetWAV(src, l.opts.SampleRate) {
		wavPath = filepath.Join(dir, "converted.wav")
		if err := l.convert(ctx, src, wavPath); err != nil {
			return nil, err
		}
	}

	samples, rate, err := DecodeWAVFile(wavPath)
	if err != nil {
		return nil, err
	}
	if rate != l.opts.SampleRate {
		return nil, fmt.Errorf("decoded sample rate %d, want %d", rate, l.opts.SampleRate)
	}

	a, err := Load(name, samples, rate, l.opts.TopDB)
	if err != nil {
		return nil, err
	}
	a.SourceFolderID = file.ParentID()
	return a, nil
}

func (l *Loader) download(ctx context.Context, file models.File, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create download target: %w", err)
	}
	if err := l.source.Download(ctx, file, f); err != nil {
		f.Close()
		return fmt.Errorf("download: %w", err)
	}
	return f.Close()
}

// convert produces mono 16-bit PCM at the loader's rate. Video streams are dropped.
func (l *Loader) convert(ctx context.Context, src, dst string) error {
	if l.executor == nil {
		return fmt.Errorf("%w: conversion needs ffmpeg", ErrUnsupportedFormat)
	}
	args := []string{
		"-i", src,
		"-vn",
		"-ar", strconv.Itoa(l.opts.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		dst,
	}
	if _, err := l.executor.Execute(ctx, l.opts.FFmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg convert: %w", err)
	}
	return nil
}
