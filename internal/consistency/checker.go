// Package consistency reconciles the local output tree with the database rows.
package consistency

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
	"github.com/nguyentantai21042004/corpus-flow/internal/persistence"
)

// durationTolerance absorbs the rounding of stored durations, in seconds.
const durationTolerance = 0.01

type Kind string

const (
	KindSegmentCount    Kind = "segment_count"
	KindDuration        Kind = "duration"
	KindMissingManifest Kind = "missing_manifest"
)

// Mismatch is one disagreement between disk and database for an audio.
type Mismatch struct {
	Audio string
	Kind  Kind
	Disk  string
	DB    string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s differs (disk=%s, db=%s)", m.Audio, m.Kind, m.Disk, m.DB)
}

type Report struct {
	Audios     int
	Mismatches []Mismatch
}

// Database is the lookup the checker needs.
type Database interface {
	FindAudiosByCorpus(ctx context.Context, corpusID int, onlyFinished bool) ([]models.AudioRecord, error)
	CountSegmentsByAudio(ctx context.Context, audioID int64) (int, error)
}

type Checker struct {
	db          Database
	outputRoot  string
	audioFormat string
	logger      logger.Logger
}

func NewChecker(db Database, outputRoot, audioFormat string, log logger.Logger) *Checker {
	if audioFormat == "" {
		audioFormat = "wav"
	}
	return &Checker{db: db, outputRoot: outputRoot, audioFormat: audioFormat, logger: log}
}

// Check compares, for every non-errored audio of corpusID, the segment files on disk
// with the segment rows and the stored duration with the last manifest end.
func (c *Checker) Check(ctx context.Context, corpusID int) (*Report, error) {
	audios, err := c.db.FindAudiosByCorpus(ctx, corpusID, false)
	if err != nil {
		return nil, fmt.Errorf("find audios of corpus %d: %w", corpusID, err)
	}

	report := &Report{Audios: len(audios)}
	for _, a := range audios {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		found, err := c.checkAudio(ctx, a)
		if err != nil {
			return report, err
		}
		for _, m := range found {
			c.logger.Warn(ctx, "Inconsistent audio %s", m)
		}
		report.Mismatches = append(report.Mismatches, found...)
	}

	c.logger.Info(ctx, "Checked %d audios: %d mismatches", report.Audios, len(report.Mismatches))
	return report, nil
}

func (c *Checker) checkAudio(ctx context.Context, a models.AudioRecord) ([]Mismatch, error) {
	var out []Mismatch

	onDisk, err := c.countSegmentFiles(a.Name)
	if err != nil {
		return nil, err
	}
	inDB, err := c.db.CountSegmentsByAudio(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("count segments of %s: %w", a.Name, err)
	}
	if onDisk != inDB {
		out = append(out, Mismatch{Audio: a.Name, Kind: KindSegmentCount, Disk: fmt.Sprint(onDisk), DB: fmt.Sprint(inDB)})
	}

	rows, err := persistence.ReadManifest(persistence.ManifestPath(c.outputRoot, a.Name))
	if errors.Is(err, os.ErrNotExist) {
		return append(out, Mismatch{Audio: a.Name, Kind: KindMissingManifest, Disk: "absent", DB: fmt.Sprint(inDB)}), nil
	}
	if err != nil {
		return nil, err
	}

	lastEnd := 0.0
	for _, r := range rows {
		lastEnd = max(lastEnd, r.End)
	}
	if len(rows) > 0 && math.Abs(lastEnd-a.Duration) > durationTolerance {
		out = append(out, Mismatch{Audio: a.Name, Kind: KindDuration, Disk: fmt.Sprintf("%.2f", lastEnd), DB: fmt.Sprintf("%.2f", a.Duration)})
	}
	return out, nil
}

func (c *Checker) countSegmentFiles(name string) (int, error) {
	entries, err := os.ReadDir(filepath.Join(c.outputRoot, name, "audios"))
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read segments of %s: %w", name, err)
	}

	n := 0
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(strings.TrimPrefix(filepath.Ext(e.Name()), "."), c.audioFormat) {
			n++
		}
	}
	return n, nil
}
