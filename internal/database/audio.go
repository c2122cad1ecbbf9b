package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

const audioColumns = `id, name, corpus_id, duration, error_flag, finished, json_metadata, created_at`

func (s *implStore) InsertAudio(ctx context.Context, name string, corpusID int, duration float64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO Audio (name, corpus_id, duration) VALUES (?, ?, ?)`,
		name, corpusID, duration,
	)
	if err != nil {
		return 0, fmt.Errorf("insert audio %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert audio %q: %w", name, err)
	}
	return id, nil
}

func (s *implStore) UpdateAudioDuration(ctx context.Context, audioID int64, duration float64) error {
	return s.execOne(ctx, "update audio duration", `UPDATE Audio SET duration = ? WHERE id = ?`, duration, audioID)
}

func (s *implStore) MarkAudioErrored(ctx context.Context, audioID int64) error {
	return s.execOne(ctx, "mark audio errored", `UPDATE Audio SET error_flag = 1 WHERE id = ?`, audioID)
}

func (s *implStore) MarkAudioFinished(ctx context.Context, audioID int64) error {
	return s.execOne(ctx, "mark audio finished", `UPDATE Audio SET finished = 1 WHERE id = ?`, audioID)
}

func (s *implStore) execOne(ctx context.Context, op, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindAudiosByNamePrefix returns audios whose name starts with prefix, compared case-sensitively.
func (s *implStore) FindAudiosByNamePrefix(ctx context.Context, prefix string, excludeErrored bool) ([]models.AudioRecord, error) {
	query := `SELECT ` + audioColumns + ` FROM Audio WHERE name LIKE ? ESCAPE '!'`
	if excludeErrored {
		query += ` AND (error_flag IS NULL OR error_flag <> 1)`
	}
	query += ` ORDER BY id`

	audios, err := s.queryAudios(ctx, query, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("find audios by prefix %q: %w", prefix, err)
	}

	// LIKE is case-insensitive for ASCII in SQLite; the final match is exact.
	out := audios[:0]
	for _, a := range audios {
		if strings.HasPrefix(a.Name, prefix) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *implStore) FindAudiosByCorpus(ctx context.Context, corpusID int, onlyFinished bool) ([]models.AudioRecord, error) {
	query := `SELECT ` + audioColumns + ` FROM Audio
		WHERE corpus_id = ? AND (error_flag IS NULL OR error_flag <> 1)`
	if onlyFinished {
		query += ` AND finished >= 1`
	}
	query += ` ORDER BY id`

	audios, err := s.queryAudios(ctx, query, corpusID)
	if err != nil {
		return nil, fmt.Errorf("find audios of corpus %d: %w", corpusID, err)
	}
	return audios, nil
}

func (s *implStore) queryAudios(ctx context.Context, query string, args ...any) ([]models.AudioRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audios []models.AudioRecord
	for rows.Next() {
		var (
			a         models.AudioRecord
			duration  sql.NullFloat64
			errorFlag sql.NullInt64
			finished  sql.NullInt64
			metadata  sql.NullString
			createdAt sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.CorpusID, &duration, &errorFlag, &finished, &metadata, &createdAt); err != nil {
			return nil, err
		}
		a.Duration = duration.Float64
		a.ErrorFlag = errorFlag.Valid && errorFlag.Int64 == 1
		a.Finished = finished.Int64 >= 1
		a.JSONMetadata = metadata.String
		a.CreatedAt = createdAt.String
		audios = append(audios, a)
	}
	return audios, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
