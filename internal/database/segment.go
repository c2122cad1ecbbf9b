package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

func (s *implStore) InsertSegment(ctx context.Context, audioID int64, seg models.Segment) error {
	query := s.dialect.insertIgnore + ` INTO Dataset
		(file_path, file_with_user, data_gold, task, text_asr, audio_id, segment_num,
		 audio_lenght, duration, start_time, end_time, speaker_id)
		VALUES (?, 0, 0, 1, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		seg.RelativeAudioPath,
		seg.Text,
		audioID,
		seg.Index,
		seg.Frames,
		seg.DurationSeconds,
		seg.AbsoluteStart,
		seg.AbsoluteEnd,
		seg.SpeakerID,
	)
	if err != nil {
		return fmt.Errorf("insert segment %d of audio %d: %w", seg.Index, audioID, err)
	}
	return nil
}

// FindSegmentsByAudioIDs returns the segments of the given audios ordered by audio and index.
func (s *implStore) FindSegmentsByAudioIDs(ctx context.Context, audioIDs []int64) ([]models.SegmentRecord, error) {
	if len(audioIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(audioIDs)), ",")
	args := make([]any, len(audioIDs))
	for i, id := range audioIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, audio_id, segment_num, file_path, text_asr, audio_lenght, duration,
		       start_time, end_time, speaker_id
		FROM Dataset
		WHERE audio_id IN (`+placeholders+`)
		ORDER BY audio_id, segment_num`, args...)
	if err != nil {
		return nil, fmt.Errorf("find segments: %w", err)
	}
	defer rows.Close()

	var segments []models.SegmentRecord
	for rows.Next() {
		var (
			seg     models.SegmentRecord
			speaker sql.NullInt64
		)
		if err := rows.Scan(&seg.ID, &seg.AudioID, &seg.SegmentNum, &seg.FilePath, &seg.Text,
			&seg.Frames, &seg.Duration, &seg.StartTime, &seg.EndTime, &speaker); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		if speaker.Valid && speaker.Int64 >= 0 {
			id := int(speaker.Int64)
			seg.SpeakerID = &id
		}
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segments: %w", err)
	}
	return segments, nil
}

func (s *implStore) CountSegmentsByAudio(ctx context.Context, audioID int64) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Dataset WHERE audio_id = ?`, audioID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count segments of audio %d: %w", audioID, err)
	}
	return n, nil
}
