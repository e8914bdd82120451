package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/emotion-log/internal/model"
)

var _ model.EmotionLogStore = (*EmotionLogRepository)(nil)

type EmotionLogRepository struct {
	db *Connection
}

func NewEmotionLogRepository(db *Connection) *EmotionLogRepository {
	return &EmotionLogRepository{
		db: db,
	}
}

const emotionLogColumns = `id, user_id, log_date, emotion_level, memo, recorded_at`

// Upsert inserts the entry or overwrites the row of the same (user_id, log_date), keeping its id.
func (r *EmotionLogRepository) Upsert(ctx context.Context, entry model.EmotionLog) (model.EmotionLog, error) {
	query := `INSERT INTO emotion_logs (user_id, log_date, emotion_level, memo, recorded_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (user_id, log_date) DO UPDATE
			  SET emotion_level = EXCLUDED.emotion_level,
			      memo = EXCLUDED.memo,
			      recorded_at = EXCLUDED.recorded_at
			  RETURNING ` + emotionLogColumns

	var saved model.EmotionLog
	err := r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.LogDate, string(entry.EmotionLevel), entry.Memo, entry.RecordedAt,
	).Scan(&saved.ID, &saved.UserID, &saved.LogDate, &saved.EmotionLevel, &saved.Memo, &saved.RecordedAt)
	if err != nil {
		return model.EmotionLog{}, fmt.Errorf("failed to upsert emotion log: %w", err)
	}

	return saved, nil
}

func (r *EmotionLogRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.EmotionLog, error) {
	query := `SELECT ` + emotionLogColumns + `
			  FROM emotion_logs WHERE user_id = $1
			  ORDER BY log_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list emotion logs: %w", err)
	}
	defer rows.Close()

	logs := make([]model.EmotionLog, 0)
	for rows.Next() {
		var entry model.EmotionLog
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.LogDate, &entry.EmotionLevel, &entry.Memo, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan emotion log: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate emotion logs: %w", err)
	}

	return logs, nil
}
