package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/logger"
	"github.com/dtroode/emotion-log/internal/model"
)

// EmotionLog saves and lists the entries of the authenticated user.
type EmotionLog struct {
	store  model.EmotionLogStore
	logger *logger.Logger
	now    func() time.Time
}

func NewEmotionLog(store model.EmotionLogStore, logger *logger.Logger) *EmotionLog {
	return &EmotionLog{store: store, logger: logger, now: time.Now}
}

// Save creates or overwrites the owner's entry for req.LogDate. An empty memo is stored as null.
func (s *EmotionLog) Save(ctx context.Context, ownerID uuid.UUID, req model.SaveLogRequest) (model.SaveLogResult, error) {
	date, err := model.ParseLogDate(req.LogDate)
	if err != nil {
		return model.SaveLogResult{}, apierrors.NewErrValidation("validation failed", map[string]string{
			"logDate": "must be a date in 2006-01-02 format",
		})
	}
	if !req.EmotionLevel.Valid() {
		return model.SaveLogResult{}, apierrors.NewErrValidation("validation failed", map[string]string{
			"emotionLevel": "must be one of: very_good good neutral bad very_bad",
		})
	}

	memo := req.Memo
	if memo != nil && strings.TrimSpace(*memo) == "" {
		memo = nil
	}

	saved, err := s.store.Upsert(ctx, model.EmotionLog{
		UserID:       ownerID,
		LogDate:      date,
		EmotionLevel: req.EmotionLevel,
		Memo:         memo,
		RecordedAt:   s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("Emotion log service: failed to save entry",
			"user_id", ownerID,
			"log_date", date.String(),
			"error", err.Error())
		return model.SaveLogResult{}, fmt.Errorf("failed to save emotion log: %w", err)
	}

	s.logger.Debug("Emotion log service: entry saved",
		"user_id", ownerID,
		"id", saved.ID,
		"log_date", date.String())

	return model.SaveLogResult{ID: saved.ID}, nil
}

// List returns the owner's entries, newest log date first.
func (s *EmotionLog) List(ctx context.Context, ownerID uuid.UUID) ([]model.EmotionLog, error) {
	logs, err := s.store.ListByUser(ctx, ownerID)
	if err != nil {
		s.logger.Error("Emotion log service: failed to list entries",
			"user_id", ownerID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list emotion logs: %w", err)
	}
	if logs == nil {
		logs = []model.EmotionLog{}
	}
	return logs, nil
}
