package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/logger"
	"github.com/dtroode/emotion-log/internal/model"
)

// ExportDocument is the JSON written to object storage.
type ExportDocument struct {
	UserID     uuid.UUID          `json:"userId"`
	ExportedAt time.Time          `json:"exportedAt"`
	Logs       []model.EmotionLog `json:"logs"`
}

// Export writes backups of a user's entries to object storage.
type Export struct {
	logs    model.EmotionLogStore
	storage model.Storage
	logger  *logger.Logger
	now     func() time.Time
}

func NewExport(logs model.EmotionLogStore, storage model.Storage, logger *logger.Logger) *Export {
	return &Export{logs: logs, storage: storage, logger: logger, now: time.Now}
}

// Create stores a snapshot of all the owner's entries and returns its key.
func (s *Export) Create(ctx context.Context, ownerID uuid.UUID) (model.ExportResult, error) {
	logs, err := s.logs.ListByUser(ctx, ownerID)
	if err != nil {
		return model.ExportResult{}, fmt.Errorf("failed to list emotion logs: %w", err)
	}
	if logs == nil {
		logs = []model.EmotionLog{}
	}

	now := s.now().UTC()
	body, err := json.Marshal(ExportDocument{UserID: ownerID, ExportedAt: now, Logs: logs})
	if err != nil {
		return model.ExportResult{}, fmt.Errorf("failed to encode export: %w", err)
	}

	key := exportPrefix(ownerID) + now.Format("20060102T150405.000000000Z") + ".json"
	if err := s.storage.Put(ctx, key, body, "application/json"); err != nil {
		s.logger.Error("Export service: failed to store export",
			"user_id", ownerID,
			"key", key,
			"error", err.Error())
		return model.ExportResult{}, fmt.Errorf("failed to store export: %w", err)
	}

	s.logger.Info("Export service: export created",
		"user_id", ownerID,
		"key", key,
		"entries", len(logs))

	return model.ExportResult{Key: key}, nil
}

// Open returns an export owned by ownerID. Keys of other users are reported as not found.
func (s *Export) Open(ctx context.Context, ownerID uuid.UUID, key string) (io.ReadCloser, error) {
	if !strings.HasPrefix(key, exportPrefix(ownerID)) || strings.Contains(key, "..") {
		return nil, apierrors.NewErrNotFound("export not found")
	}

	rc, err := s.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, apierrors.NewErrNotFound("export not found")
		}
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	return rc, nil
}

func exportPrefix(ownerID uuid.UUID) string {
	return "exports/" + ownerID.String() + "/"
}
