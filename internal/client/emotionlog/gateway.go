// Package emotionlog reads and writes the signed-in user's emotion log entries.
package emotionlog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dtroode/emotion-log/internal/emotion"
	"github.com/dtroode/emotion-log/internal/logger"
	"github.com/dtroode/emotion-log/internal/model"
)

// Requester sends a JSON API request.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Validator checks a request struct before it is sent.
type Validator interface {
	Validate(s any) error
}

// Gateway issues emotion log calls. Authentication is handled by the transport underneath;
// an unauthorized error is returned after the session has already been logged out.
type Gateway struct {
	api       Requester
	validator Validator
	logger    *logger.Logger
}

// NewGateway creates a Gateway.
func NewGateway(api Requester, validator Validator, logger *logger.Logger) *Gateway {
	return &Gateway{api: api, validator: validator, logger: logger}
}

// Save creates or overwrites the entry for req.LogDate. The returned id may differ from the
// id the date had before.
func (g *Gateway) Save(ctx context.Context, req model.SaveLogRequest) (model.SaveLogResult, error) {
	if err := g.validator.Validate(req); err != nil {
		return model.SaveLogResult{}, err
	}

	var result model.SaveLogResult
	if err := g.api.Do(ctx, http.MethodPost, "/logs", req, &result); err != nil {
		g.logger.Warn("Emotion log gateway: failed to save entry",
			"log_date", req.LogDate,
			"error", err.Error())
		return model.SaveLogResult{}, fmt.Errorf("failed to save emotion log: %w", err)
	}

	g.logger.Debug("Emotion log gateway: entry saved",
		"log_date", req.LogDate,
		"id", result.ID)
	return result, nil
}

// List returns the user's entries, newest first. A non-nil filter keeps only one month.
func (g *Gateway) List(ctx context.Context, filter *model.LogFilter) ([]model.EmotionLog, error) {
	var logs []model.EmotionLog
	if err := g.api.Do(ctx, http.MethodGet, "/logs", nil, &logs); err != nil {
		return nil, fmt.Errorf("failed to list emotion logs: %w", err)
	}

	if filter != nil {
		logs = emotion.FilterByMonth(logs, filter.Year, filter.Month)
	}
	if logs == nil {
		logs = []model.EmotionLog{}
	}
	return logs, nil
}

// Export asks the server to write a backup of all entries and returns its object key.
func (g *Gateway) Export(ctx context.Context) (model.ExportResult, error) {
	var result model.ExportResult
	if err := g.api.Do(ctx, http.MethodPost, "/exports", nil, &result); err != nil {
		return model.ExportResult{}, fmt.Errorf("failed to export emotion logs: %w", err)
	}

	g.logger.Info("Emotion log gateway: export created", "key", result.Key)
	return result, nil
}
