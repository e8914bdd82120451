package model

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EmotionLogStore defines persistence operations for emotion log entries.
type EmotionLogStore interface {
	// Upsert creates the entry for (UserID, LogDate) or overwrites the existing one.
	Upsert(ctx context.Context, entry EmotionLog) (EmotionLog, error)
	// ListByUser returns all entries of a user, newest log date first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]EmotionLog, error)
}

// EmotionLevel is the daily rating. The set of levels is closed.
type EmotionLevel string

const (
	LevelVeryGood EmotionLevel = "very_good"
	LevelGood     EmotionLevel = "good"
	LevelNeutral  EmotionLevel = "neutral"
	LevelBad      EmotionLevel = "bad"
	LevelVeryBad  EmotionLevel = "very_bad"
)

// EmotionLevels lists every level from best to worst.
var EmotionLevels = []EmotionLevel{LevelVeryGood, LevelGood, LevelNeutral, LevelBad, LevelVeryBad}

// Valid reports whether l is one of EmotionLevels.
func (l EmotionLevel) Valid() bool {
	for _, level := range EmotionLevels {
		if l == level {
			return true
		}
	}
	return false
}

// EmotionLog is one day's entry. The server owns it; an overwrite may keep or replace ID.
type EmotionLog struct {
	ID           int64        `json:"id"`
	UserID       uuid.UUID    `json:"userId"`
	LogDate      LogDate      `json:"logDate"`
	EmotionLevel EmotionLevel `json:"emotionLevel"`
	Memo         *string      `json:"memo"`
	RecordedAt   time.Time    `json:"recordedAt"`
}

// SaveLogRequest is the body of POST /api/logs. The owner is the authenticated caller.
type SaveLogRequest struct {
	LogDate      string       `json:"logDate" validate:"required,datetime=2006-01-02"`
	EmotionLevel EmotionLevel `json:"emotionLevel" validate:"required,oneof=very_good good neutral bad very_bad"`
	Memo         *string      `json:"memo,omitempty" validate:"omitempty,max=1000"`
}

// SaveLogResult is the body returned by POST /api/logs.
type SaveLogResult struct {
	ID int64 `json:"id"`
}

// LogFilter narrows a listing to one calendar month.
type LogFilter struct {
	Year  int
	Month time.Month
}

const logDateLayout = "2006-01-02"

// LogDate is a calendar date without a time component, encoded as "2006-01-02".
type LogDate struct {
	time.Time
}

// NewLogDate returns the date y-m-d.
func NewLogDate(y int, m time.Month, d int) LogDate {
	return LogDate{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// LogDateOf returns the calendar date of t in t's location.
func LogDateOf(t time.Time) LogDate {
	return NewLogDate(t.Year(), t.Month(), t.Day())
}

// ParseLogDate parses a "2006-01-02" string.
func ParseLogDate(s string) (LogDate, error) {
	t, err := time.Parse(logDateLayout, s)
	if err != nil {
		return LogDate{}, fmt.Errorf("failed to parse log date %q: %w", s, err)
	}
	return LogDate{Time: t}, nil
}

// String implements fmt.Stringer.
func (d LogDate) String() string {
	return d.Format(logDateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d LogDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. Full RFC 3339 timestamps are truncated to their date.
func (d *LogDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("log date must be a string: %w", err)
	}
	if len(s) > len(logDateLayout) {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("failed to parse log date %q: %w", s, err)
		}
		*d = LogDateOf(t)
		return nil
	}
	parsed, err := ParseLogDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *LogDate) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = LogDateOf(v)
		return nil
	case string:
		parsed, err := ParseLogDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into LogDate", src)
	}
}

// Value implements driver.Valuer.
func (d LogDate) Value() (driver.Value, error) {
	return d.Time, nil
}
