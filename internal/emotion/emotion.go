// Package emotion holds the month view and chart aggregations over emotion log entries.
package emotion

import (
	"time"

	"github.com/dtroode/emotion-log/internal/model"
)

// FilterByMonth returns the entries whose log date falls in the given month, preserving order.
func FilterByMonth(logs []model.EmotionLog, year int, month time.Month) []model.EmotionLog {
	filtered := make([]model.EmotionLog, 0, len(logs))
	for _, entry := range logs {
		if entry.LogDate.Year() == year && entry.LogDate.Month() == month {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// ShiftMonth returns the first day of the month offset months away from t.
func ShiftMonth(t time.Time, offset int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, t.Location())
}

// Count is one bar of the chart.
type Count struct {
	Level model.EmotionLevel
	Count int
}

// CountByLevel counts entries per level in model.EmotionLevels order.
// Levels with no entries and entries with an unknown level are left out.
func CountByLevel(logs []model.EmotionLog) []Count {
	totals := make(map[model.EmotionLevel]int, len(model.EmotionLevels))
	for _, entry := range logs {
		totals[entry.EmotionLevel]++
	}

	counts := make([]Count, 0, len(model.EmotionLevels))
	for _, level := range model.EmotionLevels {
		if n := totals[level]; n > 0 {
			counts = append(counts, Count{Level: level, Count: n})
		}
	}
	return counts
}

type display struct {
	label string
	emoji string
}

var displays = map[model.EmotionLevel]display{
	model.LevelVeryGood: {label: "Great", emoji: "😄"},
	model.LevelGood:     {label: "Good", emoji: "🙂"},
	model.LevelNeutral:  {label: "Neutral", emoji: "😐"},
	model.LevelBad:      {label: "Bad", emoji: "🙁"},
	model.LevelVeryBad:  {label: "Awful", emoji: "😞"},
}

// Label returns the display name of a level, or "Unknown".
func Label(level model.EmotionLevel) string {
	if d, ok := displays[level]; ok {
		return d.label
	}
	return "Unknown"
}

// Emoji returns the display symbol of a level.
func Emoji(level model.EmotionLevel) string {
	if d, ok := displays[level]; ok {
		return d.emoji
	}
	return "🤷"
}
