package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmotionLevel_Valid(t *testing.T) {
	t.Parallel()

	for _, level := range EmotionLevels {
		assert.True(t, level.Valid(), level)
	}
	assert.False(t, EmotionLevel("").Valid())
	assert.False(t, EmotionLevel("VERY_GOOD").Valid())
}

func TestLogDate_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    LogDate
		wantErr bool
	}{
		{name: "date only", input: `"2024-05-01"`, want: NewLogDate(2024, time.May, 1)},
		{name: "rfc3339 timestamp", input: `"2024-05-01T00:00:00Z"`, want: NewLogDate(2024, time.May, 1)},
		{name: "not a date", input: `"yesterday"`, wantErr: true},
		{name: "not a string", input: `20240501`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got LogDate
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time))
		})
	}
}

func TestEmotionLog_MarshalJSON(t *testing.T) {
	t.Parallel()

	memo := "walk"
	entry := EmotionLog{
		ID:           7,
		LogDate:      NewLogDate(2024, time.March, 9),
		EmotionLevel: LevelGood,
		Memo:         &memo,
		RecordedAt:   time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2024-03-09", raw["logDate"])
	assert.Equal(t, "good", raw["emotionLevel"])
	assert.Equal(t, "walk", raw["memo"])
	assert.Contains(t, raw, "userId")

	entry.Memo = nil
	data, err = json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"memo":null`)
}

func TestLogDate_Scan(t *testing.T) {
	t.Parallel()

	want := NewLogDate(2024, time.May, 31)

	for _, src := range []any{
		time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC),
		"2024-05-31",
		[]byte("2024-05-31"),
	} {
		var d LogDate
		require.NoError(t, d.Scan(src))
		assert.Equal(t, want.String(), d.String())
	}

	var d LogDate
	assert.Error(t, d.Scan(42))
}
