package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/emotion-log/internal/apierrors"
	servermocks "github.com/dtroode/emotion-log/internal/mocks"
	"github.com/dtroode/emotion-log/internal/model"
	"github.com/dtroode/emotion-log/internal/testutil"
)

func TestExport_Create(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	fixed := time.Date(2024, time.May, 1, 12, 30, 0, 0, time.UTC)
	entries := []model.EmotionLog{{ID: 1, UserID: owner, LogDate: model.NewLogDate(2024, time.May, 1), EmotionLevel: model.LevelGood}}

	logs := &servermocks.EmotionLogStore{}
	logs.On("ListByUser", mock.Anything, owner).Return(entries, nil)

	var stored []byte
	storage := &servermocks.Storage{}
	storage.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "exports/"+owner.String()+"/20240501T123000") && strings.HasSuffix(key, ".json")
	}), mock.Anything, "application/json").
		Run(func(args mock.Arguments) { stored = args.Get(2).([]byte) }).
		Return(nil)

	svc := NewExport(logs, storage, testutil.MakeNoopLogger())
	svc.now = func() time.Time { return fixed }

	res, err := svc.Create(context.Background(), owner)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "exports/"+owner.String()+"/"))

	var doc ExportDocument
	require.NoError(t, json.Unmarshal(stored, &doc))
	assert.Equal(t, owner, doc.UserID)
	require.Len(t, doc.Logs, 1)
	assert.Equal(t, model.LevelGood, doc.Logs[0].EmotionLevel)
}

func TestExport_Create_StorageFailure(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	logs := &servermocks.EmotionLogStore{}
	logs.On("ListByUser", mock.Anything, owner).Return([]model.EmotionLog{}, nil)
	storage := &servermocks.Storage{}
	storage.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone"))

	_, err := NewExport(logs, storage, testutil.MakeNoopLogger()).Create(context.Background(), owner)
	assert.ErrorContains(t, err, "bucket gone")
}

func TestExport_Open(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	own := "exports/" + owner.String() + "/1.json"

	storage := &servermocks.Storage{}
	storage.On("Get", mock.Anything, own).Return(io.NopCloser(strings.NewReader("{}")), nil)
	storage.On("Get", mock.Anything, "exports/"+owner.String()+"/missing.json").Return(nil, model.ErrNotFound)

	svc := NewExport(&servermocks.EmotionLogStore{}, storage, testutil.MakeNoopLogger())

	rc, err := svc.Open(context.Background(), owner, own)
	require.NoError(t, err)
	_ = rc.Close()

	_, err = svc.Open(context.Background(), owner, "exports/"+uuid.NewString()+"/1.json")
	assert.True(t, errors.Is(err, apierrors.ErrNotFound))

	_, err = svc.Open(context.Background(), owner, "exports/"+owner.String()+"/../x.json")
	assert.True(t, errors.Is(err, apierrors.ErrNotFound))

	_, err = svc.Open(context.Background(), owner, "exports/"+owner.String()+"/missing.json")
	assert.True(t, errors.Is(err, apierrors.ErrNotFound))
}
