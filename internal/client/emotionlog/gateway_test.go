package emotionlog

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/model"
	"github.com/dtroode/emotion-log/internal/testutil"
	"github.com/dtroode/emotion-log/internal/validation"
)

type mockRequester struct {
	mock.Mock
}

func (m *mockRequester) Do(ctx context.Context, method, path string, body, out any) error {
	args := m.Called(ctx, method, path, body, out)
	return args.Error(0)
}

func newGateway() (*Gateway, *mockRequester) {
	api := &mockRequester{}
	return NewGateway(api, validation.New(), testutil.MakeNoopLogger()), api
}

func TestGateway_Save(t *testing.T) {
	t.Parallel()

	memo := "good sleep"
	tests := []struct {
		name     string
		req      model.SaveLogRequest
		apiErr   error
		callsAPI bool
		wantID   int64
		wantKind apierrors.Kind
	}{
		{
			name:     "saved",
			req:      model.SaveLogRequest{LogDate: "2024-05-01", EmotionLevel: model.LevelGood, Memo: &memo},
			callsAPI: true,
			wantID:   1,
		},
		{
			name:     "unknown level rejected locally",
			req:      model.SaveLogRequest{LogDate: "2024-05-01", EmotionLevel: "furious"},
			wantKind: apierrors.KindValidation,
		},
		{
			name:     "unauthorized passes through",
			req:      model.SaveLogRequest{LogDate: "2024-05-01", EmotionLevel: model.LevelBad},
			apiErr:   apierrors.FromStatus(http.StatusUnauthorized, "", "", nil),
			callsAPI: true,
			wantKind: apierrors.KindUnauthorized,
		},
		{
			name:     "network",
			req:      model.SaveLogRequest{LogDate: "2024-05-01", EmotionLevel: model.LevelBad},
			apiErr:   apierrors.NewErrNetwork(errors.New("refused")),
			callsAPI: true,
			wantKind: apierrors.KindNetwork,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gw, api := newGateway()
			if tt.callsAPI {
				api.On("Do", mock.Anything, http.MethodPost, "/logs", tt.req, mock.Anything).
					Run(func(args mock.Arguments) {
						args.Get(4).(*model.SaveLogResult).ID = tt.wantID
					}).
					Return(tt.apiErr).Once()
			}

			res, err := gw.Save(context.Background(), tt.req)

			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, apierrors.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, res.ID)
			}
			api.AssertExpectations(t)
		})
	}
}

func TestGateway_List(t *testing.T) {
	t.Parallel()

	logs := []model.EmotionLog{
		{ID: 3, LogDate: model.NewLogDate(2024, time.June, 2), EmotionLevel: model.LevelGood},
		{ID: 2, LogDate: model.NewLogDate(2024, time.May, 20), EmotionLevel: model.LevelBad},
		{ID: 1, LogDate: model.NewLogDate(2024, time.May, 1), EmotionLevel: model.LevelNeutral},
	}
	respond := func(args mock.Arguments) {
		*args.Get(4).(*[]model.EmotionLog) = append([]model.EmotionLog(nil), logs...)
	}

	t.Run("all", func(t *testing.T) {
		t.Parallel()

		gw, api := newGateway()
		api.On("Do", mock.Anything, http.MethodGet, "/logs", nil, mock.Anything).Run(respond).Return(nil).Once()

		got, err := gw.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("month filter is applied locally", func(t *testing.T) {
		t.Parallel()

		gw, api := newGateway()
		api.On("Do", mock.Anything, http.MethodGet, "/logs", nil, mock.Anything).Run(respond).Return(nil).Once()

		got, err := gw.List(context.Background(), &model.LogFilter{Year: 2024, Month: time.May})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[0].ID)
		assert.Equal(t, int64(1), got[1].ID)
	})

	t.Run("empty list is never nil", func(t *testing.T) {
		t.Parallel()

		gw, api := newGateway()
		api.On("Do", mock.Anything, http.MethodGet, "/logs", nil, mock.Anything).Return(nil).Once()

		got, err := gw.List(context.Background(), nil)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		gw, api := newGateway()
		api.On("Do", mock.Anything, http.MethodGet, "/logs", nil, mock.Anything).
			Return(apierrors.FromStatus(http.StatusUnauthorized, "", "", nil)).Once()

		_, err := gw.List(context.Background(), nil)
		assert.True(t, errors.Is(err, apierrors.ErrUnauthorized))
	})
}

func TestGateway_Export(t *testing.T) {
	t.Parallel()

	gw, api := newGateway()
	api.On("Do", mock.Anything, http.MethodPost, "/exports", nil, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(4).(*model.ExportResult).Key = "exports/u1/20240501T000000Z.json"
		}).Return(nil).Once()

	res, err := gw.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "exports/u1/20240501T000000Z.json", res.Key)
}
