// Package apitest runs the real API handler tree over in-memory repositories.
package apitest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpcontext "github.com/dtroode/emotion-log/internal/api/http/context"
	"github.com/dtroode/emotion-log/internal/api/http/router"
	"github.com/dtroode/emotion-log/internal/model"
	"github.com/dtroode/emotion-log/internal/repository/memory"
	"github.com/dtroode/emotion-log/internal/service"
	"github.com/dtroode/emotion-log/internal/testutil"
	"github.com/dtroode/emotion-log/internal/token"
	"github.com/dtroode/emotion-log/internal/validation"
)

// Options customise the test server.
type Options struct {
	TokenTTL   time.Duration
	Storage    model.Storage
	LoginRate  float64
	LoginBurst int
}

// NewServer starts an API server and closes it when the test ends. Its URL has no /api suffix.
func NewServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()

	if opts.TokenTTL == 0 {
		opts.TokenTTL = time.Hour
	}
	if opts.LoginRate == 0 {
		opts.LoginRate = 1000
		opts.LoginBurst = 1000
	}

	lg := testutil.MakeNoopLogger()

	logs := memory.NewEmotionLogRepository()
	auth, err := service.NewAuth(memory.NewUserRepository(), token.NewJWT("test-secret", opts.TokenTTL), bcrypt.MinCost, lg)
	require.NoError(t, err)

	services := router.Services{
		Auth:       auth,
		EmotionLog: service.NewEmotionLog(logs, lg),
	}
	if opts.Storage != nil {
		services.Export = service.NewExport(logs, opts.Storage, lg)
	}

	r := router.New(services, router.Options{
		AllowedOrigins: []string{"http://localhost:4200"},
		LoginRate:      opts.LoginRate,
		LoginBurst:     opts.LoginBurst,
	}, validation.New(), httpcontext.NewManager(), lg)

	srv := httptest.NewServer(r.Register())
	t.Cleanup(srv.Close)
	return srv
}
