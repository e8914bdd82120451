// Package client wires the credential store, session state, transport chain, navigation and
// gateways into one signed-in/signed-out client of the emotion log API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dtroode/emotion-log/internal/client/api"
	"github.com/dtroode/emotion-log/internal/client/auth"
	"github.com/dtroode/emotion-log/internal/client/credential"
	"github.com/dtroode/emotion-log/internal/client/emotionlog"
	"github.com/dtroode/emotion-log/internal/client/navigation"
	"github.com/dtroode/emotion-log/internal/client/session"
	"github.com/dtroode/emotion-log/internal/client/transport"
	"github.com/dtroode/emotion-log/internal/logger"
	"github.com/dtroode/emotion-log/internal/validation"
)

// Options configures the HTTP side of the client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Transport is the innermost RoundTripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client is the assembled client. Its fields are shared, not copied.
type Client struct {
	Store  credential.Store
	State  *session.State
	Router *navigation.Router
	Guard  *navigation.Guard
	Auth   *auth.Gateway
	Logs   *emotionlog.Gateway
	API    *api.Client
}

// New assembles a client around store. The session starts authenticated iff store holds a token;
// call Auth.Restore to validate it.
func New(opts Options, store credential.Store, logger *logger.Logger) (*Client, error) {
	_, hasToken, err := store.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read credential store: %w", err)
	}

	state := session.New(hasToken)

	initial := navigation.RouteLogin
	if hasToken {
		initial = navigation.RouteLogs
	}
	router := navigation.NewRouter(initial)
	guard := navigation.NewGuard(state, router, logger)
	router.SetGuard(guard)

	unauthorized := transport.NewUnauthorized()
	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: transport.Chain(opts.Transport,
			transport.Logging(logger),
			transport.Bearer(store),
			unauthorized.Stage,
		),
	}
	apiClient := api.New(opts.BaseURL, httpClient)
	validator := validation.New()

	authGateway := auth.NewGateway(apiClient, store, state, router, validator, logger)
	unauthorized.Handle(authGateway.HandleUnauthorized)

	return &Client{
		Store:  store,
		State:  state,
		Router: router,
		Guard:  guard,
		Auth:   authGateway,
		Logs:   emotionlog.NewGateway(apiClient, validator, logger),
		API:    apiClient,
	}, nil
}

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status string `json:"status"`
}

// Health checks that the API is reachable.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	if err := c.API.Do(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return HealthStatus{}, fmt.Errorf("failed to check health: %w", err)
	}
	return status, nil
}
