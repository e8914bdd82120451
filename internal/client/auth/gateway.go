// Package auth drives the client's sign-up, login and logout and keeps the token store and the
// session state consistent with each other.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/client/credential"
	"github.com/dtroode/emotion-log/internal/client/navigation"
	"github.com/dtroode/emotion-log/internal/client/session"
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

// Gateway is the only writer of the credential store.
//
// After every store mutation the session state matches the store: it becomes authenticated only
// once a Put succeeded, and becomes unauthenticated before the token is cleared.
type Gateway struct {
	api       Requester
	store     credential.Store
	state     *session.State
	nav       navigation.Navigator
	validator Validator
	logger    *logger.Logger

	// mu serializes store mutations with the matching state change.
	mu sync.Mutex
	wg sync.WaitGroup
}

// NewGateway creates a Gateway. nav receives the redirect to the login route after logout.
func NewGateway(
	api Requester,
	store credential.Store,
	state *session.State,
	nav navigation.Navigator,
	validator Validator,
	logger *logger.Logger,
) *Gateway {
	return &Gateway{
		api:       api,
		store:     store,
		state:     state,
		nav:       nav,
		validator: validator,
		logger:    logger,
	}
}

// SignUp registers a new account. It does not log in.
func (g *Gateway) SignUp(ctx context.Context, name, email, password string) error {
	g.logger.Debug("Auth gateway: starting sign up", "email", email)

	req := model.SignUpRequest{Name: name, Email: email, Password: password}
	if err := g.validator.Validate(req); err != nil {
		return err
	}

	if err := g.api.Do(ctx, http.MethodPost, "/signup", req, nil); err != nil {
		g.logger.Info("Auth gateway: sign up failed",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to sign up: %w", err)
	}

	g.logger.Info("Auth gateway: signed up", "email", email)
	return nil
}

// Login exchanges credentials for a token, stores it and marks the session authenticated.
// The profile is then fetched in the background; use WaitProfile to wait for it.
// A rejected login leaves the store and the state untouched.
func (g *Gateway) Login(ctx context.Context, email, password string) error {
	g.logger.Debug("Auth gateway: starting login", "email", email)

	req := model.LoginRequest{Email: email, Password: password}
	if err := g.validator.Validate(req); err != nil {
		return err
	}

	var resp model.LoginResponse
	if err := g.api.Do(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		if errors.Is(err, apierrors.ErrUnauthorized) || errors.Is(err, apierrors.ErrInvalidCredentials) {
			g.logger.Info("Auth gateway: invalid credentials", "email", email)
			return apierrors.NewErrInvalidCredentials()
		}
		g.logger.Warn("Auth gateway: login request failed",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to login: %w", err)
	}
	if resp.Token == "" {
		return apierrors.NewErrInternal("login response has no token")
	}

	g.mu.Lock()
	if err := g.store.Put(resp.Token); err != nil {
		g.mu.Unlock()
		g.logger.Error("Auth gateway: failed to store token", "error", err.Error())
		return fmt.Errorf("failed to store token: %w", err)
	}
	epoch := g.state.Authenticate()
	g.mu.Unlock()

	g.logger.Info("Auth gateway: logged in", "email", email)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.loadProfile(context.WithoutCancel(ctx), epoch)
	}()

	return nil
}

// WaitProfile blocks until every background profile fetch has finished.
func (g *Gateway) WaitProfile() {
	g.wg.Wait()
}

// Restore loads the profile for a token left by a previous run. A failure logs out.
func (g *Gateway) Restore(ctx context.Context) error {
	if !g.state.Authenticated() {
		return nil
	}

	g.logger.Debug("Auth gateway: restoring session")
	return g.loadProfile(ctx, g.state.Epoch())
}

// Logout clears the session and the token and redirects to the login route.
// Calling it again, or while logged out, does nothing.
func (g *Gateway) Logout() {
	g.mu.Lock()
	done := g.logoutLocked()
	g.mu.Unlock()

	if done && g.nav != nil {
		g.nav.Navigate(navigation.RouteLogin)
	}
}

// HandleUnauthorized reacts to a 401 on a request that was sent with token. It logs out only if
// token is still the stored one; a rejection of a token that was already replaced or cleared
// leaves the current session alone.
func (g *Gateway) HandleUnauthorized(token string) {
	g.mu.Lock()
	current, ok, err := g.store.Get()
	if err == nil && (!ok || current != token) {
		g.mu.Unlock()
		g.logger.Debug("Auth gateway: ignoring 401 for a token that is no longer stored")
		return
	}

	g.logger.Info("Auth gateway: request was rejected as unauthorized, logging out")
	done := g.logoutLocked()
	g.mu.Unlock()

	if done && g.nav != nil {
		g.nav.Navigate(navigation.RouteLogin)
	}
}

// GetProfile fetches the signed-in user and caches it in the session state, unless the session
// changed while the request was in flight.
func (g *Gateway) GetProfile(ctx context.Context) (model.Profile, error) {
	epoch := g.state.Epoch()

	var profile model.Profile
	if err := g.api.Do(ctx, http.MethodGet, "/profile", nil, &profile); err != nil {
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	if !g.state.SetProfileAt(epoch, &profile) {
		g.logger.Debug("Auth gateway: not caching profile of a finished session")
	}
	return profile, nil
}

// loadProfile fetches the profile for the given epoch. Any failure logs out, unless the session has
// moved on to another epoch in the meantime.
func (g *Gateway) loadProfile(ctx context.Context, epoch uint64) error {
	var profile model.Profile
	err := g.api.Do(ctx, http.MethodGet, "/profile", nil, &profile)
	if err != nil {
		g.logger.Warn("Auth gateway: failed to load profile",
			"error", err.Error())

		g.mu.Lock()
		done := false
		if g.state.Authenticated() && g.state.Epoch() == epoch {
			done = g.logoutLocked()
		}
		g.mu.Unlock()

		if done && g.nav != nil {
			g.nav.Navigate(navigation.RouteLogin)
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if !g.state.SetProfileAt(epoch, &profile) {
		g.logger.Debug("Auth gateway: discarding profile of a finished session")
		return nil
	}

	g.logger.Debug("Auth gateway: profile loaded", "user_id", profile.ID)
	return nil
}

// logoutLocked must be called with mu held. It reports whether anything was cleared.
func (g *Gateway) logoutLocked() bool {
	_, hasToken, err := g.store.Get()
	if err != nil {
		g.logger.Warn("Auth gateway: failed to read token during logout", "error", err.Error())
		hasToken = true
	}
	if !g.state.Authenticated() && !hasToken {
		return false
	}

	g.state.SetAuthenticated(false)
	g.state.SetProfile(nil)

	if err := g.store.Clear(); err != nil {
		g.logger.Error("Auth gateway: failed to clear token", "error", err.Error())
	}

	g.logger.Info("Auth gateway: logged out")
	return true
}
