package transport

import (
	"net/http"
	"strings"
	"sync"
)

// Unauthorized calls a handler whenever a request that carried credentials is answered with 401.
// The handler receives the token the request was sent with. Requests sent without an
// Authorization header, such as a failed login, do not trigger it.
// The response is passed through untouched.
type Unauthorized struct {
	mu      sync.RWMutex
	handler func(token string)
}

// NewUnauthorized returns a stage with no handler registered.
func NewUnauthorized() *Unauthorized {
	return &Unauthorized{}
}

// Handle registers fn, replacing any previous handler.
func (u *Unauthorized) Handle(fn func(token string)) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.handler = fn
}

// Stage returns the RoundTripper stage.
func (u *Unauthorized) Stage(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.RoundTrip(req)
		if err != nil {
			return resp, err
		}

		header := req.Header.Get("Authorization")
		if resp.StatusCode == http.StatusUnauthorized && header != "" {
			u.mu.RLock()
			fn := u.handler
			u.mu.RUnlock()

			if fn != nil {
				fn(strings.TrimPrefix(header, "Bearer "))
			}
		}

		return resp, nil
	})
}
