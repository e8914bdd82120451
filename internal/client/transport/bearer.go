package transport

import (
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenSource provides the current bearer token.
type TokenSource interface {
	Get() (string, bool, error)
}

// Bearer attaches the current token to every outgoing request.
// The token is read on each request, so a login or logout is visible to the very next call.
// Requests are never modified in place and responses are not inspected.
func Bearer(source TokenSource) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			token, ok, err := source.Get()
			if err != nil {
				if req.Body != nil {
					_ = req.Body.Close()
				}
				return nil, fmt.Errorf("failed to read bearer token: %w", err)
			}
			if !ok || token == "" {
				return next.RoundTrip(req)
			}

			authorized := req.Clone(req.Context())
			(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(authorized)

			return next.RoundTrip(authorized)
		})
	}
}
