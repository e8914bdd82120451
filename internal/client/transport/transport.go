// Package transport holds the http.RoundTripper stages every API call of the client goes through.
package transport

import (
	"net/http"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Stage wraps a RoundTripper with additional behaviour.
type Stage func(next http.RoundTripper) http.RoundTripper

// Chain wraps base with stages. The first stage is the outermost one.
func Chain(base http.RoundTripper, stages ...Stage) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(stages) - 1; i >= 0; i-- {
		rt = stages[i](rt)
	}
	return rt
}
