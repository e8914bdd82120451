// Package credential persists the bearer token of the signed-in user.
//
// There is at most one token per device. Every operation either completes or fails as a whole, and a
// Get after Clear reports the token as absent. Tokens are stored as plain bytes: anyone with read
// access to the data directory can read them.
package credential

// Store keeps the current bearer token.
type Store interface {
	// Put replaces the stored token.
	Put(token string) error
	// Get returns the stored token and whether one is present.
	Get() (string, bool, error)
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

// TokenKey is the key the token is stored under.
const TokenKey = "auth_token"
