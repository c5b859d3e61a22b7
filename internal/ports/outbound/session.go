// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"net/http"
)

// Keys under which the session credential and its companion values are kept.
const (
	TokenKey    = "token"
	UserIconKey = "userIcon"
)

// SessionKeys lists every key owned by a login session.
var SessionKeys = []string{TokenKey, UserIconKey}

// SessionStore is the client's local key/value storage for session state.
// Implementations must be safe for concurrent use.
type SessionStore interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Clear removes the given keys. Missing keys are not an error.
	Clear(ctx context.Context, keys ...string) error
}

// Authorizer supplies the Authorization header for authenticated calls
type Authorizer interface {
	AuthHeader(ctx context.Context) (http.Header, error)
}
