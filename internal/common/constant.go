// Package common contains shared constants and sentinel errors used across
// the marketplace client components.
package common

const (
	// AuthorizationHeaderName carries the bearer access token on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates a request with client log lines.
	RequestIDHeaderName = "X-Request-ID"

	// SessionStorageKey is the metadata key the persisted session lives under.
	SessionStorageKey = "auth-storage"

	// DefaultAPIBaseURL is the production marketplace API root.
	DefaultAPIBaseURL = "https://api.akhmads.net/api/v1"
)
