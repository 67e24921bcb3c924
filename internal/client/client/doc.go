// Package client is the transport layer of the marketplace CLI.
//
// # Overview
//
// HTTPClient talks JSON to the marketplace REST API. Every request gets the
// current bearer token from the bound Session at dispatch time and an
// X-Request-ID header for log correlation. Responses are unwrapped from the
// {success, data, message, pagination} envelope.
//
// # Token refresh
//
// A 401 triggers one refresh cycle. The client keeps an explicit
// idle/refreshing state: the first request to fail while idle performs the
// refresh, requests failing meanwhile wait in a queue and are released with
// the new token (or the refresh error). Each request is re-issued at most
// once. A 401 for a request that carried an already replaced token is simply
// re-issued with the current one. Refresh and logout calls set
// Request.SkipAuthRefresh and never enter this path.
//
// # Error Handling
//
// Failures map to sentinel errors usable with errors.Is: ErrUnauthorized,
// ErrUnavailable, ErrRefreshFailed, ErrNoRefreshToken. Other server
// rejections are *APIError values carrying the HTTP status and message.
//
// # Local storage
//
// InitDatabase and RunMigrations prepare the SQLite file that holds the
// persisted session and wizard drafts.
package client
