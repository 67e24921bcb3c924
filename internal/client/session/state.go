// Package session holds the authentication state of the CLI: the signed-in
// user and the bearer token pair. The Store is the single source of truth;
// the HTTP client reads tokens from it and calls back into it to refresh or
// drop the session.
//
// Only a subset of the state survives restarts. Persist defines that subset;
// transient flags (loading, last error) are never written to disk.
package session

import "github.com/akhmads/adscli/internal/client/models"

// State is the full in-memory session.
type State struct {
	User            *models.User
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool
	IsLoading       bool
	Err             string
}

// Persisted is the durable part of State.
type Persisted struct {
	User            *models.User `json:"user"`
	AccessToken     string       `json:"accessToken"`
	RefreshToken    string       `json:"refreshToken"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Persist maps the full state onto what is written to storage.
func Persist(s State) Persisted {
	var user *models.User
	if s.User != nil {
		u := *s.User
		user = &u
	}
	return Persisted{
		User:            user,
		AccessToken:     s.AccessToken,
		RefreshToken:    s.RefreshToken,
		IsAuthenticated: s.IsAuthenticated,
	}
}

// restore is the inverse of Persist; transient flags start zeroed.
func restore(p Persisted) State {
	return State{
		User:            p.User,
		AccessToken:     p.AccessToken,
		RefreshToken:    p.RefreshToken,
		IsAuthenticated: p.IsAuthenticated && p.AccessToken != "",
	}
}
