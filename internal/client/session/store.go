package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/logging"
)

// AuthAPI is the subset of the auth endpoints the store drives.
type AuthAPI interface {
	Me(ctx context.Context) (*models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Tokens, error)
	Logout(ctx context.Context) error
}

// Persister stores the durable session subset. Load returns (nil, nil) when
// nothing has been saved yet.
type Persister interface {
	Load(ctx context.Context) (*Persisted, error)
	Save(ctx context.Context, p Persisted) error
}

var errEmptyTokens = errors.New("refresh returned no access token")

type Store struct {
	api       AuthAPI
	persister Persister
	log       logging.Logger

	mu        sync.Mutex
	state     State
	validated bool

	// serializes writes so the last save always carries the latest state
	saveMu sync.Mutex
}

// NewStore creates an anonymous session. persister may be nil, in which case
// nothing survives the process.
func NewStore(api AuthAPI, persister Persister, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{api: api, persister: persister, log: log}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RefreshToken
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsAuthenticated
}

func (s *Store) User() *models.User {
	return s.Snapshot().User
}

// Validated reports whether the server has confirmed the current tokens in
// this process. A session restored from disk is unvalidated until CheckAuth
// succeeds.
func (s *Store) Validated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validated
}

func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.state.Err = msg
	s.mu.Unlock()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.state.IsLoading = v
	s.mu.Unlock()
}

// Login commits a fresh token pair and user in one step. The session counts
// as authenticated only when an access token is present.
func (s *Store) Login(ctx context.Context, tokens models.Tokens, user *models.User) {
	authed := tokens.AccessToken != ""
	s.mu.Lock()
	s.state = State{
		User:            user,
		AccessToken:     tokens.AccessToken,
		RefreshToken:    tokens.RefreshToken,
		IsAuthenticated: authed,
	}
	s.validated = authed
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "user_id", userID(user))
	s.save(ctx)
}

// Logout asks the server to revoke the session and then clears local state.
// The server call is best effort and skipped when there is no access token.
func (s *Store) Logout(ctx context.Context) {
	if s.AccessToken() != "" && s.api != nil {
		if err := s.api.Logout(ctx); err != nil {
			s.log.Warn(ctx, "server logout failed", "error", err)
		}
	}

	s.mu.Lock()
	s.state = State{}
	s.validated = false
	s.mu.Unlock()

	s.save(ctx)
}

// ForceLogout drops the session after an unrecoverable auth failure.
func (s *Store) ForceLogout(ctx context.Context) {
	if s.IsAuthenticated() {
		s.log.Info(ctx, "session ended by the server")
	}
	s.Logout(ctx)
}

// CheckAuth validates the stored tokens against /auth/me. With no access
// token it returns false without any network call. If /auth/me fails, one
// refresh is attempted and its outcome decides.
func (s *Store) CheckAuth(ctx context.Context) bool {
	if s.AccessToken() == "" {
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.api.Me(ctx)
	if err == nil {
		s.mu.Lock()
		s.state.User = user
		s.state.IsAuthenticated = true
		s.state.Err = ""
		s.validated = true
		s.mu.Unlock()
		s.save(ctx)
		return true
	}

	s.log.Warn(ctx, "auth check failed", "error", err)
	return s.RefreshAccessToken(ctx) == nil
}

// RefreshAccessToken trades the refresh token for a new pair. Without a
// refresh token it fails with client.ErrNoRefreshToken and makes no call. A
// rejected refresh ends the session.
func (s *Store) RefreshAccessToken(ctx context.Context) error {
	rt := s.RefreshToken()
	if rt == "" {
		return client.ErrNoRefreshToken
	}

	tokens, err := s.api.Refresh(ctx, rt)
	if err == nil && (tokens == nil || tokens.AccessToken == "") {
		err = errEmptyTokens
	}
	if err != nil {
		s.log.Warn(ctx, "token refresh failed", "error", err)
		s.Logout(ctx)
		return fmt.Errorf("%w: %w", client.ErrRefreshFailed, err)
	}

	s.mu.Lock()
	s.state.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		s.state.RefreshToken = tokens.RefreshToken
	}
	s.state.IsAuthenticated = true
	s.validated = true
	s.mu.Unlock()

	s.log.Debug(ctx, "access token refreshed")
	s.save(ctx)
	return nil
}

// Restore loads the persisted session. A broken record leaves the store
// anonymous and is reported to the caller.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	p, err := s.persister.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "cannot restore session", "error", err)
		return err
	}
	if p == nil {
		return nil
	}

	s.mu.Lock()
	s.state = restore(*p)
	s.validated = false
	s.mu.Unlock()
	return nil
}

func (s *Store) save(ctx context.Context) {
	if s.persister == nil {
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	p := Persist(s.state)
	s.mu.Unlock()

	// a canceled command must not leave a stale session on disk
	if err := s.persister.Save(context.WithoutCancel(ctx), p); err != nil {
		s.log.Error(ctx, "failed to persist session", "error", err)
	}
}

func userID(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
