// Package login runs the Telegram login handshake: it asks the backend for a
// one-time login token, then polls the status endpoint until the user
// confirms in the bot, the token expires, or the attempts run out.
package login

import (
	"context"
	"errors"
	"time"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/logging"
)

const (
	DefaultInterval    = 2 * time.Second
	DefaultMaxAttempts = 150
)

var (
	ErrLoginExpired            = errors.New("login expired, please try again")
	ErrIncompleteAuthorization = errors.New("authorization response is missing tokens or user")
)

type LoginAPI interface {
	InitiateLogin(ctx context.Context) (*models.LoginChallenge, error)
	LoginStatus(ctx context.Context, loginToken string) (*models.LoginStatus, error)
}

// Committer receives the session once the login is authorized.
type Committer interface {
	Login(ctx context.Context, tokens models.Tokens, user *models.User)
}

type Flow struct {
	api         LoginAPI
	session     Committer
	interval    time.Duration
	maxAttempts int
	log         logging.Logger

	// OnAttempt, when set, is called before every status call.
	OnAttempt func(n, max int)
}

// NewFlow returns a flow polling every interval at most maxAttempts times.
// Non-positive values fall back to the defaults.
func NewFlow(api LoginAPI, session Committer, interval time.Duration, maxAttempts int, log logging.Logger) *Flow {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Flow{
		api:         api,
		session:     session,
		interval:    interval,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

func (f *Flow) Initiate(ctx context.Context) (*models.LoginChallenge, error) {
	ch, err := f.api.InitiateLogin(ctx)
	if err != nil {
		return nil, err
	}
	f.log.Info(ctx, "login initiated", "expires_in", ch.ExpiresIn)
	return ch, nil
}

// Await polls the status of loginToken once per interval. A failed poll is
// logged and counts as an attempt. On authorization the tokens and user are
// committed to the session before Await returns.
func (f *Flow) Await(ctx context.Context, loginToken string) (*models.User, error) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		if f.OnAttempt != nil {
			f.OnAttempt(attempt, f.maxAttempts)
		}

		st, err := f.api.LoginStatus(ctx, loginToken)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.log.Warn(ctx, "login status poll failed", "attempt", attempt, "error", err)
		case st.Expired:
			return nil, ErrLoginExpired
		case st.Authorized:
			if st.Tokens == nil || st.Tokens.AccessToken == "" || st.User == nil {
				return nil, ErrIncompleteAuthorization
			}
			f.session.Login(ctx, *st.Tokens, st.User)
			return st.User, nil
		}

		if attempt >= f.maxAttempts {
			f.log.Info(ctx, "login not confirmed in time", "attempts", attempt)
			return nil, ErrLoginExpired
		}
	}
}
