package client

import (
	"context"
	"fmt"
)

type refreshOutcome struct {
	token string
	err   error
}

// recoverAuth is called after a request sent with sentWith failed with 401.
// It returns the token to re-issue the request with, or the error to fail it
// with.
//
// While a refresh is running every caller waits in c.waiters. The first caller
// to fail while idle becomes the refresher and releases all waiters with the
// same outcome once the refresh settles.
func (c *HTTPClient) recoverAuth(ctx context.Context, sentWith string, cause error) (string, error) {
	c.mu.Lock()

	if c.refreshing {
		ch := make(chan refreshOutcome, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case out := <-ch:
			if out.err != nil {
				return "", fmt.Errorf("%w (%w)", cause, out.err)
			}
			return out.token, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	sess := c.session
	if sess == nil {
		c.mu.Unlock()
		return "", cause
	}

	// A late 401 from a request that carried a token already replaced by a
	// finished refresh: retry with the current token instead of refreshing
	// again.
	if current := sess.AccessToken(); current != "" && current != sentWith {
		c.mu.Unlock()
		return current, nil
	}

	if sess.RefreshToken() == "" {
		c.mu.Unlock()
		c.log.Info(ctx, "no refresh token, logging out")
		sess.ForceLogout(context.WithoutCancel(ctx))
		return "", cause
	}

	c.refreshing = true
	c.mu.Unlock()

	c.log.Debug(ctx, "access token rejected, refreshing")

	// The refresh serves every queued request, so it must not die with the
	// caller that happened to start it.
	out := refreshOutcome{}
	if err := sess.RefreshAccessToken(context.WithoutCancel(ctx)); err != nil {
		c.log.Warn(ctx, "session refresh failed", "error", err)
		out.err = fmt.Errorf("%w: %w", ErrRefreshFailed, err)
		sess.ForceLogout(context.WithoutCancel(ctx))
	} else {
		out.token = sess.AccessToken()
	}

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.mu.Unlock()

	for _, w := range waiters {
		w <- out
	}

	if out.err != nil {
		return "", fmt.Errorf("%w (%w)", cause, out.err)
	}
	return out.token, nil
}
