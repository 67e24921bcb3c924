package client

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stormServer answers 401 to every request carrying the old token, but only
// after n such requests have arrived, so they all fail at the same time.
func stormServer(n int, valid string) (http.Handler, *atomic.Int32, *atomic.Int32) {
	var (
		arrived  atomic.Int32
		served   atomic.Int32
		released = make(chan struct{})
		once     sync.Once
	)
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer "+valid {
			served.Add(1)
			writeJSON(w, 200, `{"success":true,"data":{"ok":true}}`)
			return
		}
		if int(arrived.Add(1)) >= n {
			once.Do(func() { close(released) })
		}
		select {
		case <-released:
		case <-time.After(2 * time.Second):
		}
		writeJSON(w, 401, `{"success":false,"message":"token expired"}`)
	})
	return h, &arrived, &served
}

func TestRefreshStorm_ExactlyOneRefreshAndAllSucceed(t *testing.T) {
	const n = 8
	h, arrived, served := stormServer(n, "new")
	sess := &fakeSession{access: "old", refresh: "r1", newAccess: "new", delay: 50 * time.Millisecond}
	c := newTestClient(t, h, sess)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out struct {
				OK bool `json:"ok"`
			}
			errs[i] = c.Get(context.Background(), "/ads", nil, &out)
			if errs[i] == nil && !out.OK {
				errs[i] = assert.AnError
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "request %d", i)
	}
	assert.Equal(t, int32(1), sess.refreshCalls.Load())
	assert.Equal(t, int32(0), sess.logoutCalls.Load())
	assert.Equal(t, int32(n), arrived.Load())
	assert.Equal(t, int32(n), served.Load())
}

func TestRefreshStorm_RefreshFailureFailsEveryone(t *testing.T) {
	const n = 6
	h, _, served := stormServer(n, "never")
	sess := &fakeSession{access: "old", refresh: "r1", refreshErr: &APIError{Status: 401, Message: "refresh expired"}, delay: 50 * time.Millisecond}
	c := newTestClient(t, h, sess)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Get(context.Background(), "/ads", nil, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.ErrorIs(t, err, ErrUnauthorized, "request %d", i)
	}
	assert.Equal(t, int32(1), sess.refreshCalls.Load())
	assert.Equal(t, int32(0), served.Load())
	assert.Empty(t, sess.AccessToken())
	assert.Empty(t, sess.RefreshToken())
}

func TestRefresh_OriginalCallerSeesRefreshFailure(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, `{"message":"expired"}`)
	})
	sess := &fakeSession{access: "old", refresh: "r1", refreshErr: ErrUnavailable}
	c := newTestClient(t, h, sess)

	err := c.Get(context.Background(), "/auth/me", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.ErrorIs(t, err, ErrRefreshFailed)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), sess.logoutCalls.Load())
}

func TestRetriedRequest_IsNeverRetriedAgain(t *testing.T) {
	var hits atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, 401, `{"message":"still no"}`)
	})
	sess := &fakeSession{access: "old", refresh: "r1", newAccess: "new"}
	c := newTestClient(t, h, sess)

	err := c.Get(context.Background(), "/ads", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, int32(1), sess.refreshCalls.Load())
}

func TestNoRefreshToken_ForcesLogoutWithOriginalError(t *testing.T) {
	var hits atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, 401, `{"message":"jwt expired"}`)
	})
	sess := &fakeSession{access: "old"}
	c := newTestClient(t, h, sess)

	err := c.Get(context.Background(), "/ads", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "jwt expired", MessageOf(err, ""))
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, int32(0), sess.refreshCalls.Load())
	assert.Equal(t, int32(1), sess.logoutCalls.Load())
}

func TestSkipAuthRefresh_PassesThrough(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, `{}`)
	})
	sess := &fakeSession{access: "old", refresh: "r1", newAccess: "new"}
	c := newTestClient(t, h, sess)

	err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/auth/refresh", SkipAuthRefresh: true}, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(0), sess.refreshCalls.Load())
	assert.Equal(t, int32(0), sess.logoutCalls.Load())
}

func TestNon401Errors_DoNotRefresh(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 403, `{"message":"forbidden"}`)
	})
	sess := &fakeSession{access: "old", refresh: "r1", newAccess: "new"}
	c := newTestClient(t, h, sess)

	err := c.Get(context.Background(), "/admin", nil, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(0), sess.refreshCalls.Load())
}

func TestRecoverAuth_StaleTokenSkipsRefresh(t *testing.T) {
	sess := &fakeSession{access: "new", refresh: "r2"}
	c := New("http://unused", time.Second, nil)
	c.SetSession(sess)

	tok, err := c.recoverAuth(context.Background(), "old", ErrUnauthorized)
	require.NoError(t, err)
	assert.Equal(t, "new", tok)
	assert.Equal(t, int32(0), sess.refreshCalls.Load())
}

func TestRecoverAuth_WaiterHonoursContext(t *testing.T) {
	c := New("http://unused", time.Second, nil)
	c.SetSession(&fakeSession{access: "old", refresh: "r1"})
	c.refreshing = true

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.recoverAuth(ctx, "old", ErrUnauthorized)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Len(t, c.waiters, 1)
}

func TestRecoverAuth_RefreshSurvivesCallerCancellation(t *testing.T) {
	sess := &fakeSession{access: "old", refresh: "r1", newAccess: "new", delay: 30 * time.Millisecond}
	c := New("http://unused", time.Second, nil)
	c.SetSession(sess)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tok, err := c.recoverAuth(ctx, "old", ErrUnauthorized)
	require.NoError(t, err)
	assert.Equal(t, "new", tok)
	assert.False(t, c.refreshing)
}

func TestRecoverAuth_NoSessionReturnsCause(t *testing.T) {
	c := New("http://unused", time.Second, nil)
	_, err := c.recoverAuth(context.Background(), "", ErrUnauthorized)
	require.ErrorIs(t, err, ErrUnauthorized)
}
