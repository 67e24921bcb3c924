package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fakes
 *************/

type fakeAuthAPI struct {
	mu sync.Mutex

	meUser *models.User
	meErr  error

	refreshTokens *models.Tokens
	refreshErr    error
	lastRefresh   string

	logoutErr error

	meCalls, refreshCalls, logoutCalls int
}

func (f *fakeAuthAPI) Me(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meCalls++
	return f.meUser, f.meErr
}

func (f *fakeAuthAPI) Refresh(ctx context.Context, rt string) (*models.Tokens, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	f.lastRefresh = rt
	return f.refreshTokens, f.refreshErr
}

func (f *fakeAuthAPI) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

type memPersister struct {
	saved   *Persisted
	saves   int
	loadErr error
	saveErr error
}

func (m *memPersister) Load(ctx context.Context) (*Persisted, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.saved, nil
}

func (m *memPersister) Save(ctx context.Context, p Persisted) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &p
	return nil
}

var alice = &models.User{ID: "u1", TelegramID: "1001", FirstName: "Alice", Role: "advertiser", Locale: "uz"}

func loggedIn(t *testing.T, api *fakeAuthAPI, p Persister) *Store {
	t.Helper()
	s := NewStore(api, p, logging.Nop())
	s.Login(context.Background(), models.Tokens{AccessToken: "a1", RefreshToken: "r1"}, alice)
	return s
}

/*************
 * Persisted subset
 *************/

func TestPersist_DropsTransientFields(t *testing.T) {
	st := State{User: alice, AccessToken: "a", RefreshToken: "r", IsAuthenticated: true, IsLoading: true, Err: "boom"}

	got := Persist(st)
	want := Persisted{User: alice, AccessToken: "a", RefreshToken: "r", IsAuthenticated: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Persist mismatch (-want +got):\n%s", diff)
	}

	got.User.FirstName = "changed"
	assert.Equal(t, "Alice", alice.FirstName)
}

func TestRestore_TransientFlagsStartZero(t *testing.T) {
	st := restore(Persisted{User: alice, AccessToken: "a", RefreshToken: "r", IsAuthenticated: true})
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Err)
	assert.True(t, st.IsAuthenticated)

	st = restore(Persisted{IsAuthenticated: true})
	assert.False(t, st.IsAuthenticated)
}

/*************
 * Login / Logout
 *************/

func TestLogin_SetsEverythingAndPersists(t *testing.T) {
	p := &memPersister{}
	s := loggedIn(t, &fakeAuthAPI{}, p)

	st := s.Snapshot()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "a1", st.AccessToken)
	assert.Equal(t, "r1", st.RefreshToken)
	assert.Equal(t, "u1", st.User.ID)
	assert.True(t, s.Validated())

	require.NotNil(t, p.saved)
	assert.Equal(t, "a1", p.saved.AccessToken)
	assert.True(t, p.saved.IsAuthenticated)
}

func TestLogin_WithoutAccessTokenIsAnonymous(t *testing.T) {
	p := &memPersister{}
	s := NewStore(&fakeAuthAPI{}, p, logging.Nop())

	s.Login(context.Background(), models.Tokens{RefreshToken: "r1"}, alice)

	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.Validated())
	require.NotNil(t, p.saved)
	assert.False(t, p.saved.IsAuthenticated)
}

func TestLogout_ClearsEvenWhenServerFails(t *testing.T) {
	api := &fakeAuthAPI{logoutErr: errors.New("network down")}
	p := &memPersister{}
	s := loggedIn(t, api, p)

	s.Logout(context.Background())

	st := s.Snapshot()
	assert.False(t, st.IsAuthenticated)
	assert.Empty(t, st.AccessToken)
	assert.Empty(t, st.RefreshToken)
	assert.Nil(t, st.User)
	assert.Equal(t, 1, api.logoutCalls)
	assert.Equal(t, Persisted{}, *p.saved)
}

func TestLogout_AnonymousSkipsServer(t *testing.T) {
	api := &fakeAuthAPI{}
	s := NewStore(api, nil, nil)

	s.Logout(context.Background())
	s.ForceLogout(context.Background())

	assert.Equal(t, 0, api.logoutCalls)
	assert.False(t, s.IsAuthenticated())
}

func TestPersistFailure_DoesNotBreakState(t *testing.T) {
	p := &memPersister{saveErr: errors.New("disk full")}
	s := loggedIn(t, &fakeAuthAPI{}, p)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, 1, p.saves)
}

/*************
 * CheckAuth
 *************/

func TestCheckAuth_NoTokenNoNetwork(t *testing.T) {
	api := &fakeAuthAPI{}
	s := NewStore(api, nil, nil)

	assert.False(t, s.CheckAuth(context.Background()))
	assert.Equal(t, 0, api.meCalls)
	assert.Equal(t, 0, api.refreshCalls)
}

func TestCheckAuth_SuccessUpdatesUser(t *testing.T) {
	fresh := &models.User{ID: "u1", FirstName: "Alicia"}
	api := &fakeAuthAPI{meUser: fresh}
	p := &memPersister{saved: &Persisted{User: alice, AccessToken: "a1", RefreshToken: "r1", IsAuthenticated: true}}
	s := NewStore(api, p, nil)
	require.NoError(t, s.Restore(context.Background()))
	require.False(t, s.Validated())

	assert.True(t, s.CheckAuth(context.Background()))
	assert.Equal(t, "Alicia", s.User().FirstName)
	assert.True(t, s.Validated())
	assert.False(t, s.Snapshot().IsLoading)
	assert.Equal(t, 0, api.refreshCalls)
}

func TestCheckAuth_StaleTokenRefreshes(t *testing.T) {
	api := &fakeAuthAPI{
		meErr:         client.ErrUnauthorized,
		refreshTokens: &models.Tokens{AccessToken: "a2", RefreshToken: "r2"},
	}
	p := &memPersister{saved: &Persisted{User: alice, AccessToken: "stale", RefreshToken: "r1", IsAuthenticated: true}}
	s := NewStore(api, p, nil)
	require.NoError(t, s.Restore(context.Background()))

	require.True(t, s.CheckAuth(context.Background()))

	st := s.Snapshot()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "a2", st.AccessToken)
	assert.Equal(t, "r2", st.RefreshToken)
	assert.Equal(t, "r1", api.lastRefresh)
	assert.Equal(t, 1, api.meCalls)
	assert.Equal(t, 1, api.refreshCalls)
	assert.Equal(t, "a2", p.saved.AccessToken)
}

func TestCheckAuth_RefreshAlsoFails(t *testing.T) {
	api := &fakeAuthAPI{meErr: client.ErrUnauthorized, refreshErr: client.ErrUnauthorized}
	s := loggedIn(t, api, nil)

	assert.False(t, s.CheckAuth(context.Background()))
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.AccessToken())
	assert.Equal(t, 1, api.refreshCalls)
	assert.Equal(t, 1, api.meCalls)
}

/*************
 * RefreshAccessToken
 *************/

func TestRefresh_NoRefreshTokenNoNetwork(t *testing.T) {
	api := &fakeAuthAPI{}
	s := NewStore(api, nil, nil)

	err := s.RefreshAccessToken(context.Background())
	require.ErrorIs(t, err, client.ErrNoRefreshToken)
	assert.Equal(t, 0, api.refreshCalls)
	assert.Equal(t, 0, api.logoutCalls)
}

func TestRefresh_KeepsRefreshTokenWhenNotRotated(t *testing.T) {
	api := &fakeAuthAPI{refreshTokens: &models.Tokens{AccessToken: "a2"}}
	s := loggedIn(t, api, nil)

	require.NoError(t, s.RefreshAccessToken(context.Background()))
	assert.Equal(t, "a2", s.AccessToken())
	assert.Equal(t, "r1", s.RefreshToken())
}

func TestRefresh_EmptyAnswerIsFailure(t *testing.T) {
	api := &fakeAuthAPI{refreshTokens: &models.Tokens{}}
	s := loggedIn(t, api, nil)

	err := s.RefreshAccessToken(context.Background())
	require.ErrorIs(t, err, client.ErrRefreshFailed)
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, 1, api.logoutCalls)
}

/*************
 * Restore
 *************/

func TestRestore_Errors(t *testing.T) {
	s := NewStore(&fakeAuthAPI{}, &memPersister{loadErr: errors.New("corrupt")}, nil)
	require.Error(t, s.Restore(context.Background()))
	assert.False(t, s.IsAuthenticated())

	s = NewStore(&fakeAuthAPI{}, &memPersister{}, nil)
	require.NoError(t, s.Restore(context.Background()))
	assert.False(t, s.IsAuthenticated())

	s = NewStore(&fakeAuthAPI{}, nil, nil)
	require.NoError(t, s.Restore(context.Background()))
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := loggedIn(t, &fakeAuthAPI{}, nil)
	snap := s.Snapshot()
	snap.User.FirstName = "Mallory"
	snap.AccessToken = "x"

	assert.Equal(t, "Alice", s.User().FirstName)
	assert.Equal(t, "a1", s.AccessToken())
}
