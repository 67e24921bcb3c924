package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn  bool
	loginErr  error
	protected map[string]bool

	// execErr answers Exec once per command before it succeeds
	execErr map[string]error

	calls []string
}

func newFakeExec(protected ...string) *fakeExec {
	f := &fakeExec{protected: map[string]bool{}, execErr: map[string]error{}}
	for _, p := range protected {
		f.protected[p] = true
	}
	return f
}

func (f *fakeExec) isLoggedIn() bool           { return f.loggedIn }
func (f *fakeExec) needsLogin(cmd string) bool { return f.protected[cmd] }
func (f *fakeExec) Help() string               { return "help text" }

func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = true
	return nil
}

func (f *fakeExec) Exec(ctx context.Context, cmd string, args []string) error {
	if cmd == "foobar" {
		return errUnknownCommand
	}
	f.calls = append(f.calls, strings.TrimSpace(cmd+" "+strings.Join(args, " ")))
	if err, ok := f.execErr[cmd]; ok {
		delete(f.execErr, cmd)
		f.loggedIn = false
		return err
	}
	return nil
}

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchAndQuit(t *testing.T) {
	out := capturePrint(t)
	exec := newFakeExec()

	runREPL(context.Background(), exec, func() string { return "guest" }, rdr(strings.Join([]string{
		"help",
		"",
		"whoami",
		"drafts  now",
		"foobar",
		"exit",
		"whoami",
	}, "\n")))

	assert.Equal(t, []string{"whoami", "drafts now"}, exec.calls)
	assert.Contains(t, *out, "help text")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "akhmads guest>")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrint(t)
	exec := newFakeExec()
	runREPL(context.Background(), exec, func() string { return "" }, rdr("whoami"))
	assert.Equal(t, []string{"whoami"}, exec.calls)
}

func TestRunREPL_StopsOnCanceledContext(t *testing.T) {
	capturePrint(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := newFakeExec()
	runREPL(ctx, exec, func() string { return "" }, rdr("whoami\n"))
	assert.Empty(t, exec.calls)
}

func TestRunREPL_GuardReplaysRememberedCommand(t *testing.T) {
	capturePrint(t)
	exec := newFakeExec("ads")

	runREPL(context.Background(), exec, func() string { return "" }, rdr("ads running\nads\n"))

	assert.Equal(t, []string{"login", "ads running", "ads"}, exec.calls)
}

func TestRunGuarded_FailedLoginDropsCommand(t *testing.T) {
	capturePrint(t)
	exec := newFakeExec("ads")
	exec.loginErr = errors.New("login expired")

	err := runGuarded(context.Background(), exec, "ads", nil)
	require.Error(t, err)
	assert.Equal(t, []string{"login"}, exec.calls)
}

func TestRunGuarded_PublicCommandSkipsLogin(t *testing.T) {
	exec := newFakeExec("ads")
	require.NoError(t, runGuarded(context.Background(), exec, "drafts", nil))
	assert.Equal(t, []string{"drafts"}, exec.calls)
}

func TestRunGuarded_SessionLostMidCommandReplaysOnce(t *testing.T) {
	capturePrint(t)
	exec := newFakeExec("bots")
	exec.loggedIn = true
	exec.execErr["bots"] = fmt.Errorf("%w (%w)", &client.APIError{Status: 401}, client.ErrRefreshFailed)

	require.NoError(t, runGuarded(context.Background(), exec, "bots", nil))
	assert.Equal(t, []string{"bots", "login", "bots"}, exec.calls)
}

func TestRunGuarded_OtherErrorsAreNotReplayed(t *testing.T) {
	exec := newFakeExec("bots")
	exec.loggedIn = true
	exec.execErr["bots"] = client.ErrUnavailable

	err := runGuarded(context.Background(), exec, "bots", nil)
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, []string{"bots"}, exec.calls)
}
