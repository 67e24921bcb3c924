package cli

import (
	"context"
	"errors"
	"time"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/akhmads/adscli/internal/client/login"
)

// progressEvery is how many status checks pass between progress lines.
const progressEvery = 15

// Login runs the Telegram handshake: it prints the deep link and the code,
// then waits until the bot confirms, the login expires or ctx is canceled.
//
// On success the session is committed by the flow and the user greeted. The
// error is returned unchanged so the REPL guard can drop a remembered command.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		a.printf("Already signed in as %s\n", a.status())
		return nil
	}

	ch, err := a.flow.Initiate(ctx)
	if err != nil {
		a.println("Error:", client.MessageOf(err, "Failed to start login"))
		return err
	}

	a.println("Open this link in Telegram and press Start:")
	a.println("  " + ch.DeepLink)
	if ch.Code != "" {
		a.printf("Confirmation code: %s\n", ch.Code)
	}
	a.println("Waiting for confirmation...")
	a.flow.OnAttempt = func(n, max int) {
		if n%progressEvery == 0 {
			a.printf("Still waiting (%d of %d checks)...\n", n, max)
		}
	}

	user, err := a.flow.Await(ctx, ch.LoginToken)
	if err != nil {
		msg := client.MessageOf(err, "Login failed")
		if errors.Is(err, login.ErrLoginExpired) {
			msg = err.Error()
		}
		a.session.SetError(msg)
		a.println("Error:", msg)
		return err
	}

	a.printf("Signed in as %s\n", user.DisplayName())
	return nil
}

// Logout revokes the session on the server when possible and always clears
// it locally.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if !a.isLoggedIn() {
		a.println("Not signed in.")
		return nil
	}
	a.session.Logout(ctx)
	a.ads.ResetForm()
	a.println("Signed out.")
	return nil
}

func (a *App) whoami(ctx context.Context, _ []string) error {
	u := a.session.User()
	if !a.isLoggedIn() || u == nil {
		a.println("Not signed in.")
		return nil
	}

	a.printf("%s (id %s, telegram %s)\n", u.DisplayName(), u.ID, u.TelegramID)
	role := u.DisplayRole
	if role == "" {
		role = u.Role
	}
	a.printf("Role: %s  Locale: %s\n", role, u.Locale)
	a.printf("Server: %s\n", a.config.ServerURL)
	if exp, ok := a.session.AccessTokenExpiry(); ok {
		a.printf("Access token valid until %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}
