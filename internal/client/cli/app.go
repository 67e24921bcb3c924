package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/akhmads/adscli/internal/client/config"
	"github.com/akhmads/adscli/internal/client/login"
	"github.com/akhmads/adscli/internal/client/services"
	"github.com/akhmads/adscli/internal/client/session"
	"github.com/akhmads/adscli/internal/client/stores"
	"github.com/akhmads/adscli/internal/client/validation"
	"github.com/akhmads/adscli/internal/cryptox"
	"github.com/akhmads/adscli/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	session *session.Store
	flow    *login.Flow
	adSvc   services.AdService

	notices *stores.Notices
	ads     *stores.AdStore
	bots    *stores.BotStore
	users   *stores.UserStore

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database and wires the HTTP client, services,
// session and stores. Close releases what it opened.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}
	repos := client.NewRepositories(db)

	var sealer *cryptox.Sealer
	if c.SessionPassphrase != "" {
		sealer = cryptox.NewSealer(c.SessionPassphrase)
	}

	hc := client.New(c.ServerURL, c.RequestTimeout, log)
	auth := services.NewAuthService(hc)
	sess := session.NewStore(auth, session.NewMetadataPersister(db, sealer), log)
	hc.SetSession(sess)

	adSvc := services.NewAdService(hc)
	botSvc := services.NewBotService(hc)
	userSvc := services.NewUserService(hc)

	notices := stores.NewNotices(c.BannerTTL)

	return &App{
		config:  c,
		log:     log,
		db:      db,
		session: sess,
		flow:    login.NewFlow(auth, sess, c.PollInterval, c.PollMaxAttempts, log),
		adSvc:   adSvc,
		notices: notices,
		ads:     stores.NewAdStore(adSvc, repos.Drafts, notices, c.PricingDebounce, log),
		bots:    stores.NewBotStore(botSvc, notices, log),
		users:   stores.NewUserStore(userSvc, adSvc, botSvc, notices, log),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) Close() error {
	a.ads.Close()
	return a.db.Close()
}

// Run restores the stored session and serves the REPL until the user exits.
// The caller owns the App and closes it.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to Akhmads CLI (type 'help' for commands)")
	a.restoreSession(ctx)
	runREPL(ctx, a, a.status, a.reader)
}

// restoreSession loads the persisted session and validates it once.
func (a *App) restoreSession(ctx context.Context) {
	if err := a.session.Restore(ctx); err != nil {
		a.println("Stored session could not be read, please sign in again.")
		return
	}
	if a.session.AccessToken() == "" {
		return
	}
	if a.session.CheckAuth(ctx) {
		a.printf("Welcome back, %s\n", a.session.User().DisplayName())
		return
	}
	a.println("Your session has expired, please sign in again.")
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) status() string {
	if u := a.session.User(); u != nil && a.isLoggedIn() {
		return u.DisplayName()
	}
	return "guest"
}

// Exec runs one command and prints the banners it left behind.
func (a *App) Exec(ctx context.Context, cmd string, args []string) error {
	c, ok := lookup(cmd)
	if !ok {
		return errUnknownCommand
	}

	err := c.run(a, ctx, args)

	errMsg, okMsg := a.notices.Take()
	if okMsg != "" {
		a.println(okMsg)
	}

	var verrs validation.Errors
	switch {
	case errMsg != "":
		a.println("Error:", errMsg)
	case errors.As(err, &verrs):
		a.println("Please fix:")
		for _, fe := range verrs {
			a.printf("  %s: %s\n", fe.Field, fe.Message)
		}
	case errors.Is(err, errUsage):
		a.printf("Usage: %s %s\n", c.name, c.args)
	case err != nil:
		a.println("Error:", client.MessageOf(err, err.Error()))
	}
	return err
}

func (a *App) needsLogin(cmd string) bool {
	c, ok := lookup(cmd)
	return ok && !c.public
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) ask(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

// askDefault shows the current value and keeps it on empty input.
func (a *App) askDefault(prompt, current string) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	v, err := a.ask(prompt)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

func (a *App) confirm(prompt string) (bool, error) {
	v, err := a.ask(prompt + " [y/N]")
	if err != nil {
		return false, err
	}
	return v == "y" || v == "Y" || v == "yes", nil
}
