package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akhmads/adscli/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errUnknownCommand = errors.New("unknown command")

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	needsLogin(cmd string) bool
	Login(ctx context.Context) error
	Exec(ctx context.Context, cmd string, args []string) error
	Help() string
}

// runREPL starts a simple read-eval-print loop for the marketplace CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches it to a. The loop exits on EOF, on a canceled ctx, or when the
// user types "exit" or "quit".
//
// Commands that need a session go through runGuarded, so an anonymous user
// typing "ads" is sent through login and then sees their ads.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("akhmads %s> ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(a.Help())

		case "login":
			_ = a.Login(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if err := runGuarded(ctx, a, cmd, args); errors.Is(err, errUnknownCommand) {
				printlnFn("Unknown command:", cmd)
			}
		}
	}
}

// runGuarded executes cmd, sending an anonymous user through login first and
// replaying cmd once the login succeeds. A command that ends the session
// midway (refresh rejected) is replayed the same way, once.
func runGuarded(ctx context.Context, a execIface, cmd string, args []string) error {
	protected := a.needsLogin(cmd)

	if protected && !a.isLoggedIn() {
		printlnFn("Please sign in to continue.")
		if err := a.Login(ctx); err != nil {
			return err
		}
	}

	err := a.Exec(ctx, cmd, args)
	if protected && errors.Is(err, client.ErrUnauthorized) && !a.isLoggedIn() {
		printlnFn("Your session has ended, please sign in again.")
		if lerr := a.Login(ctx); lerr != nil {
			return lerr
		}
		return a.Exec(ctx, cmd, args)
	}
	return err
}
