package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
)

var errUsage = errors.New("wrong arguments")

type command struct {
	name   string
	args   string
	help   string
	public bool
	run    func(a *App, ctx context.Context, args []string) error
}

var commands = []command{
	{name: "logout", help: "sign out and forget the stored session", public: true, run: (*App).Logout},
	{name: "whoami", help: "show the signed-in user", public: true, run: (*App).whoami},

	{name: "ads", args: "[status|saved|archived] [page]", help: "list your campaigns", run: (*App).listAds},
	{name: "ad", args: "<id>", help: "show one campaign", run: (*App).showAd},
	{name: "newad", args: "[back|reset]", help: "run the campaign wizard", run: (*App).newAd},
	{name: "dupad", args: "<id>", help: "prefill the wizard from an existing campaign", run: (*App).duplicateAd},
	{name: "submit", args: "<id>", help: "send a draft for review", run: (*App).submitAd},
	{name: "pause", args: "<id>", help: "pause a running campaign", run: (*App).pauseAd},
	{name: "resume", args: "<id>", help: "resume a paused campaign", run: (*App).resumeAd},
	{name: "delete", args: "<id>", help: "delete a campaign", run: (*App).deleteAd},
	{name: "save", args: "<id>", help: "bookmark or unbookmark a campaign", run: (*App).toggleSave},
	{name: "archive", args: "<id>", help: "archive a campaign", run: (*App).archiveAd},
	{name: "unarchive", args: "<id>", help: "restore an archived campaign", run: (*App).unarchiveAd},
	{name: "schedule", args: "<id>", help: "set the delivery window", run: (*App).scheduleAd},
	{name: "unschedule", args: "<id>", help: "remove the delivery window", run: (*App).unscheduleAd},
	{name: "testad", args: "<id> [telegram-user-id]", help: "send a test impression", run: (*App).testAd},
	{name: "stats", args: "[<id> [days|hourly]]", help: "show campaign statistics", run: (*App).stats},
	{name: "perf", args: "<id>", help: "show per-bot delivery of a campaign", run: (*App).performance},
	{name: "clicks", args: "<id> [page]", help: "list recorded clicks", run: (*App).clicks},
	{name: "export", args: "<id>", help: "save impressions as CSV under exports/", run: (*App).export},

	{name: "bots", args: "[status]", help: "list your bots", run: (*App).listBots},
	{name: "bot", args: "<id>", help: "show one bot", run: (*App).showBot},
	{name: "addbot", help: "register a bot (token is read without echo)", run: (*App).addBot},
	{name: "botcfg", args: "<id>", help: "edit bot settings", run: (*App).configureBot},
	{name: "pausebot", args: "<id>", help: "stop serving ads in a bot", run: (*App).pauseBot},
	{name: "resumebot", args: "<id>", help: "serve ads in a bot again", run: (*App).resumeBot},
	{name: "delbot", args: "<id>", help: "remove a bot", run: (*App).deleteBot},
	{name: "rekey", args: "<id>", help: "issue a new bot API key", run: (*App).rekeyBot},
	{name: "botstats", args: "<id> [7d|30d|90d]", help: "show bot earnings", run: (*App).botStats},

	{name: "profile", help: "show profile and wallet", run: (*App).profile},
	{name: "editprofile", help: "edit name, email and language", run: (*App).editProfile},
	{name: "dashboard", args: "[days] [advertiser|owner]", help: "show the analytics overview", run: (*App).dashboard},

	{name: "savedraft", args: "<name>", help: "keep the wizard form on this machine", public: true, run: (*App).saveDraft},
	{name: "drafts", help: "list local drafts", public: true, run: (*App).listDrafts},
	{name: "loaddraft", args: "<id>", help: "load a draft into the wizard", public: true, run: (*App).loadDraft},
	{name: "deldraft", args: "<id>", help: "delete a local draft", public: true, run: (*App).deleteDraft},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// Help lists the commands available in the current session state.
func (a *App) Help() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	loggedIn := a.isLoggedIn()
	if !loggedIn {
		fmt.Fprintln(w, "login\t\tsign in with Telegram")
	}
	for _, c := range commands {
		if !loggedIn && !c.public {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.name, c.args, c.help)
	}
	fmt.Fprintln(w, "help\t\tshow this list")
	fmt.Fprintln(w, "exit\t\tleave the program")
	if !loggedIn {
		fmt.Fprintln(w, "\t\tother commands ask you to sign in first")
	}
	_ = w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}

// oneID extracts the single <id> argument most commands take.
func oneID(args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", errUsage
	}
	return args[0], nil
}
