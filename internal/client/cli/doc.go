// Package cli provides the interactive marketplace command-line client.
//
// It wires configuration, the local SQLite database, the HTTP client with its
// token refresh, the session store and the domain stores, then serves a REPL.
// Typical flow: restore the stored session, validate it once, and execute
// user commands.
//
// Key features:
//   - Telegram login by deep link with status polling, logout, whoami
//   - Campaigns: list, show, three-step creation wizard, duplicate,
//     lifecycle actions, schedule, test send, statistics, CSV export
//   - Bots: register, settings, pause/resume, API key rotation, earnings
//   - Profile editing and the analytics dashboard
//   - Wizard drafts kept on this machine
//
// Commands that need a session send an anonymous user through login first
// and then run. The REPL is started via App.Run(ctx), which blocks until the
// user exits. See App, runREPL and runGuarded for details.
package cli
