// Package stores holds the client-side state containers the CLI renders:
// the campaign wizard and ad list, the bot list, and the profile dashboard.
// Every store is an explicit value built with its dependencies; there are no
// package-level singletons.
//
// Actions report failures twice: they return the error, and they put a
// user-facing message on the shared error banner. Successes go to the
// success banner.
package stores

import (
	"sync"
	"time"

	"github.com/akhmads/adscli/internal/client/client"
)

const DefaultBannerTTL = 5 * time.Second

// Banner is a dismissible message that clears itself after its TTL.
type Banner struct {
	ttl time.Duration

	mu    sync.Mutex
	msg   string
	seq   uint64
	timer *time.Timer
}

func NewBanner(ttl time.Duration) *Banner {
	if ttl <= 0 {
		ttl = DefaultBannerTTL
	}
	return &Banner{ttl: ttl}
}

// Set shows msg and restarts the expiry timer. An empty msg dismisses.
func (b *Banner) Set(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()
	b.msg = msg
	if msg == "" {
		return
	}

	b.seq++
	seq := b.seq
	b.timer = time.AfterFunc(b.ttl, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.seq == seq {
			b.msg = ""
			b.timer = nil
		}
	})
}

func (b *Banner) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
	b.msg = ""
}

func (b *Banner) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.msg
}

func (b *Banner) stopLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.seq++
}

// Notices pairs the error and success banners shared by all stores.
type Notices struct {
	Error   *Banner
	Success *Banner
}

func NewNotices(ttl time.Duration) *Notices {
	return &Notices{Error: NewBanner(ttl), Success: NewBanner(ttl)}
}

// fail shows the server message for err, or fallback, and returns err.
func (n *Notices) fail(err error, fallback string) error {
	n.Success.Dismiss()
	n.Error.Set(client.MessageOf(err, fallback))
	return err
}

func (n *Notices) ok(msg string) {
	n.Error.Dismiss()
	n.Success.Set(msg)
}

// Take returns and clears both messages.
func (n *Notices) Take() (errMsg, okMsg string) {
	errMsg, okMsg = n.Error.Current(), n.Success.Current()
	n.Error.Dismiss()
	n.Success.Dismiss()
	return errMsg, okMsg
}
