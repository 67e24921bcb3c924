package stores

import (
	"errors"
	"testing"
	"time"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/stretchr/testify/assert"
)

func TestBanner_Expires(t *testing.T) {
	b := NewBanner(20 * time.Millisecond)
	b.Set("saved")
	assert.Equal(t, "saved", b.Current())
	assert.Eventually(t, func() bool { return b.Current() == "" }, time.Second, 5*time.Millisecond)
}

func TestBanner_SetRestartsTimer(t *testing.T) {
	b := NewBanner(40 * time.Millisecond)
	b.Set("first")
	time.Sleep(25 * time.Millisecond)
	b.Set("second")
	time.Sleep(25 * time.Millisecond)

	// the first timer fired by now but must not clear the newer message
	assert.Equal(t, "second", b.Current())
	assert.Eventually(t, func() bool { return b.Current() == "" }, time.Second, 5*time.Millisecond)
}

func TestBanner_Dismiss(t *testing.T) {
	b := NewBanner(time.Hour)
	b.Set("oops")
	b.Dismiss()
	assert.Empty(t, b.Current())

	b.Set("again")
	b.Set("")
	assert.Empty(t, b.Current())
}

func TestBanner_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultBannerTTL, NewBanner(0).ttl)
}

func TestNotices_FailUsesServerMessage(t *testing.T) {
	n := NewNotices(time.Hour)
	n.ok("done")

	err := n.fail(&client.APIError{Status: 400, Message: "Insufficient balance"}, "Failed to create ad")
	assert.Error(t, err)
	errMsg, okMsg := n.Take()
	assert.Equal(t, "Insufficient balance", errMsg)
	assert.Empty(t, okMsg)

	_ = n.fail(errors.New("dial tcp: refused"), "Failed to create ad")
	errMsg, _ = n.Take()
	assert.Equal(t, "Failed to create ad", errMsg)

	errMsg, okMsg = n.Take()
	assert.Empty(t, errMsg)
	assert.Empty(t, okMsg)
}
