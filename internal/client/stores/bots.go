package stores

import (
	"context"
	"slices"
	"sync"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/client/services"
	"github.com/akhmads/adscli/internal/client/validation"
	"github.com/akhmads/adscli/internal/logging"
)

// BotStore owns the bot owner's bot list.
type BotStore struct {
	svc     services.BotService
	notices *Notices
	log     logging.Logger

	mu      sync.Mutex
	bots    []models.Bot
	current *models.Bot
	stats   *models.BotStats
	loading bool
}

func NewBotStore(svc services.BotService, notices *Notices, log logging.Logger) *BotStore {
	if log == nil {
		log = logging.Nop()
	}
	return &BotStore{svc: svc, notices: notices, log: log, bots: []models.Bot{}}
}

func (s *BotStore) Bots() []models.Bot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.bots)
}

func (s *BotStore) Current() *models.Bot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *BotStore) Stats() *models.BotStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *BotStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *BotStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Register validates req and registers the bot. The returned API key is
// shown only once by the server.
func (s *BotStore) Register(ctx context.Context, req models.RegisterBotRequest) (*models.RegisteredBot, error) {
	if err := validation.BotRegistration(req); err != nil {
		return nil, err
	}

	s.setLoading(true)
	defer s.setLoading(false)

	reg, err := s.svc.Register(ctx, req)
	if err != nil {
		return nil, s.notices.fail(err, "Failed to register bot")
	}
	s.mu.Lock()
	s.bots = append([]models.Bot{reg.Bot}, s.bots...)
	s.mu.Unlock()
	s.notices.ok("Bot registered successfully!")
	return reg, nil
}

func (s *BotStore) FetchMyBots(ctx context.Context, f models.BotFilter) error {
	s.setLoading(true)
	defer s.setLoading(false)

	page, err := s.svc.List(ctx, f)
	if err != nil {
		return s.notices.fail(err, "Failed to fetch bots")
	}
	s.mu.Lock()
	s.bots = page.Items
	s.mu.Unlock()
	return nil
}

func (s *BotStore) FetchBot(ctx context.Context, id string) (*models.Bot, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	b, err := s.svc.Get(ctx, id)
	if err != nil {
		return nil, s.notices.fail(err, "Failed to fetch bot")
	}
	s.mu.Lock()
	s.current = b
	s.mu.Unlock()
	return b, nil
}

func (s *BotStore) UpdateBot(ctx context.Context, id string, req models.UpdateBotRequest) (*models.Bot, error) {
	if err := validation.BotSettings(req); err != nil {
		return nil, err
	}

	s.setLoading(true)
	defer s.setLoading(false)

	b, err := s.svc.Update(ctx, id, req)
	if err != nil {
		return nil, s.notices.fail(err, "Failed to update bot")
	}
	s.replace(*b)
	s.notices.ok("Bot updated successfully!")
	return b, nil
}

func (s *BotStore) DeleteBot(ctx context.Context, id string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.svc.Delete(ctx, id); err != nil {
		return s.notices.fail(err, "Failed to delete bot")
	}
	s.mu.Lock()
	s.bots = slices.DeleteFunc(s.bots, func(b models.Bot) bool { return b.ID == id })
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()
	s.notices.ok("Bot deleted successfully!")
	return nil
}

// TogglePause flips the cached bot at once and confirms with the server. If
// the server rejects the change, the previous copy is put back.
func (s *BotStore) TogglePause(ctx context.Context, id string, paused bool) (*models.Bot, error) {
	s.mu.Lock()
	var prev *models.Bot
	for i := range s.bots {
		if s.bots[i].ID == id {
			b := s.bots[i]
			prev = &b
			s.bots[i].IsPaused = paused
		}
	}
	s.mu.Unlock()

	b, err := s.svc.SetPaused(ctx, id, paused)
	if err != nil {
		if prev != nil {
			s.replace(*prev)
		}
		return nil, s.notices.fail(err, "Failed to toggle pause")
	}

	s.replace(*b)
	if paused {
		s.notices.ok("Bot paused")
	} else {
		s.notices.ok("Bot resumed")
	}
	return b, nil
}

func (s *BotStore) RegenerateAPIKey(ctx context.Context, id string) (string, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	key, err := s.svc.RegenerateAPIKey(ctx, id)
	if err != nil {
		return "", s.notices.fail(err, "Failed to regenerate API key")
	}
	s.notices.ok("API key regenerated successfully!")
	return key, nil
}

func (s *BotStore) FetchStats(ctx context.Context, id, period string) (*models.BotStats, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	st, err := s.svc.Stats(ctx, id, period)
	if err != nil {
		return nil, s.notices.fail(err, "Failed to fetch bot stats")
	}
	s.mu.Lock()
	s.stats = st
	s.mu.Unlock()
	return st, nil
}

func (s *BotStore) replace(b models.Bot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bots {
		if s.bots[i].ID == b.ID {
			s.bots[i] = b
		}
	}
	if s.current != nil && s.current.ID == b.ID {
		cur := b
		s.current = &cur
	}
}
