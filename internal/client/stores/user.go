package stores

import (
	"context"
	"slices"
	"sync"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/client/services"
	"github.com/akhmads/adscli/internal/client/validation"
	"github.com/akhmads/adscli/internal/logging"
	"golang.org/x/sync/errgroup"
)

// UserStore owns the profile page: user, wallet, stats, the user's ads and
// bots, and the analytics series.
type UserStore struct {
	users   services.UserService
	ads     services.AdService
	bots    services.BotService
	notices *Notices
	log     logging.Logger

	mu        sync.Mutex
	profile   *models.Profile
	myAds     []models.Ad
	myBots    []models.Bot
	analytics models.Analytics
	loading   bool
}

func NewUserStore(users services.UserService, ads services.AdService, bots services.BotService, notices *Notices, log logging.Logger) *UserStore {
	if log == nil {
		log = logging.Nop()
	}
	return &UserStore{
		users:   users,
		ads:     ads,
		bots:    bots,
		notices: notices,
		log:     log,
		myAds:   []models.Ad{},
		myBots:  []models.Bot{},
	}
}

func (s *UserStore) Profile() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *UserStore) Ads() []models.Ad {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.myAds)
}

func (s *UserStore) Bots() []models.Bot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.myBots)
}

func (s *UserStore) Analytics() models.Analytics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analytics
}

func (s *UserStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *UserStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *UserStore) FetchProfile(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)
	if err := s.loadProfile(ctx); err != nil {
		return s.notices.fail(err, "Failed to fetch profile")
	}
	return nil
}

func (s *UserStore) loadProfile(ctx context.Context) error {
	p, err := s.users.Profile(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
	return nil
}

func (s *UserStore) FetchAds(ctx context.Context, f models.AdFilter) error {
	s.setLoading(true)
	defer s.setLoading(false)

	page, err := s.ads.List(ctx, f)
	if err != nil {
		return s.notices.fail(err, "Failed to fetch ads")
	}
	s.mu.Lock()
	s.myAds = page.Items
	s.mu.Unlock()
	return nil
}

func (s *UserStore) FetchBots(ctx context.Context, f models.BotFilter) error {
	s.setLoading(true)
	defer s.setLoading(false)

	page, err := s.bots.List(ctx, f)
	if err != nil {
		return s.notices.fail(err, "Failed to fetch bots")
	}
	s.mu.Lock()
	s.myBots = page.Items
	s.mu.Unlock()
	return nil
}

func (s *UserStore) FetchAnalytics(ctx context.Context, days int, kind models.AnalyticsKind) error {
	s.setLoading(true)
	defer s.setLoading(false)
	if err := s.loadAnalytics(ctx, days, kind); err != nil {
		return s.notices.fail(err, "Failed to fetch analytics")
	}
	return nil
}

func (s *UserStore) loadAnalytics(ctx context.Context, days int, kind models.AnalyticsKind) error {
	if kind == "" {
		kind = models.AnalyticsAdvertiser
	}
	a, err := s.users.Analytics(ctx, days, kind)
	if err != nil {
		return err
	}
	if a.Revenue == nil {
		a.Revenue = []models.RevenuePoint{}
	}
	if a.CTR == nil {
		a.CTR = []models.CTRPoint{}
	}
	s.mu.Lock()
	s.analytics = *a
	s.mu.Unlock()
	return nil
}

// LoadDashboard fetches the profile and the analytics concurrently. The
// first failure cancels the other call and alone decides the error banner.
func (s *UserStore) LoadDashboard(ctx context.Context, days int, kind models.AnalyticsKind) error {
	s.setLoading(true)
	defer s.setLoading(false)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.loadProfile(gctx) })
	g.Go(func() error { return s.loadAnalytics(gctx, days, kind) })
	if err := g.Wait(); err != nil {
		return s.notices.fail(err, "Failed to load dashboard")
	}
	return nil
}

func (s *UserStore) DeleteAd(ctx context.Context, id string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.ads.Delete(ctx, id); err != nil {
		return s.notices.fail(err, "Failed to delete ad")
	}
	s.mu.Lock()
	s.myAds = slices.DeleteFunc(s.myAds, func(a models.Ad) bool { return a.ID == id })
	s.mu.Unlock()
	return nil
}

func (s *UserStore) DeleteBot(ctx context.Context, id string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.bots.Delete(ctx, id); err != nil {
		return s.notices.fail(err, "Failed to delete bot")
	}
	s.mu.Lock()
	s.myBots = slices.DeleteFunc(s.myBots, func(b models.Bot) bool { return b.ID == id })
	s.mu.Unlock()
	return nil
}

// UpdateProfile validates and saves the profile. Unlike the other actions the
// error is meant for the caller too, so the edit form can stay open.
func (s *UserStore) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.Profile, error) {
	if err := validation.Profile(req); err != nil {
		return nil, err
	}

	s.setLoading(true)
	defer s.setLoading(false)

	p, err := s.users.UpdateProfile(ctx, req)
	if err != nil {
		return nil, s.notices.fail(err, "Failed to update profile")
	}
	s.mu.Lock()
	if s.profile == nil {
		s.profile = p
	} else {
		cp := *s.profile
		cp.User = p.User
		s.profile = &cp
	}
	s.mu.Unlock()
	s.notices.ok("Profile updated")
	return p, nil
}
