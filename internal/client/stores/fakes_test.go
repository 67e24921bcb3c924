package stores

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/client/services"
)

// fakeAdService implements the calls the tests need; anything else panics
// through the nil embedded interface.
type fakeAdService struct {
	services.AdService

	mu            sync.Mutex
	estimateCalls atomic.Int32
	lastEstimate  models.EstimateRequest
	estimateErr   error
	// holdPlain parks quotes without a promo code until it is closed;
	// plainStarted reports each parked call.
	holdPlain    chan struct{}
	plainStarted chan struct{}
	created      *models.CreateAdRequest
	createErr    error
	list         []models.Ad
	statusErr    error
	deleteErr    error
	saved        map[string]bool
	testSentTo   string
}

func (f *fakeAdService) PricingEstimate(ctx context.Context, req models.EstimateRequest) (*models.PricingEstimate, error) {
	f.estimateCalls.Add(1)
	f.mu.Lock()
	f.lastEstimate = req
	f.mu.Unlock()
	if req.PromoCode == "" && f.holdPlain != nil {
		f.plainStarted <- struct{}{}
		<-f.holdPlain
	}
	if f.estimateErr != nil {
		return nil, f.estimateErr
	}
	est := &models.PricingEstimate{}
	total := req.Impressions * 12
	if req.PromoCode != "" {
		total = total * 3 / 4
	}
	est.Pricing.TotalCost = models.Amount(total)
	return est, nil
}

func (f *fakeAdService) TargetingOptions(ctx context.Context) (*models.TargetingOptions, error) {
	return &models.TargetingOptions{Languages: models.Languages}, nil
}

func (f *fakeAdService) Create(ctx context.Context, req models.CreateAdRequest) (*models.Ad, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &req
	return &models.Ad{ID: "new-1", Title: req.Title, Text: req.Text, Status: models.AdDraft}, nil
}

func (f *fakeAdService) List(ctx context.Context, filter models.AdFilter) (*services.Page[models.Ad], error) {
	return &services.Page[models.Ad]{Items: append([]models.Ad{}, f.list...)}, nil
}

func (f *fakeAdService) Get(ctx context.Context, id string) (*models.Ad, error) {
	for _, a := range f.list {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, &client.APIError{Status: 404, Message: "Ad not found"}
}

func (f *fakeAdService) withStatus(id string, st models.AdStatus) (*models.Ad, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &models.Ad{ID: id, Status: st}, nil
}

func (f *fakeAdService) Pause(ctx context.Context, id string) (*models.Ad, error) {
	return f.withStatus(id, models.AdPaused)
}

func (f *fakeAdService) Resume(ctx context.Context, id string) (*models.Ad, error) {
	return f.withStatus(id, models.AdRunning)
}

func (f *fakeAdService) Submit(ctx context.Context, id string) (*models.Ad, error) {
	return f.withStatus(id, models.AdSubmitted)
}

func (f *fakeAdService) SetSchedule(ctx context.Context, id string, s models.Schedule) (*models.Ad, error) {
	return f.withStatus(id, models.AdApproved)
}

func (f *fakeAdService) Delete(ctx context.Context, id string) error {
	return f.deleteErr
}

func (f *fakeAdService) ToggleSave(ctx context.Context, id string) (bool, error) {
	if f.saved == nil {
		f.saved = map[string]bool{}
	}
	f.saved[id] = !f.saved[id]
	return f.saved[id], nil
}

func (f *fakeAdService) SendTest(ctx context.Context, id, telegramUserID string) error {
	f.testSentTo = telegramUserID
	return nil
}

func (f *fakeAdService) DailyStats(ctx context.Context, id string, days int) ([]models.StatPoint, error) {
	return make([]models.StatPoint, days), nil
}

type fakeBotService struct {
	services.BotService

	pauseGate chan struct{}
	pauseErr  error
	bots      []models.Bot
	deleted   []string
}

func (f *fakeBotService) List(ctx context.Context, filter models.BotFilter) (*services.Page[models.Bot], error) {
	return &services.Page[models.Bot]{Items: append([]models.Bot{}, f.bots...)}, nil
}

func (f *fakeBotService) SetPaused(ctx context.Context, id string, paused bool) (*models.Bot, error) {
	if f.pauseGate != nil {
		<-f.pauseGate
	}
	if f.pauseErr != nil {
		return nil, f.pauseErr
	}
	return &models.Bot{ID: id, IsPaused: paused, Status: models.BotPaused}, nil
}

func (f *fakeBotService) Register(ctx context.Context, req models.RegisterBotRequest) (*models.RegisteredBot, error) {
	return &models.RegisteredBot{Bot: models.Bot{ID: "bot-new", Category: req.Category}, APIKey: "key-1"}, nil
}

func (f *fakeBotService) Update(ctx context.Context, id string, req models.UpdateBotRequest) (*models.Bot, error) {
	b := models.Bot{ID: id}
	if req.FrequencyMinutes != nil {
		b.FrequencyMinutes = *req.FrequencyMinutes
	}
	return &b, nil
}

func (f *fakeBotService) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUserService struct {
	services.UserService

	profileErr   error
	analyticsErr error
	// blockAnalytics makes Analytics wait for ctx to end.
	blockAnalytics bool
	calls          atomic.Int32
}

func (f *fakeUserService) Profile(ctx context.Context) (*models.Profile, error) {
	f.calls.Add(1)
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return &models.Profile{User: models.User{ID: "u1", FirstName: "Aziz"}, Wallet: models.Wallet{Available: 100}}, nil
}

func (f *fakeUserService) Analytics(ctx context.Context, days int, kind models.AnalyticsKind) (*models.Analytics, error) {
	f.calls.Add(1)
	if f.blockAnalytics {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.analyticsErr != nil {
		return nil, f.analyticsErr
	}
	return &models.Analytics{Revenue: make([]models.RevenuePoint, days)}, nil
}

func (f *fakeUserService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.Profile, error) {
	return &models.Profile{User: models.User{ID: "u1", FirstName: req.FirstName, Locale: req.Locale}}, nil
}

func (f *fakeAdService) last() models.EstimateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastEstimate
}
