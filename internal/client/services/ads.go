package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/akhmads/adscli/internal/client/models"
)

// AdService covers the advertiser side: pricing, campaign lifecycle and stats.
type AdService interface {
	PricingTiers(ctx context.Context) ([]models.PricingTier, error)
	PricingEstimate(ctx context.Context, req models.EstimateRequest) (*models.PricingEstimate, error)
	TargetingOptions(ctx context.Context) (*models.TargetingOptions, error)
	Preview(ctx context.Context, req models.CreateAdRequest) (map[string]any, error)

	Create(ctx context.Context, req models.CreateAdRequest) (*models.Ad, error)
	List(ctx context.Context, f models.AdFilter) (*Page[models.Ad], error)
	Get(ctx context.Context, id string) (*models.Ad, error)
	Update(ctx context.Context, id string, req models.CreateAdRequest) (*models.Ad, error)
	Submit(ctx context.Context, id string) (*models.Ad, error)
	Pause(ctx context.Context, id string) (*models.Ad, error)
	Resume(ctx context.Context, id string) (*models.Ad, error)
	Delete(ctx context.Context, id string) error
	ToggleSave(ctx context.Context, id string) (bool, error)
	Archive(ctx context.Context, id string) (*models.Ad, error)
	Unarchive(ctx context.Context, id string) (*models.Ad, error)
	Saved(ctx context.Context) ([]models.Ad, error)

	SetSchedule(ctx context.Context, id string, s models.Schedule) (*models.Ad, error)
	RemoveSchedule(ctx context.Context, id string) (*models.Ad, error)
	SendTest(ctx context.Context, id, telegramUserID string) error

	DailyStats(ctx context.Context, id string, days int) ([]models.StatPoint, error)
	HourlyStats(ctx context.Context, id string) ([]models.StatPoint, error)
	OverviewStats(ctx context.Context, days int) ([]models.StatPoint, error)
	Performance(ctx context.Context, id string) (*models.AdPerformance, error)
	ExportImpressions(ctx context.Context, id string) ([]byte, error)
	Clicks(ctx context.Context, id string, limit, offset int) (*Page[models.AdClick], error)
}

// DefaultStatsDays is used when a stats call is given no positive window.
const DefaultStatsDays = 30

type adService struct {
	api API
}

func NewAdService(api API) AdService {
	return &adService{api: api}
}

// call performs req and decodes the payload found under key into out.
func (s *adService) call(ctx context.Context, req client.Request, key string, out any) error {
	var raw json.RawMessage
	if err := s.api.Do(ctx, req, &raw); err != nil {
		return err
	}
	return unwrap(raw, key, out)
}

func (s *adService) adCall(ctx context.Context, method, path string, body any) (*models.Ad, error) {
	var ad models.Ad
	if err := s.call(ctx, client.Request{Method: method, Path: path, Body: body}, "ad", &ad); err != nil {
		return nil, err
	}
	return &ad, nil
}

func (s *adService) PricingTiers(ctx context.Context) ([]models.PricingTier, error) {
	var tiers []models.PricingTier
	if err := s.call(ctx, client.Request{Method: http.MethodGet, Path: "/ads/pricing"}, "tiers", &tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

func (s *adService) PricingEstimate(ctx context.Context, req models.EstimateRequest) (*models.PricingEstimate, error) {
	var est models.PricingEstimate
	r := client.Request{Method: http.MethodPost, Path: "/ads/pricing/estimate", Body: req}
	if err := s.call(ctx, r, "estimate", &est); err != nil {
		return nil, err
	}
	return &est, nil
}

func (s *adService) TargetingOptions(ctx context.Context) (*models.TargetingOptions, error) {
	var opts models.TargetingOptions
	if err := s.call(ctx, client.Request{Method: http.MethodGet, Path: "/ads/targeting/options"}, "options", &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (s *adService) Preview(ctx context.Context, req models.CreateAdRequest) (map[string]any, error) {
	var preview map[string]any
	if err := s.call(ctx, client.Request{Method: http.MethodPost, Path: "/ads/preview", Body: req}, "preview", &preview); err != nil {
		return nil, err
	}
	return preview, nil
}

func (s *adService) Create(ctx context.Context, req models.CreateAdRequest) (*models.Ad, error) {
	return s.adCall(ctx, http.MethodPost, "/ads", req)
}

func (s *adService) List(ctx context.Context, f models.AdFilter) (*Page[models.Ad], error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Saved != nil {
		q.Set("saved", strconv.FormatBool(*f.Saved))
	}
	if f.Archived != nil {
		q.Set("archived", strconv.FormatBool(*f.Archived))
	}
	setInt(q, "limit", f.Limit)
	setInt(q, "offset", f.Offset)

	var raw json.RawMessage
	p, err := s.api.DoPage(ctx, client.Request{Method: http.MethodGet, Path: "/ads", Query: q}, &raw)
	if err != nil {
		return nil, err
	}

	page := &Page[models.Ad]{Items: []models.Ad{}, Pagination: p}
	if err := unwrap(raw, "ads", &page.Items); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []models.Ad{}
	}
	return page, nil
}

func (s *adService) Get(ctx context.Context, id string) (*models.Ad, error) {
	return s.adCall(ctx, http.MethodGet, pathf("/ads/%s", id), nil)
}

func (s *adService) Update(ctx context.Context, id string, req models.CreateAdRequest) (*models.Ad, error) {
	return s.adCall(ctx, http.MethodPut, pathf("/ads/%s", id), req)
}

func (s *adService) Submit(ctx context.Context, id string) (*models.Ad, error) {
	return s.adCall(ctx, http.MethodPost, pathf("/ads/%s/submit", id), nil)
}

func (s *adService) Pause(ctx context.Context, id string) (*models.Ad, error) {
	return s.adCall(ctx, http.MethodPost, pathf("/ads/%s/pause", id), nil)
}

func (s *adService) Resume(ctx context.Context, id string) (*models.Ad, error) {
	return s.adCall(ctx, http.MethodPost, pathf("/ads/%s/resume", id), nil)
}

func (s *adService) Delete(ctx context.Context, id string) error {
	return s.api.Do(ctx, client.Request{Method: http.MethodDelete, Path: pathf("/ads/%s", id)}, nil)
}

func (s *adService) ToggleSave(ctx context.Context, id string) (bool, error) {
	var out struct {
		Saved bool `json:"saved"`
	}
	if err := s.api.Do(ctx, client.Request{Method: http.MethodPost, Path: pathf("/ads/%s/save", id)}, &out); err != nil {
		return false, err
	}
	return out.Saved, nil
}

func (s *adService) Archive(ctx context.Context, id string) (*models.Ad, error) {
	return s.adCall(ctx, http.MethodPost, pathf("/ads/%s/archive", id), nil)
}

func (s *adService) Unarchive(ctx context.Context, id string) (*models.Ad, error) {
	return s.adCall(ctx, http.MethodPost, pathf("/ads/%s/unarchive", id), nil)
}

func (s *adService) Saved(ctx context.Context) ([]models.Ad, error) {
	ads := []models.Ad{}
	if err := s.call(ctx, client.Request{Method: http.MethodGet, Path: "/ads/saved"}, "ads", &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

func (s *adService) SetSchedule(ctx context.Context, id string, sch models.Schedule) (*models.Ad, error) {
	return s.adCall(ctx, http.MethodPost, pathf("/ads/%s/schedule", id), sch)
}

func (s *adService) RemoveSchedule(ctx context.Context, id string) (*models.Ad, error) {
	return s.adCall(ctx, http.MethodDelete, pathf("/ads/%s/schedule", id), nil)
}

func (s *adService) SendTest(ctx context.Context, id, telegramUserID string) error {
	req := client.Request{
		Method: http.MethodPost,
		Path:   pathf("/ads/%s/test", id),
		Body:   map[string]string{"telegramUserId": telegramUserID},
	}
	return s.api.Do(ctx, req, nil)
}

func (s *adService) stats(ctx context.Context, path string, q url.Values) ([]models.StatPoint, error) {
	stats := []models.StatPoint{}
	if err := s.call(ctx, client.Request{Method: http.MethodGet, Path: path, Query: q}, "stats", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func daysQuery(days int) url.Values {
	if days <= 0 {
		days = DefaultStatsDays
	}
	return url.Values{"days": {strconv.Itoa(days)}}
}

func (s *adService) DailyStats(ctx context.Context, id string, days int) ([]models.StatPoint, error) {
	return s.stats(ctx, pathf("/ads/%s/stats/daily", id), daysQuery(days))
}

func (s *adService) HourlyStats(ctx context.Context, id string) ([]models.StatPoint, error) {
	return s.stats(ctx, pathf("/ads/%s/stats/hourly", id), nil)
}

func (s *adService) OverviewStats(ctx context.Context, days int) ([]models.StatPoint, error) {
	return s.stats(ctx, "/ads/stats/overview", daysQuery(days))
}

func (s *adService) Performance(ctx context.Context, id string) (*models.AdPerformance, error) {
	var p models.AdPerformance
	if err := s.call(ctx, client.Request{Method: http.MethodGet, Path: pathf("/ads/%s/performance", id)}, "performance", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *adService) ExportImpressions(ctx context.Context, id string) ([]byte, error) {
	return s.api.GetRaw(ctx, pathf("/ads/%s/export", id), nil)
}

func (s *adService) Clicks(ctx context.Context, id string, limit, offset int) (*Page[models.AdClick], error) {
	q := url.Values{}
	setInt(q, "limit", limit)
	setInt(q, "offset", offset)

	var raw json.RawMessage
	p, err := s.api.DoPage(ctx, client.Request{Method: http.MethodGet, Path: pathf("/ads/%s/clicks", id), Query: q}, &raw)
	if err != nil {
		return nil, err
	}
	page := &Page[models.AdClick]{Items: []models.AdClick{}, Pagination: p}
	if err := unwrap(raw, "clicks", &page.Items); err != nil {
		return nil, err
	}
	return page, nil
}
