package apitest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/go-chi/chi/v5"
)

var errInvalidPromo = errors.New("Invalid promo code")

// PromoCodes maps accepted codes to their discount in percent.
var PromoCodes = map[string]float64{"SPRING25": 25, "WELCOME": 10}

var tiers = []models.PricingTier{
	{ID: "starter", Name: "Starter", Impressions: 1000, CPMBase: 15000, IsActive: true, SortOrder: 1},
	{ID: "growth", Name: "Growth", Impressions: 10000, CPMBase: 12000, Discount: 10, IsActive: true, SortOrder: 2},
	{ID: "scale", Name: "Scale", Impressions: 100000, CPMBase: 9000, Discount: 25, IsActive: true, SortOrder: 3},
}

func tierFor(impressions int) models.PricingTier {
	t := tiers[0]
	for _, candidate := range tiers {
		if impressions >= candidate.Impressions {
			t = candidate
		}
	}
	return t
}

// Estimate is the pricing the fake quotes; exported so tests can assert it.
func Estimate(req models.EstimateRequest) (models.PricingEstimate, error) {
	var est models.PricingEstimate
	est.Tier = tierFor(req.Impressions)

	cpm := float64(est.Tier.CPMBase)
	if req.CPMBid != nil && *req.CPMBid > cpm {
		cpm = *req.CPMBid
	}
	targeting := 1.0
	if req.Targeting != nil {
		targeting += 0.05 * float64(len(req.Targeting.AISegments))
	}

	finalCPM := cpm * targeting
	base := float64(req.Impressions) / 1000 * cpm
	subtotal := float64(req.Impressions) / 1000 * finalCPM

	discount := 0.0
	if req.PromoCode != "" {
		pct, known := PromoCodes[strings.ToUpper(req.PromoCode)]
		if !known {
			return est, errInvalidPromo
		}
		discount = subtotal * pct / 100
	}
	total := subtotal - discount

	est.Pricing.BaseCPM = models.Amount(cpm)
	est.Pricing.CategoryMultiplier = 1
	est.Pricing.TargetingMultiplier = targeting
	est.Pricing.FinalCPM = models.Amount(finalCPM)
	est.Pricing.PlatformFee = models.Amount(total * 0.3)
	est.Pricing.TotalCost = models.Amount(total)
	est.Pricing.Discount = models.Amount(discount)
	est.Pricing.BotOwnerRevenue = models.Amount(total * 0.7)
	est.Breakdown.BaseCost = models.Amount(base)
	est.Breakdown.TargetingAdjustment = models.Amount(subtotal - base)
	est.Breakdown.Subtotal = models.Amount(subtotal)
	est.Breakdown.Discount = models.Amount(discount)
	est.Breakdown.Total = models.Amount(total)
	return est, nil
}

func (s *Server) pricingTiers(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]any{"tiers": tiers})
}

func (s *Server) pricingEstimate(w http.ResponseWriter, r *http.Request) {
	var req models.EstimateRequest
	if err := decode(r, &req); err != nil || req.Impressions <= 0 {
		fail(w, http.StatusBadRequest, "impressions is required")
		return
	}
	est, err := Estimate(req)
	if err != nil {
		fail(w, http.StatusBadRequest, err.Error())
		return
	}
	ok(w, map[string]any{"estimate": est})
}

func (s *Server) targetingOptions(w http.ResponseWriter, r *http.Request) {
	var opts models.TargetingOptions
	for _, c := range models.BotCategories {
		opts.Categories = append(opts.Categories, struct {
			ID         string               `json:"id"`
			Name       models.LocalizedName `json:"name"`
			Multiplier float64              `json:"multiplier"`
		}{ID: c.ID, Name: models.LocalizedName{UZ: c.NameUZ, RU: c.NameRU, EN: c.NameEN}, Multiplier: 1})
	}
	opts.AISegments = []models.AISegment{
		{ID: "students", NameEN: "Students", Multiplier: 1.05},
		{ID: "gamers", NameEN: "Gamers", Multiplier: 1.05},
	}
	opts.Languages = models.Languages
	opts.Frequencies = []string{"unique", "daily", "unlimited"}
	ok(w, map[string]any{"options": opts})
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid body")
		return
	}
	ok(w, map[string]any{"preview": map[string]any{"text": req.Text, "buttons": req.Buttons}})
}

func (s *Server) createAd(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if len(strings.TrimSpace(req.Text)) < 10 {
		fail(w, http.StatusBadRequest, "Text must be at least 10 characters")
		return
	}

	est, err := Estimate(models.EstimateRequest{Impressions: req.TargetImpressions, Targeting: req.Targeting, CPMBid: req.CPMBid, PromoCode: req.PromoCode})
	if err != nil {
		fail(w, http.StatusBadRequest, err.Error())
		return
	}

	ad := models.Ad{
		ContentType:       req.ContentType,
		Title:             req.Title,
		Text:              req.Text,
		MediaURL:          req.MediaURL,
		Buttons:           req.Buttons,
		Poll:              req.Poll,
		TargetImpressions: req.TargetImpressions,
		Targeting:         req.Targeting,
		PromoCodeUsed:     strings.ToUpper(req.PromoCode),
		BaseCPM:           est.Pricing.BaseCPM,
		FinalCPM:          est.Pricing.FinalCPM,
		TotalCost:         est.Pricing.TotalCost,
		RemainingBudget:   est.Pricing.TotalCost,
		Discount:          est.Pricing.Discount,
	}
	ok(w, map[string]any{"ad": s.AddAd(ad)})
}

func (s *Server) listAds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	archived := q.Get("archived") == "true"
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	s.mu.Lock()
	var all []models.Ad
	for _, id := range s.adOrder {
		ad, exists := s.ads[id]
		if !exists {
			continue
		}
		if status != "" && string(ad.Status) != status {
			continue
		}
		if !archived && status == "" && ad.Status == models.AdArchived {
			continue
		}
		if q.Get("saved") == "true" && !s.saved[id] {
			continue
		}
		all = append(all, *ad)
	}
	s.mu.Unlock()

	page := paginate(all, limit, offset)
	okPage(w, page.items, page.p)
}

func (s *Server) savedAds(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ads := []models.Ad{}
	for _, id := range s.adOrder {
		if ad, exists := s.ads[id]; exists && s.saved[id] {
			ads = append(ads, *ad)
		}
	}
	s.mu.Unlock()
	ok(w, map[string]any{"ads": ads})
}

// withAd runs fn on the stored ad under the lock or answers 404.
func (s *Server) withAd(w http.ResponseWriter, r *http.Request, fn func(ad *models.Ad) any) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	ad, exists := s.ads[id]
	if !exists {
		s.mu.Unlock()
		fail(w, http.StatusNotFound, "Ad not found")
		return
	}
	out := fn(ad)
	s.mu.Unlock()
	ok(w, out)
}

func (s *Server) getAd(w http.ResponseWriter, r *http.Request) {
	s.withAd(w, r, func(ad *models.Ad) any { return map[string]any{"ad": *ad} })
}

func (s *Server) updateAd(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid body")
		return
	}
	s.withAd(w, r, func(ad *models.Ad) any {
		if req.Title != "" {
			ad.Title = req.Title
		}
		if req.Text != "" {
			ad.Text = req.Text
		}
		if req.TargetImpressions > 0 {
			ad.TargetImpressions = req.TargetImpressions
		}
		if req.Buttons != nil {
			ad.Buttons = req.Buttons
		}
		if req.Targeting != nil {
			ad.Targeting = req.Targeting
		}
		return map[string]any{"ad": *ad}
	})
}

func (s *Server) deleteAd(w http.ResponseWriter, r *http.Request) {
	s.withAd(w, r, func(ad *models.Ad) any {
		delete(s.ads, ad.ID)
		return nil
	})
}

func (s *Server) setAdStatus(status models.AdStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.withAd(w, r, func(ad *models.Ad) any {
			ad.Status = status
			return map[string]any{"ad": *ad}
		})
	}
}

func (s *Server) toggleSave(w http.ResponseWriter, r *http.Request) {
	s.withAd(w, r, func(ad *models.Ad) any {
		s.saved[ad.ID] = !s.saved[ad.ID]
		return map[string]any{"saved": s.saved[ad.ID]}
	})
}

func (s *Server) schedule(w http.ResponseWriter, r *http.Request) {
	var sch *models.Schedule
	if r.Method == http.MethodPost {
		sch = &models.Schedule{}
		if err := decode(r, sch); err != nil || sch.StartDate == "" || sch.EndDate == "" {
			fail(w, http.StatusBadRequest, "startDate and endDate are required")
			return
		}
	}
	s.withAd(w, r, func(ad *models.Ad) any {
		if sch == nil {
			delete(s.schedules, ad.ID)
		} else {
			s.schedules[ad.ID] = sch
		}
		return map[string]any{"ad": *ad}
	})
}

func (s *Server) sendTest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TelegramUserID string `json:"telegramUserId"`
	}
	if err := decode(r, &req); err != nil || req.TelegramUserID == "" {
		fail(w, http.StatusBadRequest, "telegramUserId is required")
		return
	}
	s.withAd(w, r, func(ad *models.Ad) any {
		s.testSent[ad.ID] = req.TelegramUserID
		return map[string]any{"sent": true}
	})
}

func (s *Server) dailyStats(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days <= 0 {
		days = 30
	}
	s.withAd(w, r, func(ad *models.Ad) any {
		stats := make([]models.StatPoint, 0, days)
		for i := 0; i < days; i++ {
			stats = append(stats, models.StatPoint{
				Date:        fmt.Sprintf("2025-01-%02d", i%28+1),
				Impressions: 100 + i,
				Clicks:      3,
				CTR:         3,
				Spent:       1500,
			})
		}
		return map[string]any{"stats": stats}
	})
}

func (s *Server) hourlyStats(w http.ResponseWriter, r *http.Request) {
	s.withAd(w, r, func(ad *models.Ad) any {
		stats := make([]models.StatPoint, 0, 24)
		for h := 0; h < 24; h++ {
			hour := h
			stats = append(stats, models.StatPoint{Hour: &hour, Impressions: 10 * h})
		}
		return map[string]any{"stats": stats}
	})
}

func (s *Server) overviewStats(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]any{"stats": []models.StatPoint{
		{Date: "2025-01-01", Impressions: 400, Clicks: 12, CTR: 3, Spent: 6000},
		{Date: "2025-01-02", Impressions: 600, Clicks: 15, CTR: 2.5, Spent: 9000},
	}})
}

func (s *Server) performance(w http.ResponseWriter, r *http.Request) {
	s.withAd(w, r, func(ad *models.Ad) any {
		var p models.AdPerformance
		p.Ad.ID = ad.ID
		p.Ad.Title = ad.Title
		p.Ad.Status = ad.Status
		p.Ad.TargetImpressions = ad.TargetImpressions
		p.Ad.DeliveredImpressions = ad.DeliveredImpressions
		p.Ad.Clicks = ad.Clicks
		p.Ad.TotalCost = ad.TotalCost
		p.TotalClicks = ad.Clicks
		return map[string]any{"performance": p}
	})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, exists := s.Ad(id); !exists {
		fail(w, http.StatusNotFound, "Ad not found")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	_, _ = fmt.Fprintf(w, "ad_id,date,impressions\n%s,2025-01-01,100\n", id)
}

func (s *Server) clicks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, exists := s.Ad(id); !exists {
		fail(w, http.StatusNotFound, "Ad not found")
		return
	}
	clicks := []models.AdClick{
		{ID: "c1", BotID: "bot-1", TelegramUserID: "777", URL: "https://example.com", CreatedAt: "2025-01-01T10:00:00Z"},
		{ID: "c2", BotID: "bot-1", TelegramUserID: "778", URL: "https://example.com", CreatedAt: "2025-01-01T11:00:00Z"},
	}
	okPage(w, map[string]any{"clicks": clicks}, models.Pagination{Page: 1, Limit: 50, Total: 2, TotalPages: 1})
}

type page[T any] struct {
	items []T
	p     models.Pagination
}

func paginate[T any](all []T, limit, offset int) page[T] {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 || offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	items := append([]T{}, all[offset:end]...)
	return page[T]{
		items: items,
		p: models.Pagination{
			Page:       offset/limit + 1,
			Limit:      limit,
			Total:      len(all),
			TotalPages: (len(all) + limit - 1) / limit,
		},
	}
}
