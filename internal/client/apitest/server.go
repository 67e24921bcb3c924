// Package apitest runs an in-process fake of the marketplace REST API for
// tests. It keeps ads, bots and the signed-in user in memory, issues rotating
// token pairs, counts calls per route and can be told to fail a route.
package apitest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/go-chi/chi/v5"
)

const BasePath = "/api/v1"

type failure struct {
	status  int
	message string
	times   int // <=0 means until cleared
}

type Server struct {
	srv *httptest.Server

	mu sync.Mutex

	user         models.User
	profile      models.Profile
	accessToken  string
	refreshToken string
	tokenSeq     int

	// login flow
	AuthorizeAfter int // status polls answered "not yet" before authorizing
	ExpireLogin    bool
	loginPolls     map[string]int

	ads     map[string]*models.Ad
	adOrder []string
	saved   map[string]bool
	bots    map[string]*models.Bot
	botSeq  int
	adSeq   int

	calls     map[string]int
	rejected  map[string]int
	failures  map[string]*failure
	testSent  map[string]string
	schedules map[string]*models.Schedule
}

// New starts the fake and registers Close with t.
func New(t testing.TB) *Server {
	s := &Server{
		user: models.User{
			ID:         "user-1",
			TelegramID: "5550001",
			FirstName:  "Aziz",
			Username:   "aziz",
			Role:       "ADVERTISER",
			Locale:     "uz",
			IsActive:   true,
		},
		loginPolls: map[string]int{},
		ads:        map[string]*models.Ad{},
		saved:      map[string]bool{},
		bots:       map[string]*models.Bot{},
		calls:      map[string]int{},
		rejected:   map[string]int{},
		failures:   map[string]*failure{},
		testSent:   map[string]string{},
		schedules:  map[string]*models.Schedule{},
	}
	s.profile = models.Profile{
		User:   s.user,
		Wallet: models.Wallet{ID: "wallet-1", UserID: s.user.ID, Available: 250000},
		Stats:  models.UserStats{TotalImpressions: 1200, TotalClicks: 36, AverageCTR: 3},
	}
	s.rotateTokens()

	r := chi.NewRouter()
	r.Route(BasePath, s.Register)
	s.srv = httptest.NewServer(r)
	if t != nil {
		t.Cleanup(s.srv.Close)
	}
	return s
}

// URL is the API base URL to hand to client.New.
func (s *Server) URL() string { return s.srv.URL + BasePath }

func (s *Server) Close() { s.srv.Close() }

func (s *Server) Register(mx chi.Router) {
	mx.Post("/auth/login/initiate", s.route("POST /auth/login/initiate", s.initiateLogin))
	mx.Get("/auth/login/status/{token}", s.route("GET /auth/login/status", s.loginStatus))
	mx.Post("/auth/refresh", s.route("POST /auth/refresh", s.refresh))

	mx.Group(func(mx chi.Router) {
		mx.Use(s.auth)

		mx.Get("/auth/me", s.route("GET /auth/me", s.me))
		mx.Post("/auth/logout", s.route("POST /auth/logout", s.logout))

		mx.Get("/ads/pricing", s.route("GET /ads/pricing", s.pricingTiers))
		mx.Post("/ads/pricing/estimate", s.route("POST /ads/pricing/estimate", s.pricingEstimate))
		mx.Get("/ads/targeting/options", s.route("GET /ads/targeting/options", s.targetingOptions))
		mx.Post("/ads/preview", s.route("POST /ads/preview", s.preview))
		mx.Get("/ads/saved", s.route("GET /ads/saved", s.savedAds))
		mx.Get("/ads/stats/overview", s.route("GET /ads/stats/overview", s.overviewStats))
		mx.Post("/ads", s.route("POST /ads", s.createAd))
		mx.Get("/ads", s.route("GET /ads", s.listAds))
		mx.Get("/ads/{id}", s.route("GET /ads/{id}", s.getAd))
		mx.Put("/ads/{id}", s.route("PUT /ads/{id}", s.updateAd))
		mx.Delete("/ads/{id}", s.route("DELETE /ads/{id}", s.deleteAd))
		mx.Post("/ads/{id}/submit", s.route("POST /ads/{id}/submit", s.setAdStatus(models.AdSubmitted)))
		mx.Post("/ads/{id}/pause", s.route("POST /ads/{id}/pause", s.setAdStatus(models.AdPaused)))
		mx.Post("/ads/{id}/resume", s.route("POST /ads/{id}/resume", s.setAdStatus(models.AdRunning)))
		mx.Post("/ads/{id}/archive", s.route("POST /ads/{id}/archive", s.setAdStatus(models.AdArchived)))
		mx.Post("/ads/{id}/unarchive", s.route("POST /ads/{id}/unarchive", s.setAdStatus(models.AdDraft)))
		mx.Post("/ads/{id}/save", s.route("POST /ads/{id}/save", s.toggleSave))
		mx.Post("/ads/{id}/schedule", s.route("POST /ads/{id}/schedule", s.schedule))
		mx.Delete("/ads/{id}/schedule", s.route("DELETE /ads/{id}/schedule", s.schedule))
		mx.Post("/ads/{id}/test", s.route("POST /ads/{id}/test", s.sendTest))
		mx.Get("/ads/{id}/stats/daily", s.route("GET /ads/{id}/stats/daily", s.dailyStats))
		mx.Get("/ads/{id}/stats/hourly", s.route("GET /ads/{id}/stats/hourly", s.hourlyStats))
		mx.Get("/ads/{id}/performance", s.route("GET /ads/{id}/performance", s.performance))
		mx.Get("/ads/{id}/export", s.route("GET /ads/{id}/export", s.export))
		mx.Get("/ads/{id}/clicks", s.route("GET /ads/{id}/clicks", s.clicks))

		mx.Post("/bots", s.route("POST /bots", s.registerBot))
		mx.Get("/bots", s.route("GET /bots", s.listBots))
		mx.Get("/bots/{id}", s.route("GET /bots/{id}", s.getBot))
		mx.Put("/bots/{id}", s.route("PUT /bots/{id}", s.updateBot))
		mx.Delete("/bots/{id}", s.route("DELETE /bots/{id}", s.deleteBot))
		mx.Post("/bots/{id}/pause", s.route("POST /bots/{id}/pause", s.pauseBot))
		mx.Post("/bots/{id}/regenerate-api-key", s.route("POST /bots/{id}/regenerate-api-key", s.regenerateKey))
		mx.Get("/bots/{id}/stats", s.route("GET /bots/{id}/stats", s.botStats))

		mx.Get("/user/profile", s.route("GET /user/profile", s.getProfile))
		mx.Put("/user/profile", s.route("PUT /user/profile", s.updateProfile))
		mx.Get("/analytics/{kind}/overview", s.route("GET /analytics/{kind}/overview", s.analytics))
	})
}

// route counts calls and applies injected failures before h runs.
func (s *Server) route(key string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[key]++
		f := s.failures[key]
		if f != nil && f.times > 0 {
			f.times--
			if f.times == 0 {
				delete(s.failures, key)
			}
		}
		s.mu.Unlock()

		if f != nil {
			fail(w, f.status, f.message)
			return
		}
		h(w, r)
	}
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		valid := ok && token != "" && token == s.accessToken
		if !valid {
			s.rejected[r.Method+" "+strings.TrimPrefix(r.URL.Path, BasePath)]++
		}
		s.mu.Unlock()
		if !valid {
			fail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Calls returns how many times the route key ("METHOD /pattern") was hit.
func (s *Server) Calls(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

// Rejected returns how many requests to "METHOD /path" the bearer check
// turned away with 401. Rejected requests never reach a route and are not
// counted by Calls.
func (s *Server) Rejected(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rejected[key]
}

// Fail makes the route answer status/message. times <= 0 fails until
// ClearFailures.
func (s *Server) Fail(key string, status int, message string, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = &failure{status: status, message: message, times: times}
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]*failure{}
}

// Tokens returns the pair the fake currently accepts.
func (s *Server) Tokens() models.Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Tokens{AccessToken: s.accessToken, RefreshToken: s.refreshToken}
}

// ExpireAccessToken invalidates the current access token; the refresh token
// keeps working.
func (s *Server) ExpireAccessToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = fmt.Sprintf("expired-%d", s.tokenSeq)
}

// RevokeSession invalidates both tokens.
func (s *Server) RevokeSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = fmt.Sprintf("revoked-access-%d", s.tokenSeq)
	s.refreshToken = fmt.Sprintf("revoked-refresh-%d", s.tokenSeq)
}

func (s *Server) User() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// AddAd seeds an ad owned by the signed-in user.
func (s *Server) AddAd(ad models.Ad) models.Ad {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ad.ID == "" {
		s.adSeq++
		ad.ID = fmt.Sprintf("ad-%d", s.adSeq)
	}
	if ad.Status == "" {
		ad.Status = models.AdDraft
	}
	ad.AdvertiserID = s.user.ID
	s.ads[ad.ID] = &ad
	s.adOrder = append(s.adOrder, ad.ID)
	return ad
}

// Ad returns the stored ad, if any.
func (s *Server) Ad(id string) (models.Ad, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ad, ok := s.ads[id]
	if !ok {
		return models.Ad{}, false
	}
	return *ad, true
}

// AddBot seeds a bot owned by the signed-in user.
func (s *Server) AddBot(b models.Bot) models.Bot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		s.botSeq++
		b.ID = fmt.Sprintf("bot-%d", s.botSeq)
	}
	if b.Status == "" {
		b.Status = models.BotActive
	}
	b.OwnerID = s.user.ID
	s.bots[b.ID] = &b
	return b
}

func (s *Server) Bot(id string) (models.Bot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bots[id]
	if !ok {
		return models.Bot{}, false
	}
	return *b, true
}

// TestRecipient returns who received the test send of the ad.
func (s *Server) TestRecipient(adID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.testSent[adID]
}

// Schedule returns the schedule stored for the ad, or nil.
func (s *Server) Schedule(adID string) *models.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedules[adID]
}

// rotateTokens issues a new pair; callers hold s.mu or own s exclusively.
func (s *Server) rotateTokens() models.Tokens {
	s.tokenSeq++
	s.accessToken = fmt.Sprintf("access-%d", s.tokenSeq)
	s.refreshToken = fmt.Sprintf("refresh-%d", s.tokenSeq)
	return models.Tokens{AccessToken: s.accessToken, RefreshToken: s.refreshToken}
}

func ok(w http.ResponseWriter, data any) {
	respond(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func okPage(w http.ResponseWriter, data any, p models.Pagination) {
	respond(w, http.StatusOK, map[string]any{"success": true, "data": data, "pagination": p})
}

func fail(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]any{"success": false, "message": message})
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
