package apitest

import (
	"net/http"
	"strconv"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p := s.profile
	s.mu.Unlock()
	ok(w, p)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if req.Locale != "" && req.Locale != "uz" && req.Locale != "ru" && req.Locale != "en" {
		fail(w, http.StatusBadRequest, "Unsupported locale")
		return
	}

	s.mu.Lock()
	if req.FirstName != "" {
		s.user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		s.user.LastName = req.LastName
	}
	if req.Email != "" {
		s.user.Email = req.Email
	}
	if req.Locale != "" {
		s.user.Locale = req.Locale
	}
	s.profile.User = s.user
	p := s.profile
	s.mu.Unlock()

	ok(w, p)
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if kind != string(models.AnalyticsAdvertiser) && kind != string(models.AnalyticsOwner) {
		fail(w, http.StatusNotFound, "Unknown analytics")
		return
	}
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days <= 0 {
		days = 7
	}

	a := models.Analytics{}
	for i := 0; i < days; i++ {
		date := "2025-01-" + strconv.Itoa(i%28+1)
		a.Revenue = append(a.Revenue, models.RevenuePoint{Date: date, Earnings: models.Amount(1000 * (i + 1))})
		a.CTR = append(a.CTR, models.CTRPoint{Date: date, CTR: 2.5})
	}
	ok(w, a)
}
