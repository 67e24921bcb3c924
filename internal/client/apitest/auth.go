package apitest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) initiateLogin(w http.ResponseWriter, r *http.Request) {
	token := uuid.NewString()
	s.mu.Lock()
	s.loginPolls[token] = 0
	s.mu.Unlock()

	ok(w, map[string]any{
		"loginToken": token,
		"deepLink":   "https://t.me/akhmads_bot?start=" + token,
		"code":       "4821",
		"codes":      []string{"4821", "1937", "7704", "3315"},
		"expiresAt":  time.Now().Add(5 * time.Minute).UTC().Format(time.RFC3339),
		"expiresIn":  300,
	})
}

func (s *Server) loginStatus(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	s.mu.Lock()
	defer s.mu.Unlock()

	polls, known := s.loginPolls[token]
	if !known {
		fail(w, http.StatusNotFound, "Login session not found")
		return
	}
	if s.ExpireLogin {
		ok(w, map[string]any{"authorized": false, "expired": true})
		return
	}

	polls++
	s.loginPolls[token] = polls
	if polls <= s.AuthorizeAfter {
		ok(w, map[string]any{"authorized": false})
		return
	}

	tokens := s.rotateTokens()
	ok(w, map[string]any{"authorized": true, "tokens": tokens, "user": s.user})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.RefreshToken == "" || req.RefreshToken != s.refreshToken {
		fail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	ok(w, map[string]any{"tokens": s.rotateTokens()})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.user
	s.mu.Unlock()
	ok(w, u)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.mu.Unlock()
	ok(w, nil)
}
