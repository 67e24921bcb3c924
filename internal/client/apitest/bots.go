package apitest

import (
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/common"
	"github.com/go-chi/chi/v5"
)

var botTokenRe = regexp.MustCompile(`^(\d+):[A-Za-z0-9_-]{35}$`)

func (s *Server) registerBot(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterBotRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid body")
		return
	}
	m := botTokenRe.FindStringSubmatch(req.Token)
	if m == nil {
		fail(w, http.StatusBadRequest, "Invalid bot token")
		return
	}

	s.mu.Lock()
	for _, b := range s.bots {
		if b.TelegramBotID == m[1] {
			s.mu.Unlock()
			fail(w, http.StatusConflict, "Bot already registered")
			return
		}
	}
	s.mu.Unlock()

	monetized := true
	if req.Monetized != nil {
		monetized = *req.Monetized
	}
	bot := s.AddBot(models.Bot{
		TelegramBotID:    m[1],
		Username:         "bot" + m[1] + "_bot",
		FirstName:        "Bot " + m[1],
		ShortDescription: req.ShortDescription,
		Category:         req.Category,
		Language:         req.Language,
		Monetized:        monetized,
		Status:           models.BotPending,
		PostFilter:       "all",
		FrequencyMinutes: 60,
	})
	ok(w, map[string]any{"bot": bot, "apiKey": "key-" + bot.ID})
}

func (s *Server) sortedBots() []models.Bot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Bot, 0, len(s.bots))
	for _, b := range s.bots {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) listBots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	var all []models.Bot
	for _, b := range s.sortedBots() {
		if status == "" || strings.EqualFold(string(b.Status), status) {
			all = append(all, b)
		}
	}
	page := paginate(all, limit, offset)
	okPage(w, map[string]any{"bots": page.items}, page.p)
}

func (s *Server) withBot(w http.ResponseWriter, r *http.Request, fn func(b *models.Bot) any) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	b, exists := s.bots[id]
	if !exists {
		s.mu.Unlock()
		fail(w, http.StatusNotFound, "Bot not found")
		return
	}
	out := fn(b)
	s.mu.Unlock()
	ok(w, out)
}

// getBot answers with the bare bot object; other bot routes wrap it.
func (s *Server) getBot(w http.ResponseWriter, r *http.Request) {
	s.withBot(w, r, func(b *models.Bot) any { return *b })
}

func (s *Server) updateBot(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateBotRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if req.FrequencyMinutes != nil && *req.FrequencyMinutes < 1 {
		fail(w, http.StatusBadRequest, "frequencyMinutes must be at least 1")
		return
	}
	s.withBot(w, r, func(b *models.Bot) any {
		if req.ShortDescription != nil {
			b.ShortDescription = *req.ShortDescription
		}
		if req.Category != nil {
			b.Category = *req.Category
		}
		if req.Language != nil {
			b.Language = *req.Language
		}
		if req.Monetized != nil {
			b.Monetized = *req.Monetized
		}
		if req.IsPaused != nil {
			b.IsPaused = *req.IsPaused
		}
		if req.PostFilter != nil {
			b.PostFilter = *req.PostFilter
		}
		if req.AllowedCategories != nil {
			b.AllowedCategories = req.AllowedCategories
		}
		if req.BlockedCategories != nil {
			b.BlockedCategories = req.BlockedCategories
		}
		if req.FrequencyMinutes != nil {
			b.FrequencyMinutes = *req.FrequencyMinutes
		}
		return map[string]any{"bot": *b}
	})
}

func (s *Server) deleteBot(w http.ResponseWriter, r *http.Request) {
	s.withBot(w, r, func(b *models.Bot) any {
		delete(s.bots, b.ID)
		return map[string]any{"deleted": true}
	})
}

func (s *Server) pauseBot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsPaused bool `json:"isPaused"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid body")
		return
	}
	s.withBot(w, r, func(b *models.Bot) any {
		b.IsPaused = req.IsPaused
		if req.IsPaused {
			b.Status = models.BotPaused
		} else {
			b.Status = models.BotActive
		}
		return *b
	})
}

func (s *Server) regenerateKey(w http.ResponseWriter, r *http.Request) {
	s.withBot(w, r, func(b *models.Bot) any {
		suffix, _ := common.MakeRandHexString(12)
		b.APIKey = "key-" + suffix
		return map[string]any{"apiKey": b.APIKey}
	})
}

func (s *Server) botStats(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	days := map[string]int{"7d": 7, "30d": 30, "90d": 90}[period]
	if days == 0 {
		fail(w, http.StatusBadRequest, "period must be one of 7d, 30d, 90d")
		return
	}
	s.withBot(w, r, func(b *models.Bot) any {
		st := models.BotStats{Bot: *b, Period: days, TotalImpressions: 70 * days, TotalRevenue: models.Amount(700 * days)}
		return st
	})
}
