package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/akhmads/adscli/internal/client/models"
)

// BotService covers the bot owner side.
type BotService interface {
	Register(ctx context.Context, req models.RegisterBotRequest) (*models.RegisteredBot, error)
	List(ctx context.Context, f models.BotFilter) (*Page[models.Bot], error)
	Get(ctx context.Context, id string) (*models.Bot, error)
	Update(ctx context.Context, id string, req models.UpdateBotRequest) (*models.Bot, error)
	Delete(ctx context.Context, id string) error
	SetPaused(ctx context.Context, id string, paused bool) (*models.Bot, error)
	RegenerateAPIKey(ctx context.Context, id string) (string, error)
	Stats(ctx context.Context, id string, period string) (*models.BotStats, error)
}

// Stats periods accepted by the backend.
const (
	Period7d  = "7d"
	Period30d = "30d"
	Period90d = "90d"
)

type botService struct {
	api API
}

func NewBotService(api API) BotService {
	return &botService{api: api}
}

func (s *botService) botCall(ctx context.Context, req client.Request) (*models.Bot, error) {
	var raw json.RawMessage
	if err := s.api.Do(ctx, req, &raw); err != nil {
		return nil, err
	}
	var b models.Bot
	if err := unwrap(raw, "bot", &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Register returns the new bot and its API key. Older backends answer with
// the bare bot; the key is then empty.
func (s *botService) Register(ctx context.Context, req models.RegisterBotRequest) (*models.RegisteredBot, error) {
	var raw json.RawMessage
	if err := s.api.Do(ctx, client.Request{Method: http.MethodPost, Path: "/bots", Body: req}, &raw); err != nil {
		return nil, err
	}

	var reg models.RegisteredBot
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, err
	}
	if reg.Bot.ID == "" {
		if err := json.Unmarshal(raw, &reg.Bot); err != nil {
			return nil, err
		}
	}
	if reg.APIKey == "" {
		reg.APIKey = reg.Bot.APIKey
	}
	return &reg, nil
}

func (s *botService) List(ctx context.Context, f models.BotFilter) (*Page[models.Bot], error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	setInt(q, "limit", f.Limit)
	setInt(q, "offset", f.Offset)

	var raw json.RawMessage
	p, err := s.api.DoPage(ctx, client.Request{Method: http.MethodGet, Path: "/bots", Query: q}, &raw)
	if err != nil {
		return nil, err
	}
	page := &Page[models.Bot]{Items: []models.Bot{}, Pagination: p}
	if err := unwrap(raw, "bots", &page.Items); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []models.Bot{}
	}
	return page, nil
}

func (s *botService) Get(ctx context.Context, id string) (*models.Bot, error) {
	return s.botCall(ctx, client.Request{Method: http.MethodGet, Path: pathf("/bots/%s", id)})
}

func (s *botService) Update(ctx context.Context, id string, req models.UpdateBotRequest) (*models.Bot, error) {
	return s.botCall(ctx, client.Request{Method: http.MethodPut, Path: pathf("/bots/%s", id), Body: req})
}

func (s *botService) Delete(ctx context.Context, id string) error {
	return s.api.Do(ctx, client.Request{Method: http.MethodDelete, Path: pathf("/bots/%s", id)}, nil)
}

func (s *botService) SetPaused(ctx context.Context, id string, paused bool) (*models.Bot, error) {
	return s.botCall(ctx, client.Request{
		Method: http.MethodPost,
		Path:   pathf("/bots/%s/pause", id),
		Body:   map[string]bool{"isPaused": paused},
	})
}

func (s *botService) RegenerateAPIKey(ctx context.Context, id string) (string, error) {
	var out struct {
		APIKey string `json:"apiKey"`
	}
	if err := s.api.Do(ctx, client.Request{Method: http.MethodPost, Path: pathf("/bots/%s/regenerate-api-key", id)}, &out); err != nil {
		return "", err
	}
	return out.APIKey, nil
}

func (s *botService) Stats(ctx context.Context, id string, period string) (*models.BotStats, error) {
	if period == "" {
		period = Period7d
	}
	var st models.BotStats
	req := client.Request{Method: http.MethodGet, Path: pathf("/bots/%s/stats", id), Query: url.Values{"period": {period}}}
	if err := s.api.Do(ctx, req, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
