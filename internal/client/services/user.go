package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/akhmads/adscli/internal/client/models"
)

type UserService interface {
	Profile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.Profile, error)
	Analytics(ctx context.Context, days int, kind models.AnalyticsKind) (*models.Analytics, error)
}

const DefaultAnalyticsDays = 7

type userService struct {
	api API
}

func NewUserService(api API) UserService {
	return &userService{api: api}
}

func (s *userService) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := s.api.Do(ctx, client.Request{Method: http.MethodGet, Path: "/user/profile"}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *userService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.Profile, error) {
	var p models.Profile
	if err := s.api.Do(ctx, client.Request{Method: http.MethodPut, Path: "/user/profile", Body: req}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *userService) Analytics(ctx context.Context, days int, kind models.AnalyticsKind) (*models.Analytics, error) {
	if days <= 0 {
		days = DefaultAnalyticsDays
	}
	path := "/analytics/advertiser/overview"
	if kind == models.AnalyticsOwner {
		path = "/analytics/owner/overview"
	}

	a := models.Analytics{Revenue: []models.RevenuePoint{}, CTR: []models.CTRPoint{}}
	req := client.Request{Method: http.MethodGet, Path: path, Query: url.Values{"days": {strconv.Itoa(days)}}}
	if err := s.api.Do(ctx, req, &a); err != nil {
		return nil, err
	}
	if a.Revenue == nil {
		a.Revenue = []models.RevenuePoint{}
	}
	if a.CTR == nil {
		a.CTR = []models.CTRPoint{}
	}
	return &a, nil
}
