package services

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/akhmads/adscli/internal/client/models"
)

// AuthService covers the Telegram login handshake and the token lifecycle.
type AuthService interface {
	InitiateLogin(ctx context.Context) (*models.LoginChallenge, error)
	LoginStatus(ctx context.Context, loginToken string) (*models.LoginStatus, error)
	Me(ctx context.Context) (*models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Tokens, error)
	Logout(ctx context.Context) error
}

type authService struct {
	api API
}

func NewAuthService(api API) AuthService {
	return &authService{api: api}
}

func (a *authService) InitiateLogin(ctx context.Context) (*models.LoginChallenge, error) {
	var ch models.LoginChallenge
	if err := a.api.Do(ctx, client.Request{Method: http.MethodPost, Path: "/auth/login/initiate"}, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (a *authService) LoginStatus(ctx context.Context, loginToken string) (*models.LoginStatus, error) {
	var st models.LoginStatus
	req := client.Request{Method: http.MethodGet, Path: pathf("/auth/login/status/%s", loginToken)}
	if err := a.api.Do(ctx, req, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (a *authService) Me(ctx context.Context) (*models.User, error) {
	var raw json.RawMessage
	if err := a.api.Do(ctx, client.Request{Method: http.MethodGet, Path: "/auth/me"}, &raw); err != nil {
		return nil, err
	}
	var u models.User
	if err := unwrap(raw, "user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Refresh is sent without 401 recovery: a rejected refresh token is final.
func (a *authService) Refresh(ctx context.Context, refreshToken string) (*models.Tokens, error) {
	var raw json.RawMessage
	req := client.Request{
		Method:          http.MethodPost,
		Path:            "/auth/refresh",
		Body:            map[string]string{"refreshToken": refreshToken},
		SkipAuthRefresh: true,
	}
	if err := a.api.Do(ctx, req, &raw); err != nil {
		return nil, err
	}

	var t models.Tokens
	if err := unwrap(raw, "tokens", &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.api.Do(ctx, client.Request{Method: http.MethodPost, Path: "/auth/logout", SkipAuthRefresh: true}, nil)
}
