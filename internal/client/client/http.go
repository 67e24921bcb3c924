package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/common"
	"github.com/akhmads/adscli/internal/logging"
	"github.com/google/uuid"
)

const DefaultTimeout = 30 * time.Second

// Session is the part of the session store the client needs: the current
// credentials and the operations used to recover from an expired token.
type Session interface {
	AccessToken() string
	RefreshToken() string
	RefreshAccessToken(ctx context.Context) error
	ForceLogout(ctx context.Context)
}

// Request describes one API call. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// SkipAuthRefresh disables 401 recovery. Set on the refresh and logout
	// calls themselves.
	SkipAuthRefresh bool
}

type envelope struct {
	Success    *bool              `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Message    string             `json:"message"`
	Error      string             `json:"error"`
	Pagination *models.Pagination `json:"pagination"`
}

func (e *envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu         sync.Mutex
	session    Session
	refreshing bool
	waiters    []chan refreshOutcome
}

// New returns a client for baseURL. A zero timeout means DefaultTimeout.
func New(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = common.DefaultAPIBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// SetSession binds the session that provides tokens. Until it is called the
// client dispatches every request unauthenticated.
func (c *HTTPClient) SetSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *HTTPClient) currentSession() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *HTTPClient) currentToken() string {
	if s := c.currentSession(); s != nil {
		return s.AccessToken()
	}
	return ""
}

func (c *HTTPClient) Do(ctx context.Context, req Request, out any) error {
	_, err := c.DoPage(ctx, req, out)
	return err
}

// DoPage is Do for list endpoints; it also returns the envelope pagination.
func (c *HTTPClient) DoPage(ctx context.Context, req Request, out any) (*models.Pagination, error) {
	body, err := c.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(body, out)
}

func (c *HTTPClient) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *HTTPClient) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// GetRaw returns the undecoded response body, for binary downloads.
func (c *HTTPClient) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.execute(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// execute sends req and, on a first authorization failure, runs the refresh
// cycle and re-issues it exactly once.
func (c *HTTPClient) execute(ctx context.Context, req Request) ([]byte, error) {
	token := c.currentToken()
	body, err := c.roundTrip(ctx, req, token)
	if err == nil || req.SkipAuthRefresh || !errors.Is(err, ErrUnauthorized) {
		return body, err
	}

	newToken, rerr := c.recoverAuth(ctx, token, err)
	if rerr != nil {
		return nil, rerr
	}

	// retried requests never come back here
	return c.roundTrip(ctx, req, newToken)
}

func (c *HTTPClient) roundTrip(ctx context.Context, req Request, token string) ([]byte, error) {
	httpReq, reqID, err := c.newHTTPRequest(ctx, req, token)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn(ctx, "request failed", "request_id", reqID, "method", req.Method, "path", req.Path, "error", err)
		return nil, mapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mapTransportError(ctx, err)
	}

	c.log.Debug(ctx, "request done",
		"request_id", reqID,
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mapError(resp.StatusCode, body)
	}
	return body, nil
}

func (c *HTTPClient) newHTTPRequest(ctx context.Context, req Request, token string) (*http.Request, string, error) {
	u := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}

	reqID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(common.RequestIDHeaderName, reqID)
	if token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	return httpReq, reqID, nil
}

func decodeEnvelope(body []byte, out any) (*models.Pagination, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Success != nil && !*env.Success {
		return nil, &APIError{Status: http.StatusOK, Message: env.message()}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return env.Pagination, nil
}

// mapError turns a non-2xx response into an *APIError carrying the server
// message when the body has one.
func mapError(status int, body []byte) error {
	var env envelope
	msg := ""
	if err := json.Unmarshal(body, &env); err == nil {
		msg = env.message()
	}
	return &APIError{Status: status, Message: msg}
}

func mapTransportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return fmt.Errorf("transport error: %w", err)
}
