// Package services wraps the marketplace REST endpoints in typed Go calls.
// Each service is a thin layer over an API (normally *client.HTTPClient):
// it builds the request, picks the payload out of the response envelope and
// returns models types. Token handling lives in the client, not here.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/akhmads/adscli/internal/client/models"
)

// API is the transport the services need.
type API interface {
	Do(ctx context.Context, req client.Request, out any) error
	DoPage(ctx context.Context, req client.Request, out any) (*models.Pagination, error)
	GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error)
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items      []T
	Pagination *models.Pagination
}

// unwrap decodes raw into out, looking inside {key: ...} first. The backend
// is not consistent about wrapping single objects and lists.
func unwrap(raw json.RawMessage, key string, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return fmt.Errorf("failed to decode %s: %w", key, err)
		}
		if inner, found := obj[key]; found {
			raw = inner
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func pathf(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}

func setInt(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}
