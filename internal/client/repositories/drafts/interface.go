package drafts

import (
	"context"
	"errors"

	"github.com/akhmads/adscli/internal/client/models"
)

var ErrNotFound = errors.New("draft not found")

// Repository describes CRUD operations for wizard drafts.
type Repository interface {
	// Save inserts the draft or replaces the one with the same ID.
	Save(ctx context.Context, d *models.Draft) error

	// List returns all drafts, newest first.
	List(ctx context.Context) ([]models.Draft, error)

	// Get returns a draft by ID or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Draft, error)

	// Delete removes a draft; deleting a missing draft returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}
