package entries

import (
	"context"

	"github.com/ddanilov/daybook/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, entry *models.Entry) error
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Entry, error)
	GetByID(ctx context.Context, id, userID string) (*models.Entry, error)
	Update(ctx context.Context, id, userID string, patch models.EntryPatch) (*models.Entry, error)
	DeleteByID(ctx context.Context, id, userID string) error

	// WithinTx runs fn against a repository view bound to a single
	// transaction, committing on success and rolling back on error.
	WithinTx(ctx context.Context, fn func(r Repository) error) error
}
