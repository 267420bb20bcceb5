package users

import (
	"context"

	"github.com/ddanilov/daybook/internal/server/models"
)

type Repository interface {
	// GetOrCreateByEmail returns the user with the given email, creating
	// the row on first sign-in.
	GetOrCreateByEmail(ctx context.Context, email string) (*models.User, error)
}
