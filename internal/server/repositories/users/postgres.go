// Package users provides the PostgreSQL-backed repository for user rows.
// Accounts are passwordless; a row is created on first verified sign-in.
package users

import (
	"context"
	"fmt"

	"github.com/ddanilov/daybook/internal/dbx"
	"github.com/ddanilov/daybook/internal/server/models"
)

// PostgresRepository implements user storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetOrCreateByEmail upserts by the unique email and returns the row.
// The no-op DO UPDATE makes RETURNING yield the existing row on conflict.
func (r *PostgresRepository) GetOrCreateByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		INSERT INTO users (email)
		VALUES ($1)
		ON CONFLICT (email)
		DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, created_at;
	`
	var u models.User
	row := r.db.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}
