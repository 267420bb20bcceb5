// Package tokens stores one-time magic-link tokens. Tokens live until
// consumed or expired; consumption is atomic so a link can be used once.
package tokens

import (
	"context"
	"time"
)

type Store interface {
	// Save associates a token with the email it was issued for, for ttl.
	Save(ctx context.Context, token, email string, ttl time.Duration) error

	// Consume atomically fetches and deletes the token, returning the
	// associated email. common.ErrInvalidToken for unknown or expired
	// tokens.
	Consume(ctx context.Context, token string) (string, error)
}
