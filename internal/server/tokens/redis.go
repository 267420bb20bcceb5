package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ddanilov/daybook/internal/common"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "linktoken:"

// RedisStore keeps login tokens in Redis; the TTL doubles as token expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(token string) string {
	return keyPrefix + token
}

func (s *RedisStore) Save(ctx context.Context, token, email string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key(token), email, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save login token: %w", err)
	}
	return nil
}

// Consume uses GETDEL so concurrent verifications cannot both succeed.
func (s *RedisStore) Consume(ctx context.Context, token string) (string, error) {
	email, err := s.client.GetDel(ctx, key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrInvalidToken
		}
		return "", fmt.Errorf("failed to consume login token: %w", err)
	}
	return email, nil
}
