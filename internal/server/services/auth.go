package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ddanilov/daybook/internal/common"
	"github.com/ddanilov/daybook/internal/logging"
	"github.com/ddanilov/daybook/internal/ratelimit"
	"github.com/ddanilov/daybook/internal/server/auth"
	"github.com/ddanilov/daybook/internal/server/mailer"
	"github.com/ddanilov/daybook/internal/server/models"
	"github.com/ddanilov/daybook/internal/server/repositories/users"
	"github.com/ddanilov/daybook/internal/server/tokens"
	"github.com/google/uuid"
)

// AuthService implements the passwordless flow: a one-time emailed link,
// verified once, yields a bearer access token. A user row is created on the
// first verified sign-in for an address.
type AuthService struct {
	users  users.Repository
	tokens tokens.Store
	mailer mailer.Mailer

	limiter *ratelimit.KeyedLimiter
	logger  logging.Logger

	secretKey           []byte
	accessTokenValidity time.Duration
	linkTokenValidity   time.Duration
	linkBaseURL         string
}

type AuthOptions struct {
	SecretKey           string
	AccessTokenValidity time.Duration
	LinkTokenValidity   time.Duration
	LinkBaseURL         string
	LinkRatePerHour     int
	LinkBurst           int
}

func NewAuthService(userRepo users.Repository, tokenStore tokens.Store, m mailer.Mailer, logger logging.Logger, opts AuthOptions) *AuthService {
	return &AuthService{
		users:               userRepo,
		tokens:              tokenStore,
		mailer:              m,
		limiter:             ratelimit.NewKeyedLimiter(opts.LinkRatePerHour, opts.LinkBurst),
		logger:              logger.With("module", "auth_service"),
		secretKey:           []byte(opts.SecretKey),
		accessTokenValidity: opts.AccessTokenValidity,
		linkTokenValidity:   opts.LinkTokenValidity,
		linkBaseURL:         strings.TrimRight(opts.LinkBaseURL, "/"),
	}
}

// RequestLink issues a one-time token for email and mails the sign-in link.
func (s *AuthService) RequestLink(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("%w: missing email", common.ErrValidation)
	}

	if !s.limiter.Allow(email) {
		return common.ErrRateLimited
	}

	token := uuid.NewString()
	if err := s.tokens.Save(ctx, token, email, s.linkTokenValidity); err != nil {
		return fmt.Errorf("saving login token: %w", err)
	}

	link := s.linkBaseURL + "/verify?token=" + url.QueryEscape(token)
	if err := s.mailer.SendLink(ctx, email, link); err != nil {
		return fmt.Errorf("sending link: %w", err)
	}

	s.logger.Info(ctx, "magic link sent", "email", email)
	return nil
}

// Verify consumes the one-time token and returns the signed access token
// plus the user it authenticates. Unknown and expired tokens are
// indistinguishable.
func (s *AuthService) Verify(ctx context.Context, token string) (string, *models.User, error) {
	if token == "" {
		return "", nil, common.ErrInvalidToken
	}

	email, err := s.tokens.Consume(ctx, token)
	if err != nil {
		return "", nil, err
	}

	user, err := s.users.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", common.ErrStore, err)
	}

	accessToken, err := auth.GenerateToken(user.ID, s.secretKey, s.accessTokenValidity)
	if err != nil {
		return "", nil, fmt.Errorf("signing access token: %w", err)
	}

	s.logger.Info(ctx, "user signed in", "user", user.ID)
	return accessToken, user, nil
}
