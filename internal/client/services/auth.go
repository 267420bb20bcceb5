// Package services contains the client-side workflows behind the CLI
// commands: sign-in, entry CRUD with image upload, and signed-URL
// hydration for private buckets.
package services

import (
	"context"
	"fmt"

	"github.com/ddanilov/daybook/internal/client/api"
	"github.com/ddanilov/daybook/internal/client/session"
)

type AuthService interface {
	// RequestLink asks the server to mail a one-time sign-in link.
	RequestLink(ctx context.Context, email string) error

	// Verify exchanges the link token for a session and persists it.
	Verify(ctx context.Context, token string) (*session.Session, error)

	// Logout clears the persisted session.
	Logout() error
}

type authService struct {
	client api.Client
	save   func(*session.Session) error
	clear  func() error
}

func NewAuthService(client api.Client) AuthService {
	return &authService{client: client, save: session.Save, clear: session.Clear}
}

func (s *authService) RequestLink(ctx context.Context, email string) error {
	if err := s.client.RequestLink(ctx, email); err != nil {
		return fmt.Errorf("requesting link: %w", err)
	}
	return nil
}

func (s *authService) Verify(ctx context.Context, token string) (*session.Session, error) {
	result, err := s.client.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verifying token: %w", err)
	}

	sess := &session.Session{
		AccessToken: result.AccessToken,
		UserID:      result.UserID,
		Email:       result.Email,
	}
	if err := s.save(sess); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	s.client.SetAccessToken(sess.AccessToken)
	return sess, nil
}

func (s *authService) Logout() error {
	return s.clear()
}
