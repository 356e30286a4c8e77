package auth

import (
	"context"
	"errors"
	"time"

	"github.com/sango-bank/sango_bank/internal/config"
	"github.com/sango-bank/sango_bank/internal/identity"
)

// Service issues and rotates operator tokens.
type Service struct {
	cfg  config.Config
	repo identity.Repository
}

// NewService builds an auth service.
func NewService(cfg config.Config, repo identity.Repository) *Service {
	return &Service{cfg: cfg, repo: repo}
}

// TokenPair is the login result handed to clients.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login issues an access/refresh token pair for an authenticated operator.
func (s *Service) Login(op identity.Operator) (TokenPair, error) {
	access, err := s.sign(op, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(op, s.cfg.RefreshSecret, s.cfg.RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) sign(op identity.Operator, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	return Sign(Claims{
		Subject:   op.ID,
		Username:  op.Username,
		Role:      op.Role,
		Version:   op.TokenVersion,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}, []byte(secret))
}

// Refresh verifies the refresh token and returns a new access token if the
// operator's token version still matches.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	claims, err := Verify(refreshToken, []byte(s.cfg.RefreshSecret))
	if err != nil {
		return "", 0, errors.New("invalid refresh token")
	}

	op, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return "", 0, errors.New("operator not found")
	}
	if op.TokenVersion != claims.Version {
		return "", 0, errors.New("token version invalidated")
	}

	access, err := s.sign(op, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return "", 0, err
	}
	return access, int64(s.cfg.AccessTokenTTL.Seconds()), nil
}

// Logout bumps the token version so previously issued tokens become invalid.
func (s *Service) Logout(ctx context.Context, operatorID string) error {
	op, err := s.repo.FindByID(ctx, operatorID)
	if err != nil {
		return err
	}
	return s.repo.UpdateTokenVersion(ctx, op.ID, op.TokenVersion+1)
}
