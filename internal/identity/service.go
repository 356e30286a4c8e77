package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RoleTeller is the default role for newly registered operators.
const RoleTeller = "teller"

// Service manages operator lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a teller operator and stores a hashed PIN.
func (s *Service) Register(ctx context.Context, creds Credentials) (Operator, error) {
	if creds.Username == "" {
		return Operator{}, errors.New("username is required")
	}
	if len(creds.PIN) < 4 {
		return Operator{}, errors.New("PIN must be at least 4 digits")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.PIN), bcrypt.DefaultCost)
	if err != nil {
		return Operator{}, err
	}

	op := Operator{
		ID:        uuid.New().String(),
		Username:  creds.Username,
		Role:      RoleTeller,
		PINHash:   hash,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, op); err != nil {
		return Operator{}, err
	}

	return op, nil
}

// Authenticate verifies operator credentials.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (Operator, error) {
	op, err := s.repo.FindByUsername(ctx, creds.Username)
	if err != nil {
		return Operator{}, err
	}

	if err := bcrypt.CompareHashAndPassword(op.PINHash, []byte(creds.PIN)); err != nil {
		return Operator{}, errors.New("invalid PIN")
	}

	return op, nil
}
