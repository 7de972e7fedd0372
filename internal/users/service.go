package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service encapsulates account-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// CreateUser registers a new account for (email, password) and assigns a uid.
// Returns ErrEmailExists when the address is already taken.
func (s *Service) CreateUser(ctx context.Context, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) GetByUID(ctx context.Context, uid string) (*User, error) {
	return s.repo.GetByUID(ctx, uid)
}

// RevokeTokens invalidates every token issued to uid before t.
func (s *Service) RevokeTokens(ctx context.Context, uid string, t time.Time) error {
	return s.repo.SetTokensValidAfter(ctx, uid, t)
}

// ValidAfter reports the revocation cutoff for uid; tokens issued before it
// must be rejected. Satisfies the verifier's revocation source.
func (s *Service) ValidAfter(ctx context.Context, uid string) (time.Time, error) {
	u, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		return time.Time{}, err
	}
	if u == nil {
		return time.Time{}, nil
	}
	return u.TokensValidAfter, nil
}
