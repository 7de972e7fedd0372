package users

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	byEmail map[string]*User
}

func (f *fakeRepo) Create(ctx context.Context, u *User) error {
	if f.byEmail == nil {
		f.byEmail = map[string]*User{}
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return ErrEmailExists
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return f.byEmail[email], nil
}

func (f *fakeRepo) GetByUID(ctx context.Context, uid string) (*User, error) {
	for _, u := range f.byEmail {
		if u.UID == uid {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) SetTokensValidAfter(ctx context.Context, uid string, t time.Time) error {
	for _, u := range f.byEmail {
		if u.UID == uid {
			u.TokensValidAfter = t
		}
	}
	return nil
}

func TestCreateUser(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.UID == "" {
		t.Fatal("expected uid to be assigned")
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret1" {
		t.Fatalf("password must be stored hashed, got %q", u.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.CreateUser(ctx, "a@b.com", "other"); err != ErrEmailExists {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRevokeTokensAndValidAfter(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cutoff := time.Now().UTC()
	if err := svc.RevokeTokens(ctx, u.UID, cutoff); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	got, err := svc.ValidAfter(ctx, u.UID)
	if err != nil {
		t.Fatalf("valid-after failed: %v", err)
	}
	if !got.Equal(cutoff) {
		t.Fatalf("valid-after = %v, want %v", got, cutoff)
	}
}
