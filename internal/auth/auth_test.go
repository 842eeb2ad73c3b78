package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/xpense/xpense/internal/models"
	"github.com/xpense/xpense/internal/storage"
)

// fakeUserStorage is an in-memory UserStorage for authenticator tests.
type fakeUserStorage struct {
	users map[string]*models.User
}

func newFakeUserStorage() *fakeUserStorage {
	return &fakeUserStorage{users: make(map[string]*models.User)}
}

func (f *fakeUserStorage) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.Username]; ok {
		return fmt.Errorf("user %q: %w", user.Username, storage.ErrAlreadyExists)
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserStorage) GetUser(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, storage.ErrNotFound)
	}
	return user, nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()

	t.Run("register and authenticate", func(t *testing.T) {
		authn := NewPasswordAuthenticator(newFakeUserStorage())

		user, err := authn.Register(ctx, &models.User{Username: "alice", Email: "alice@example.com"}, "correct horse")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.PasswordHash == "" || user.PasswordHash == "correct horse" {
			t.Error("expected password to be hashed")
		}

		got, err := authn.Authenticate(ctx, "alice", "correct horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.Username != "alice" {
			t.Errorf("username = %q, want alice", got.Username)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		authn := NewPasswordAuthenticator(newFakeUserStorage())
		if _, err := authn.Register(ctx, &models.User{Username: "alice"}, "correct horse"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		_, err := authn.Authenticate(ctx, "alice", "battery staple")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		authn := NewPasswordAuthenticator(newFakeUserStorage())
		_, err := authn.Authenticate(ctx, "nobody", "whatever!")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		authn := NewPasswordAuthenticator(newFakeUserStorage())
		_, err := authn.Register(ctx, &models.User{Username: "alice"}, "short")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("duplicate registration", func(t *testing.T) {
		authn := NewPasswordAuthenticator(newFakeUserStorage())
		if _, err := authn.Register(ctx, &models.User{Username: "alice"}, "correct horse"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		_, err := authn.Register(ctx, &models.User{Username: "alice"}, "another pass")
		if !errors.Is(err, ErrUserExists) {
			t.Errorf("expected ErrUserExists, got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		mgr := NewJWTManager("test-secret-key", time.Hour)

		token, err := mgr.Generate("alice")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if strings.Count(token, ".") != 2 {
			t.Errorf("expected a three-part JWT, got %q", token)
		}

		username, err := mgr.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if username != "alice" {
			t.Errorf("username = %q, want alice", username)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		mgr := NewJWTManager("test-secret-key", -time.Minute)

		token, err := mgr.Generate("alice")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		_, err = mgr.Validate(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		mgr := NewJWTManager("test-secret-key", time.Hour)
		other := NewJWTManager("different-secret", time.Hour)

		token, err := mgr.Generate("alice")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		_, err = other.Validate(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		mgr := NewJWTManager("test-secret-key", time.Hour)
		_, err := mgr.Validate("not.a.token")
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
