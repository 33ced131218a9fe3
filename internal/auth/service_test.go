package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/beerlog/backend/internal/models"
	"github.com/beerlog/backend/internal/repository"
)

type mockUsers struct {
	byEmail map[string]*models.User
}

func (m *mockUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func TestLoginAndValidateToken(t *testing.T) {
	users := &mockUsers{byEmail: map[string]*models.User{
		"maria@example.com": {ID: 7, Email: "maria@example.com", PasswordHash: hash(t, "s3cret"), Role: models.RoleManager, Approved: true},
	}}
	svc := NewService(users, "test-secret")

	token, err := svc.Login(context.Background(), "maria@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	actor, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if actor.UserID != 7 || actor.Role != models.RoleManager {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	users := &mockUsers{byEmail: map[string]*models.User{
		"maria@example.com": {ID: 7, PasswordHash: hash(t, "s3cret"), Approved: true},
	}}
	svc := NewService(users, "test-secret")

	if _, err := svc.Login(context.Background(), "maria@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmailLooksLikeBadCredentials(t *testing.T) {
	svc := NewService(&mockUsers{byEmail: map[string]*models.User{}}, "test-secret")

	if _, err := svc.Login(context.Background(), "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsUnapprovedAccount(t *testing.T) {
	users := &mockUsers{byEmail: map[string]*models.User{
		"new@example.com": {ID: 9, PasswordHash: hash(t, "s3cret"), Approved: false},
	}}
	svc := NewService(users, "test-secret")

	if _, err := svc.Login(context.Background(), "new@example.com", "s3cret"); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("expected ErrNotApproved, got %v", err)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	users := &mockUsers{byEmail: map[string]*models.User{
		"maria@example.com": {ID: 7, PasswordHash: hash(t, "s3cret"), Approved: true},
	}}
	issuer := NewService(users, "secret-a")
	verifier := NewService(users, "secret-b")

	token, err := issuer.Login(context.Background(), "maria@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := verifier.ValidateToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewService(&mockUsers{}, "test-secret")

	if _, err := svc.ValidateToken(context.Background(), "not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
