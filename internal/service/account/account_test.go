package accountservice

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"boletimCampo/internal/pkg/logger/handlers/slogdiscard"
	"boletimCampo/internal/repository"
	accountRepo "boletimCampo/internal/repository/account"
)

type memStore struct {
	collections map[string][]repository.Record
}

func (m *memStore) Get(_ context.Context, collection string) ([]repository.Record, error) {
	return append([]repository.Record(nil), m.collections[collection]...), nil
}

func (m *memStore) Set(_ context.Context, collection string, records []repository.Record) error {
	m.collections[collection] = append([]repository.Record(nil), records...)
	return nil
}

type sentMail struct {
	to, subject, text string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, text})
	return nil
}

var resetCfg = ResetConfig{
	Secret:   "reset-secret",
	TokenTTL: 15 * time.Minute,
	LinkBase: "http://app/reset",
}

func newTestService(mailer Mailer) *Account {
	repo := accountRepo.New(
		&memStore{collections: map[string][]repository.Record{}},
		accountRepo.WithHashCost(bcrypt.MinCost),
	)

	return New(slogdiscard.NewDiscardLogger(), repo, mailer, resetCfg)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService(&fakeMailer{})

	acc, err := s.Register(ctx, " admin@x.com ", "secret123", "Admin")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if acc.Email != "admin@x.com" {
		t.Errorf("email not trimmed: %q", acc.Email)
	}

	got, err := s.Login(ctx, "admin@x.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != acc.ID {
		t.Errorf("login returned another account")
	}

	if _, err := s.Register(ctx, "admin@x.com", "other", "Other"); !errors.Is(err, ErrAccountExists) {
		t.Errorf("expected ErrAccountExists, got %v", err)
	}
}

func TestRegisterInvalidInput(t *testing.T) {
	s := newTestService(&fakeMailer{})

	tests := []struct {
		name, email, secret string
	}{
		{"empty email", "", "secret"},
		{"no at sign", "admin", "secret"},
		{"empty secret", "admin@x.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Register(context.Background(), tt.email, tt.secret, "n"); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	s := newTestService(&fakeMailer{})

	if _, err := s.Register(ctx, "admin@x.com", "secret123", "Admin"); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, secret := range []string{"wrong", ""} {
		if _, err := s.Login(ctx, "admin@x.com", secret); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("secret %q: expected ErrInvalidCredentials, got %v", secret, err)
		}
	}
	if _, err := s.Login(ctx, "nobody@x.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRequestPasswordReset(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	s := newTestService(mailer)

	acc, err := s.Register(ctx, "admin@x.com", "secret123", "Admin")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	ok, err := s.RequestPasswordReset(ctx, "nobody@x.com")
	if err != nil || ok {
		t.Errorf("unknown email: got %v, %v", ok, err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("mail sent for unknown email")
	}

	ok, err = s.RequestPasswordReset(ctx, "admin@x.com")
	if err != nil || !ok {
		t.Fatalf("known email: got %v, %v", ok, err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].to != "admin@x.com" {
		t.Fatalf("unexpected mails: %+v", mailer.sent)
	}

	text := mailer.sent[0].text
	i := strings.Index(text, "?token=")
	if i == -1 {
		t.Fatalf("no reset link in %q", text)
	}
	token, err := url.QueryUnescape(strings.Fields(text[i+len("?token="):])[0])
	if err != nil {
		t.Fatalf("unescape: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(resetCfg.Secret), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if sub, _ := claims["sub"].(string); sub != acc.ID.String() {
		t.Errorf("token subject %v, want %q", claims["sub"], acc.ID)
	}

	if _, err := s.Login(ctx, "admin@x.com", "secret123"); err != nil {
		t.Errorf("reset request changed the account: %v", err)
	}
}

func TestRequestPasswordResetMailerFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestService(&fakeMailer{err: errors.New("smtp down")})

	if _, err := s.Register(ctx, "admin@x.com", "secret123", "Admin"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if ok, err := s.RequestPasswordReset(ctx, "admin@x.com"); err == nil || ok {
		t.Errorf("expected failure, got %v, %v", ok, err)
	}
}
