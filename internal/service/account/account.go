package accountservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"boletimCampo/internal/domain/models"
	jwtToken "boletimCampo/internal/pkg/jwt"
	"boletimCampo/internal/pkg/logger/sl"
	"boletimCampo/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidInput       = errors.New("email and password are required")
)

type ResetConfig struct {
	Secret   string        `yaml:"secret" env:"RESET_SECRET" env-required:"true"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"RESET_TOKEN_TTL" env-default:"15m"`
	LinkBase string        `yaml:"link_base" env:"RESET_LINK_BASE" env-default:"http://localhost:5173/reset-password"`
}

type AccountRepository interface {
	Create(ctx context.Context, email, secret, name string) (models.Account, error)
	Validate(ctx context.Context, email, secret string) (models.Account, error)
	FindByEmail(ctx context.Context, email string) (models.Account, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}

type Account struct {
	log    *slog.Logger
	repo   AccountRepository
	mailer Mailer
	reset  ResetConfig
	now    func() time.Time
}

func New(
	log *slog.Logger,
	repo AccountRepository,
	mailer Mailer,
	reset ResetConfig,
) *Account {
	return &Account{
		log:    log,
		repo:   repo,
		mailer: mailer,
		reset:  reset,
		now:    time.Now,
	}
}

func (a *Account) Register(ctx context.Context, email, secret, name string) (models.Account, error) {
	const op = "Account.Register"

	email = strings.TrimSpace(email)

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("registering account")

	if !strings.Contains(email, "@") || secret == "" {
		return models.Account{}, fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}

	acc, err := a.repo.Create(ctx, email, secret, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			log.Warn("account already exists")

			return models.Account{}, fmt.Errorf("%s: %w", op, ErrAccountExists)
		}

		log.Error("failed to create account", sl.Err(err))

		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("account registered", slog.String("account_id", acc.ID.String()))

	return acc, nil
}

func (a *Account) Login(ctx context.Context, email, secret string) (models.Account, error) {
	const op = "Account.Login"

	email = strings.TrimSpace(email)

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login")

	acc, err := a.repo.Validate(ctx, email, secret)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			log.Info("invalid credentials")

			return models.Account{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		log.Error("failed to validate credentials", sl.Err(err))

		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("logged in successfully")

	return acc, nil
}

// RequestPasswordReset mails a reset link when the email belongs to an
// account. It reports whether the account exists; accounts are not modified.
func (a *Account) RequestPasswordReset(ctx context.Context, email string) (bool, error) {
	const op = "Account.RequestPasswordReset"

	email = strings.TrimSpace(email)

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	acc, err := a.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			log.Info("no account for email")

			return false, nil
		}

		log.Error("failed to look up account", sl.Err(err))

		return false, fmt.Errorf("%s: %w", op, err)
	}

	token, err := jwtToken.NewResetToken(acc.ID.String(), acc.Email, a.reset.TokenTTL, []byte(a.reset.Secret), a.now())
	if err != nil {
		log.Error("failed to issue reset token", sl.Err(err))

		return false, fmt.Errorf("%s: %w", op, err)
	}

	text := fmt.Sprintf(
		"Olá %s,\n\nPara redefinir sua senha acesse o link abaixo (válido por %s):\n\n%s\n",
		acc.Name, a.reset.TokenTTL, resetLink(a.reset.LinkBase, token),
	)

	if err := a.mailer.Send(ctx, acc.Email, "Redefinição de senha", text); err != nil {
		log.Error("failed to send reset mail", sl.Err(err))

		return false, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("reset link sent")

	return true, nil
}

func resetLink(base, token string) string {
	return base + "?token=" + url.QueryEscape(token)
}
