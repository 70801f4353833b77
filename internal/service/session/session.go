package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"boletimCampo/internal/domain/models"
	"boletimCampo/internal/pkg/logger/sl"
	redisRepository "boletimCampo/internal/repository/redis"
)

var ErrSessionNotFound = errors.New("session not found")

type Repository interface {
	SaveSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, id uuid.UUID) (models.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	log  *slog.Logger
	repo Repository
	now  func() time.Time
}

func New(log *slog.Logger, repo Repository) *Service {
	return &Service{
		log:  log,
		repo: repo,
		now:  time.Now,
	}
}

// Start opens a session for an authenticated account.
func (s *Service) Start(ctx context.Context, account models.Account) (models.Session, error) {
	const op = "Session.Start"

	log := s.log.With(
		slog.String("op", op),
		slog.String("account_id", account.ID.String()),
	)

	sess := models.Session{
		ID:        uuid.New(),
		AccountID: account.ID,
		Email:     account.Email,
		Name:      account.Name,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.SaveSession(ctx, sess); err != nil {
		log.Error("failed to save session", sl.Err(err))

		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("session started")

	return sess, nil
}

// Restore loads a previously started session by its id.
func (s *Service) Restore(ctx context.Context, id string) (models.Session, error) {
	const op = "Session.Restore"

	sid, err := uuid.Parse(id)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	sess, err := s.repo.GetSession(ctx, sid)
	if err != nil {
		if errors.Is(err, redisRepository.ErrSessionNotFound) {
			return models.Session{}, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
		}

		s.log.Error("failed to get session", slog.String("op", op), sl.Err(err))

		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return sess, nil
}

// End removes the session. Ending an unknown session is not an error.
func (s *Service) End(ctx context.Context, id string) error {
	const op = "Session.End"

	sid, err := uuid.Parse(id)
	if err != nil {
		return nil
	}

	if err := s.repo.DeleteSession(ctx, sid); err != nil {
		s.log.Error("failed to delete session", slog.String("op", op), sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("session ended", slog.String("op", op), slog.String("session_id", id))

	return nil
}

type ctxKey struct{}

func WithSession(ctx context.Context, sess models.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

func FromContext(ctx context.Context) (models.Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(models.Session)
	return sess, ok
}
