package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"boletimCampo/internal/domain/models"
	repo "boletimCampo/internal/repository"
)

const (
	fieldID        = "id"
	fieldEmail     = "email"
	fieldName      = "name"
	fieldPassHash  = "passHash"
	fieldCreatedAt = "createdAt"
)

// Repository is the account collection on top of a RecordStore.
// Accounts are keyed by email and are never updated or deleted.
type Repository struct {
	store    repo.RecordStore
	hashCost int
	now      func() time.Time

	// serializes read-modify-write cycles inside this process
	mu sync.Mutex
}

type Option func(*Repository)

func WithHashCost(cost int) Option {
	return func(r *Repository) { r.hashCost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func New(store repo.RecordStore, opts ...Option) *Repository {
	r := &Repository{
		store:    store,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Create appends a new account. The secret is stored as a bcrypt hash.
func (r *Repository) Create(ctx context.Context, email, secret, name string) (models.Account, error) {
	const op = "account.Create"

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.Get(ctx, repo.CollectionAccounts)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, ok := findByEmail(records, email); ok {
		return models.Account{}, fmt.Errorf("%s: %w", op, repo.ErrAccountExists)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(secret), r.hashCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: hash secret: %w", op, err)
	}

	acc := models.Account{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		PassHash:  passHash,
		CreatedAt: r.now().UTC(),
	}

	records = append(records, toRecord(acc))

	if err := r.store.Set(ctx, repo.CollectionAccounts, records); err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	return acc.Public(), nil
}

// FindByEmail returns the account including its password hash.
func (r *Repository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	const op = "account.FindByEmail"

	records, err := r.store.Get(ctx, repo.CollectionAccounts)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	rec, ok := findByEmail(records, email)
	if !ok {
		return models.Account{}, fmt.Errorf("%s: %w", op, repo.ErrAccountNotFound)
	}

	acc, err := fromRecord(rec)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	return acc, nil
}

// Count returns the number of stored accounts.
func (r *Repository) Count(ctx context.Context) (int, error) {
	records, err := r.store.Get(ctx, repo.CollectionAccounts)
	if err != nil {
		return 0, fmt.Errorf("account.Count: %w", err)
	}

	return len(records), nil
}

// Validate checks the secret against the stored hash and returns the account
// without its secret. Unknown emails and wrong secrets are indistinguishable.
func (r *Repository) Validate(ctx context.Context, email, secret string) (models.Account, error) {
	const op = "account.Validate"

	acc, err := r.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrAccountNotFound) {
			return models.Account{}, fmt.Errorf("%s: %w", op, repo.ErrInvalidCredentials)
		}
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(acc.PassHash, []byte(secret)); err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, repo.ErrInvalidCredentials)
	}

	return acc.Public(), nil
}

func findByEmail(records []repo.Record, email string) (repo.Record, bool) {
	for _, rec := range records {
		if strings.EqualFold(rec.String(fieldEmail), email) {
			return rec, true
		}
	}

	return nil, false
}

func toRecord(a models.Account) repo.Record {
	return repo.Record{
		fieldID:        a.ID.String(),
		fieldEmail:     a.Email,
		fieldName:      a.Name,
		fieldPassHash:  string(a.PassHash),
		fieldCreatedAt: a.CreatedAt.Format(time.RFC3339Nano),
	}
}

func fromRecord(rec repo.Record) (models.Account, error) {
	id, err := uuid.Parse(rec.String(fieldID))
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: bad account id: %w", repo.ErrStorageUnavailable, err)
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, rec.String(fieldCreatedAt))

	return models.Account{
		ID:        id,
		Email:     rec.String(fieldEmail),
		Name:      rec.String(fieldName),
		PassHash:  []byte(rec.String(fieldPassHash)),
		CreatedAt: createdAt,
	}, nil
}
