package report

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"boletimCampo/internal/domain/models"
	repo "boletimCampo/internal/repository"
)

// Repository is the field-report collection on top of a RecordStore.
// Every operation reads the full collection and, for mutations, writes it back.
type Repository struct {
	store repo.RecordStore
	now   func() time.Time

	mu sync.Mutex
}

func New(store repo.RecordStore) *Repository {
	return &Repository{store: store, now: time.Now}
}

// NewWithClock is New with a custom time source for updatedAt.
func NewWithClock(store repo.RecordStore, now func() time.Time) *Repository {
	return &Repository{store: store, now: now}
}

func (r *Repository) Create(ctx context.Context, report models.FieldReport) error {
	const op = "report.Create"

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.Get(ctx, repo.CollectionReports)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	records = append(records, toRecord(report))

	if err := r.store.Set(ctx, repo.CollectionReports, records); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Update replaces the stored report with the same id and refreshes UpdatedAt.
// Owner and creation time are kept from the stored copy.
func (r *Repository) Update(ctx context.Context, report models.FieldReport) (models.FieldReport, error) {
	const op = "report.Update"

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.Get(ctx, repo.CollectionReports)
	if err != nil {
		return models.FieldReport{}, fmt.Errorf("%s: %w", op, err)
	}

	idx := indexOf(records, report.ID)
	if idx == -1 {
		return models.FieldReport{}, fmt.Errorf("%s: %w", op, repo.ErrReportNotFound)
	}

	stored, err := fromRecord(records[idx])
	if err != nil {
		return models.FieldReport{}, fmt.Errorf("%s: %w", op, err)
	}

	report.OwnerID = stored.OwnerID
	report.CreatedAt = stored.CreatedAt
	report.UpdatedAt = r.now().UTC()
	if report.UpdatedAt.Before(stored.UpdatedAt) {
		report.UpdatedAt = stored.UpdatedAt
	}

	records[idx] = toRecord(report)

	if err := r.store.Set(ctx, repo.CollectionReports, records); err != nil {
		return models.FieldReport{}, fmt.Errorf("%s: %w", op, err)
	}

	return report, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "report.Delete"

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.Get(ctx, repo.CollectionReports)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	idx := indexOf(records, id)
	if idx == -1 {
		return fmt.Errorf("%s: %w", op, repo.ErrReportNotFound)
	}

	records = append(records[:idx], records[idx+1:]...)

	if err := r.store.Set(ctx, repo.CollectionReports, records); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.FieldReport, error) {
	const op = "report.Get"

	records, err := r.store.Get(ctx, repo.CollectionReports)
	if err != nil {
		return models.FieldReport{}, fmt.Errorf("%s: %w", op, err)
	}

	idx := indexOf(records, id)
	if idx == -1 {
		return models.FieldReport{}, fmt.Errorf("%s: %w", op, repo.ErrReportNotFound)
	}

	report, err := fromRecord(records[idx])
	if err != nil {
		return models.FieldReport{}, fmt.Errorf("%s: %w", op, err)
	}

	return report, nil
}

// ListByOwner returns the owner's reports, newest CreatedAt first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FieldReport, error) {
	const op = "report.ListByOwner"

	records, err := r.store.Get(ctx, repo.CollectionReports)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reports := make([]models.FieldReport, 0)

	for _, rec := range records {
		report, err := fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if report.OwnerID == ownerID {
			reports = append(reports, report)
		}
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})

	return reports, nil
}

func indexOf(records []repo.Record, id uuid.UUID) int {
	key := id.String()
	for i, rec := range records {
		if rec.String(fieldID) == key {
			return i
		}
	}

	return -1
}
