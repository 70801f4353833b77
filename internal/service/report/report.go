package reportservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"boletimCampo/internal/domain/models"
	"boletimCampo/internal/pkg/logger/sl"
	reportrenderer "boletimCampo/internal/pkg/report-renderer"
	"boletimCampo/internal/repository"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository interface {
	Create(ctx context.Context, report models.FieldReport) error
	Update(ctx context.Context, report models.FieldReport) (models.FieldReport, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (models.FieldReport, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FieldReport, error)
}

type Renderer interface {
	Render(ctx context.Context, report *models.FieldReport) ([]byte, error)
	FileName(report *models.FieldReport) string
}

// Archive keeps a copy of every exported document.
type Archive interface {
	SaveReport(ctx context.Context, owner, name string, pdf []byte) error
}

type Notifier interface {
	SendMessage(message string) error
}

type Report struct {
	log      *slog.Logger
	repo     ReportRepository
	renderer Renderer
	archive  Archive
	notifier Notifier
	now      func() time.Time
}

type Option func(*Report)

func WithArchive(a Archive) Option {
	return func(r *Report) { r.archive = a }
}

func WithNotifier(n Notifier) Option {
	return func(r *Report) { r.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(r *Report) { r.now = now }
}

func New(
	log *slog.Logger,
	repo ReportRepository,
	renderer Renderer,
	opts ...Option,
) *Report {
	r := &Report{
		log:      log,
		repo:     repo,
		renderer: renderer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Create stores a new report owned by ownerID. Id and timestamps are assigned
// here; the client's values for them are ignored.
func (s *Report) Create(ctx context.Context, ownerID uuid.UUID, report models.FieldReport) (models.FieldReport, error) {
	const op = "Report.Create"

	now := s.now().UTC()

	report.ID = uuid.New()
	report.OwnerID = ownerID
	report.CreatedAt = now
	report.UpdatedAt = now

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
		slog.String("report_id", report.ID.String()),
	)

	if err := s.repo.Create(ctx, report); err != nil {
		log.Error("failed to create report", sl.Err(err))

		return models.FieldReport{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("report created")

	return report, nil
}

func (s *Report) Get(ctx context.Context, ownerID, id uuid.UUID) (models.FieldReport, error) {
	const op = "Report.Get"

	report, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return models.FieldReport{}, fmt.Errorf("%s: %w", op, ErrReportNotFound)
		}

		s.log.Error("failed to get report", slog.String("op", op), sl.Err(err))

		return models.FieldReport{}, fmt.Errorf("%s: %w", op, err)
	}

	// Reports of other accounts are reported as missing.
	if report.OwnerID != ownerID {
		return models.FieldReport{}, fmt.Errorf("%s: %w", op, ErrReportNotFound)
	}

	return report, nil
}

func (s *Report) Update(ctx context.Context, ownerID uuid.UUID, report models.FieldReport) (models.FieldReport, error) {
	const op = "Report.Update"

	log := s.log.With(
		slog.String("op", op),
		slog.String("report_id", report.ID.String()),
	)

	if _, err := s.Get(ctx, ownerID, report.ID); err != nil {
		return models.FieldReport{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.repo.Update(ctx, report)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return models.FieldReport{}, fmt.Errorf("%s: %w", op, ErrReportNotFound)
		}

		log.Error("failed to update report", sl.Err(err))

		return models.FieldReport{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("report updated")

	return updated, nil
}

func (s *Report) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const op = "Report.Delete"

	log := s.log.With(
		slog.String("op", op),
		slog.String("report_id", id.String()),
	)

	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return fmt.Errorf("%s: %w", op, ErrReportNotFound)
		}

		log.Error("failed to delete report", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("report deleted")

	return nil
}

// List returns the owner's reports, newest first, keeping those whose
// number, client or requester contains query (case-insensitive).
func (s *Report) List(ctx context.Context, ownerID uuid.UUID, query string) ([]models.FieldReport, error) {
	const op = "Report.List"

	reports, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.log.Error("failed to list reports", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return reports, nil
	}

	filtered := make([]models.FieldReport, 0, len(reports))
	for _, r := range reports {
		if matches(r, query) {
			filtered = append(filtered, r)
		}
	}

	return filtered, nil
}

func matches(r models.FieldReport, query string) bool {
	for _, v := range []string{r.Number, r.Client, r.Requester} {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}

	return false
}

// Export renders the owner's report. The archive copy and the notification
// are best effort and never fail the export.
func (s *Report) Export(ctx context.Context, ownerID, id uuid.UUID) (string, []byte, error) {
	const op = "Report.Export"

	log := s.log.With(
		slog.String("op", op),
		slog.String("report_id", id.String()),
	)

	report, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	name, pdf, err := s.render(ctx, &report)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.archive != nil {
		if err := s.archive.SaveReport(ctx, ownerID.String(), name, pdf); err != nil {
			log.Warn("failed to archive report", sl.Err(err))
		}
	}

	if s.notifier != nil {
		msg := fmt.Sprintf("Boletim %s exportado (%s, cliente: %s)", name, report.Number, report.Client)
		if err := s.notifier.SendMessage(msg); err != nil {
			log.Warn("failed to send export notice", sl.Err(err))
		}
	}

	log.Info("report exported", slog.String("file", name), slog.Int("size", len(pdf)))

	return name, pdf, nil
}

// Sample renders the built-in complete example report.
func (s *Report) Sample(ctx context.Context) (string, []byte, error) {
	const op = "Report.Sample"

	report := reportrenderer.SampleReport(s.now())

	name, pdf, err := s.render(ctx, &report)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	return name, pdf, nil
}

func (s *Report) render(ctx context.Context, report *models.FieldReport) (string, []byte, error) {
	pdf, err := s.renderer.Render(ctx, report)
	if err != nil {
		return "", nil, err
	}

	return s.renderer.FileName(report), pdf, nil
}
