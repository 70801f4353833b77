package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"boletimCampo/internal/domain/models"
	reportrenderer "boletimCampo/internal/pkg/report-renderer"
)

type Config struct {
	Enabled       bool   `yaml:"enabled" env:"SEED_ENABLED" env-default:"false"`
	AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL" env-default:"admin@engeval.com"`
	AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME" env-default:"Administrador"`
}

type AccountStore interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, email, secret, name string) (models.Account, error)
}

type ReportCreator interface {
	Create(ctx context.Context, ownerID uuid.UUID, report models.FieldReport) (models.FieldReport, error)
}

// Run creates the admin account and one complete sample report when the
// account collection is empty. It reports whether anything was created.
func Run(
	ctx context.Context,
	log *slog.Logger,
	cfg Config,
	accounts AccountStore,
	reports ReportCreator,
) (bool, error) {
	const op = "seed.Run"

	log = log.With(slog.String("op", op))

	if !cfg.Enabled {
		return false, nil
	}
	if cfg.AdminPassword == "" {
		return false, fmt.Errorf("%s: admin password is not configured", op)
	}

	n, err := accounts.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		log.Debug("accounts present, skipping seed", slog.Int("accounts", n))
		return false, nil
	}

	admin, err := accounts.Create(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	sample := reportrenderer.SampleReport(time.Now())
	if _, err := reports.Create(ctx, admin.ID, sample); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("seeded admin account and sample report", slog.String("email", admin.Email))

	return true, nil
}
