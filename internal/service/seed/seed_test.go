package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"boletimCampo/internal/domain/models"
	"boletimCampo/internal/pkg/logger/handlers/slogdiscard"
)

type fakeAccounts struct {
	count    int
	countErr error
	created  []models.Account
}

func (f *fakeAccounts) Count(context.Context) (int, error) {
	return f.count, f.countErr
}

func (f *fakeAccounts) Create(_ context.Context, email, _, name string) (models.Account, error) {
	acc := models.Account{ID: uuid.New(), Email: email, Name: name}
	f.created = append(f.created, acc)
	f.count++
	return acc, nil
}

type fakeReports struct {
	owners []uuid.UUID
}

func (f *fakeReports) Create(_ context.Context, owner uuid.UUID, r models.FieldReport) (models.FieldReport, error) {
	f.owners = append(f.owners, owner)
	return r, nil
}

var cfg = Config{
	Enabled:       true,
	AdminEmail:    "admin@engeval.com",
	AdminPassword: "admin123",
	AdminName:     "Administrador",
}

func TestRunSeedsEmptyStore(t *testing.T) {
	accounts, reports := &fakeAccounts{}, &fakeReports{}

	seeded, err := Run(context.Background(), slogdiscard.NewDiscardLogger(), cfg, accounts, reports)
	if err != nil || !seeded {
		t.Fatalf("Run() = %v, %v", seeded, err)
	}
	if len(accounts.created) != 1 || accounts.created[0].Email != "admin@engeval.com" {
		t.Fatalf("unexpected accounts %+v", accounts.created)
	}
	if len(reports.owners) != 1 || reports.owners[0] != accounts.created[0].ID {
		t.Errorf("sample report not owned by admin")
	}

	seeded, err = Run(context.Background(), slogdiscard.NewDiscardLogger(), cfg, accounts, reports)
	if err != nil || seeded {
		t.Errorf("second run seeded again: %v, %v", seeded, err)
	}
}

func TestRunSkips(t *testing.T) {
	disabled := cfg
	disabled.Enabled = false

	noPassword := cfg
	noPassword.AdminPassword = ""

	tests := []struct {
		name     string
		cfg      Config
		accounts *fakeAccounts
		wantErr  bool
	}{
		{"disabled", disabled, &fakeAccounts{}, false},
		{"accounts exist", cfg, &fakeAccounts{count: 2}, false},
		{"count fails", cfg, &fakeAccounts{countErr: errors.New("db down")}, true},
		{"no password", noPassword, &fakeAccounts{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seeded, err := Run(context.Background(), slogdiscard.NewDiscardLogger(), tt.cfg, tt.accounts, &fakeReports{})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if seeded || len(tt.accounts.created) != 0 {
				t.Errorf("seeded unexpectedly")
			}
		})
	}
}
