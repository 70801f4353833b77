package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfig = `
env: dev
app:
  template_path: assets/boletim-template.pdf
http_server:
  port: 9090
  timeout: 30s
  allowed_origins: ["http://localhost:5173"]
grpc_server:
  port: ":50051"
postgres:
  host: db
  db_name: boletim
  user: app
  password: secret
redis:
  address: redis:6379
password_reset:
  secret: reset-secret
seed:
  enabled: true
  admin_password: admin123
`

func TestMustLoadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := MustLoadPath(path)

	if cfg.Env != "dev" || cfg.HTTP.Port != 9090 || cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("unexpected http config %+v", cfg.HTTP)
	}
	if cfg.Postgres.Port != "5432" || cfg.Postgres.DBName != "boletim" {
		t.Errorf("unexpected postgres config %+v", cfg.Postgres)
	}
	if cfg.PasswordReset.TokenTTL != 15*time.Minute {
		t.Errorf("reset ttl = %v", cfg.PasswordReset.TokenTTL)
	}
	if !cfg.Seed.Enabled || cfg.Seed.AdminEmail != "admin@engeval.com" {
		t.Errorf("unexpected seed config %+v", cfg.Seed)
	}
	if cfg.S3minio.Enabled || cfg.Tg.Enabled {
		t.Errorf("optional integrations enabled by default")
	}
	if cfg.App.TemplatePath != "assets/boletim-template.pdf" {
		t.Errorf("template path %q", cfg.App.TemplatePath)
	}
}

func TestMustLoadPathMissingFile(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for a missing file")
		}
	}()

	MustLoadPath(filepath.Join(t.TempDir(), "missing.yaml"))
}
