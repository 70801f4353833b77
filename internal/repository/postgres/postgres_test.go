package postgres

import "testing"

func TestConnString(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			"plain",
			Config{Host: "db", Port: "5432", DBName: "boletim", User: "app", Pass: "secret", SSLMode: "disable"},
			"postgres://app:secret@db:5432/boletim?sslmode=disable",
		},
		{
			"escaped password",
			Config{Host: "db", Port: "5432", DBName: "boletim", User: "app", Pass: "p@ss/word"},
			"postgres://app:p%40ss%2Fword@db:5432/boletim",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ConnString(); got != tt.want {
				t.Errorf("ConnString() = %q, want %q", got, tt.want)
			}
		})
	}
}
