package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"boletimCampo/internal/domain/models"
	"boletimCampo/internal/pkg/logger/sl"
	reportrenderer "boletimCampo/internal/pkg/report-renderer"
	"boletimCampo/internal/repository"
	accountservice "boletimCampo/internal/service/account"
	reportservice "boletimCampo/internal/service/report"
	"boletimCampo/internal/service/session"
)

// SessionCookie carries the session id between requests.
const SessionCookie = "session_id"

type AccountService interface {
	Register(ctx context.Context, email, secret, name string) (models.Account, error)
	Login(ctx context.Context, email, secret string) (models.Account, error)
	RequestPasswordReset(ctx context.Context, email string) (bool, error)
}

type SessionService interface {
	Start(ctx context.Context, account models.Account) (models.Session, error)
	Restore(ctx context.Context, id string) (models.Session, error)
	End(ctx context.Context, id string) error
}

type ReportService interface {
	Create(ctx context.Context, ownerID uuid.UUID, report models.FieldReport) (models.FieldReport, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (models.FieldReport, error)
	Update(ctx context.Context, ownerID uuid.UUID, report models.FieldReport) (models.FieldReport, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, query string) ([]models.FieldReport, error)
	Export(ctx context.Context, ownerID, id uuid.UUID) (string, []byte, error)
	Sample(ctx context.Context) (string, []byte, error)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service and repository errors onto HTTP statuses.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status, msg := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, accountservice.ErrInvalidInput):
		status, msg = http.StatusBadRequest, "Email and password are required"
	case errors.Is(err, accountservice.ErrAccountExists):
		status, msg = http.StatusConflict, "Account already exists"
	case errors.Is(err, accountservice.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, session.ErrSessionNotFound):
		status, msg = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, reportservice.ErrReportNotFound), errors.Is(err, repository.ErrReportNotFound):
		status, msg = http.StatusNotFound, "Report not found"
	case errors.Is(err, repository.ErrStorageUnavailable):
		status, msg = http.StatusServiceUnavailable, "Storage unavailable"
	case errors.Is(err, reportrenderer.ErrTemplateLoad), errors.Is(err, reportrenderer.ErrRender):
		status, msg = http.StatusInternalServerError, "Failed to generate the report document"
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}

	writeJSON(w, status, ErrorResponse{Error: msg})
}

// CookieOptions controls the session cookie. TTL should match the lifetime
// of the stored session.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

func setSessionCookie(w http.ResponseWriter, opts CookieOptions, sess models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID.String(),
		Path:     "/",
		MaxAge:   int(opts.TTL / time.Second),
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type AccountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func accountResponse(sess models.Session) AccountResponse {
	return AccountResponse{
		ID:    sess.AccountID.String(),
		Email: sess.Email,
		Name:  sess.Name,
	}
}
