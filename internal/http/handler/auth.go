package handler

import (
	"log/slog"
	"net/http"

	"boletimCampo/internal/service/session"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func RegisterHandler(
	log *slog.Logger,
	accounts AccountService,
	sessions SessionService,
	cookie CookieOptions,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.RegisterHandler"

		log := log.With(slog.String("op", op))

		var req Credentials
		if err := decode(r, &req); err != nil {
			log.Info("failed to decode request", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
			return
		}

		acc, err := accounts.Register(r.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			writeError(w, log, err)
			return
		}

		sess, err := sessions.Start(r.Context(), acc)
		if err != nil {
			writeError(w, log, err)
			return
		}

		setSessionCookie(w, cookie, sess)
		writeJSON(w, http.StatusCreated, accountResponse(sess))
	}
}

func LoginHandler(
	log *slog.Logger,
	accounts AccountService,
	sessions SessionService,
	cookie CookieOptions,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.LoginHandler"

		log := log.With(slog.String("op", op))

		var req Credentials
		if err := decode(r, &req); err != nil {
			log.Info("failed to decode request", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
			return
		}

		if req.Email == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Email and password are required"})
			return
		}

		acc, err := accounts.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, log, err)
			return
		}

		sess, err := sessions.Start(r.Context(), acc)
		if err != nil {
			writeError(w, log, err)
			return
		}

		setSessionCookie(w, cookie, sess)
		writeJSON(w, http.StatusOK, accountResponse(sess))

		log.Info("logged in", slog.String("session_id", sess.ID.String()))
	}
}

func LogoutHandler(
	log *slog.Logger,
	sessions SessionService,
	cookie CookieOptions,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.LogoutHandler"

		log := log.With(slog.String("op", op))

		if c, err := r.Cookie(SessionCookie); err == nil {
			if err := sessions.End(r.Context(), c.Value); err != nil {
				writeError(w, log, err)
				return
			}
		}

		clearSessionCookie(w, cookie)
		w.WriteHeader(http.StatusNoContent)
	}
}

// MeHandler restores the caller's session, so a reload keeps the user
// signed in without asking for credentials again.
func MeHandler(log *slog.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.MeHandler"

		sess, ok := session.FromContext(r.Context())
		if !ok {
			writeError(w, log.With(slog.String("op", op)), session.ErrSessionNotFound)
			return
		}

		writeJSON(w, http.StatusOK, accountResponse(sess))
	}
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ForgotPasswordResponse struct {
	Sent bool `json:"sent"`
}

func ForgotPasswordHandler(
	log *slog.Logger,
	accounts AccountService,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.ForgotPasswordHandler"

		log := log.With(slog.String("op", op))

		var req ForgotPasswordRequest
		if err := decode(r, &req); err != nil || req.Email == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Email is required"})
			return
		}

		sent, err := accounts.RequestPasswordReset(r.Context(), req.Email)
		if err != nil {
			writeError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, ForgotPasswordResponse{Sent: sent})
	}
}
