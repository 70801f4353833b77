package handler

import (
	"log/slog"
	"net/http"

	"boletimCampo/internal/service/session"
)

// RequireSession rejects requests without a live session and places the
// restored session into the request context.
func RequireSession(
	log *slog.Logger,
	sessions SessionService,
	next http.HandlerFunc,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.RequireSession"

		log := log.With(slog.String("op", op))

		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			writeError(w, log, session.ErrSessionNotFound)
			return
		}

		sess, err := sessions.Restore(r.Context(), cookie.Value)
		if err != nil {
			writeError(w, log, err)
			return
		}

		next(w, r.WithContext(session.WithSession(r.Context(), sess)))
	}
}
