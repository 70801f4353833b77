package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"boletimCampo/internal/http/handler"
	"boletimCampo/internal/pkg/logger/sl"
)

type Config struct {
	Port           int           `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	Timeout        time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173,http://localhost:4173"`
	CookieSecure   bool          `yaml:"cookie_secure" env:"HTTP_COOKIE_SECURE" env-default:"false"`
}

type App struct {
	log        *slog.Logger
	httpServer *http.Server
	port       int
}

func New(
	log *slog.Logger,
	config *Config,
	sessionTTL time.Duration,
	accounts handler.AccountService,
	sessions handler.SessionService,
	reports handler.ReportService,
) *App {
	return &App{
		log: log,
		httpServer: &http.Server{
			Addr:         ":" + strconv.Itoa(config.Port),
			Handler:      NewRouter(log, config, sessionTTL, accounts, sessions, reports),
			IdleTimeout:  2 * config.Timeout,
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
		},
		port: config.Port,
	}
}

// NewRouter builds the API routes wrapped in the CORS middleware.
func NewRouter(
	log *slog.Logger,
	config *Config,
	sessionTTL time.Duration,
	accounts handler.AccountService,
	sessions handler.SessionService,
	reports handler.ReportService,
) http.Handler {
	router := http.NewServeMux()

	cookie := handler.CookieOptions{TTL: sessionTTL, Secure: config.CookieSecure}

	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return handler.RequireSession(log, sessions, next)
	}

	router.HandleFunc(
		"POST /api/register",
		handler.RegisterHandler(log, accounts, sessions, cookie),
	)

	router.HandleFunc(
		"POST /api/login",
		handler.LoginHandler(log, accounts, sessions, cookie),
	)

	router.HandleFunc(
		"GET /api/logout",
		handler.LogoutHandler(log, sessions, cookie),
	)

	router.HandleFunc(
		"GET /api/me",
		auth(handler.MeHandler(log)),
	)

	router.HandleFunc(
		"POST /api/password/forgot",
		handler.ForgotPasswordHandler(log, accounts),
	)

	router.HandleFunc(
		"GET /api/reports",
		auth(handler.ListReportsHandler(log, reports)),
	)

	router.HandleFunc(
		"POST /api/reports",
		auth(handler.CreateReportHandler(log, reports)),
	)

	router.HandleFunc(
		"GET /api/reports/sample/pdf",
		auth(handler.SampleReportHandler(log, reports)),
	)

	router.HandleFunc(
		"GET /api/reports/{id}",
		auth(handler.GetReportHandler(log, reports)),
	)

	router.HandleFunc(
		"PUT /api/reports/{id}",
		auth(handler.UpdateReportHandler(log, reports)),
	)

	router.HandleFunc(
		"DELETE /api/reports/{id}",
		auth(handler.DeleteReportHandler(log, reports)),
	)

	router.HandleFunc(
		"GET /api/reports/{id}/pdf",
		auth(handler.ExportReportHandler(log, reports)),
	)

	return corsMiddleware(config.AllowedOrigins, router)
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "httpapp.Run"

	a.log.With(slog.String("op", op)).
		Info("server started", slog.Int("port", a.port))

	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error("failed to start http server", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Stop() {
	const op = "httpapp.Stop"

	a.log.With(slog.String("op", op)).
		Info("stopping HTTP server", slog.Int("port", a.port))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("server closed with error", sl.Err(err))
		return
	}

	a.log.Info("gracefully stopped")
}

func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowedOrigins[o] = true
	}

	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if allowedOrigins[origin] {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set(
					"Access-Control-Allow-Methods",
					"GET, POST, OPTIONS, PUT, DELETE",
				)
				w.Header().Set(
					"Access-Control-Allow-Headers",
					"Origin, Content-Type, Accept, X-Requested-With",
				)
				w.Header().Set(
					"Access-Control-Expose-Headers",
					"Content-Length, Content-Disposition",
				)
				w.Header().Set("Access-Control-Max-Age", "43200")
			}

			w.Header().Set(
				"Cache-Control",
				"no-store, no-cache, must-revalidate, private",
			)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		},
	)
}
