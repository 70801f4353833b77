package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	grpcapp "boletimCampo/internal/app/grpc"
	httpapp "boletimCampo/internal/app/http"
	"boletimCampo/internal/pkg/logger/sl"
	mailerclient "boletimCampo/internal/pkg/mailer-client"
	reportrenderer "boletimCampo/internal/pkg/report-renderer"
	tg_client "boletimCampo/internal/pkg/tg"
	accountRepo "boletimCampo/internal/repository/account"
	"boletimCampo/internal/repository/postgres"
	postgresCollection "boletimCampo/internal/repository/postgres/collection"
	redisRepository "boletimCampo/internal/repository/redis"
	reportRepo "boletimCampo/internal/repository/report"
	"boletimCampo/internal/repository/s3minio"
	accountservice "boletimCampo/internal/service/account"
	reportservice "boletimCampo/internal/service/report"
	"boletimCampo/internal/service/seed"
	"boletimCampo/internal/service/session"
)

type Config struct {
	TemplatePath string `yaml:"template_path" env:"TEMPLATE_PATH" env-default:"assets/boletim-template.pdf"`
	HashCost     int    `yaml:"hash_cost" env:"HASH_COST" env-default:"10"`
}

type App struct {
	HTTPServer *httpapp.App
	GRPCServer *grpcapp.App

	log     *slog.Logger
	closers []func()
}

func New(
	log *slog.Logger,
	appConfig *Config,
	httpConfig *httpapp.Config,
	grpcConfig *grpcapp.Config,
	postgresConfig *postgres.Config,
	redisConfig *redisRepository.Config,
	s3Config *s3minio.Config,
	resetConfig *accountservice.ResetConfig,
	mailerConfig *mailerclient.Config,
	tgConfig *tg_client.Config,
	seedConfig *seed.Config,
) *App {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{log: log}

	pool, err := postgres.NewConnPool(ctx, postgresConfig)
	if err != nil {
		log.Error("failed to connect to postgres", sl.Err(err))
		os.Exit(1)
	}
	a.closers = append(a.closers, pool.Close)

	store := postgresCollection.New(pool)
	if err := store.Migrate(ctx); err != nil {
		log.Error("failed to migrate record store", sl.Err(err))
		os.Exit(1)
	}

	redisPool := redisRepository.NewPool(redisConfig.Address, redisConfig.Password)
	a.closers = append(a.closers, func() { redisPool.Close() })
	sessionRepo := redisRepository.NewSessionRepository(redisPool, redisConfig.SessionTTL)

	accounts := accountRepo.New(store, accountRepo.WithHashCost(appConfig.HashCost))
	reports := reportRepo.New(store)

	var template reportrenderer.TemplateSource = reportrenderer.FileTemplate(appConfig.TemplatePath)
	var reportOpts []reportservice.Option

	if s3Config.Enabled {
		minioRepo := mustMinio(ctx, log, s3Config, appConfig.TemplatePath)
		template = minioRepo
		reportOpts = append(reportOpts, reportservice.WithArchive(minioRepo))
	}

	if tgConfig.Enabled {
		bot, err := tg_client.NewBot(tgConfig.Token, tgConfig.APIEndpoint)
		if err != nil {
			log.Error("failed to create telegram bot", sl.Err(err))
			os.Exit(1)
		}
		reportOpts = append(reportOpts, reportservice.WithNotifier(tg_client.New(bot, tgConfig.ChatID)))
	}

	renderer := reportrenderer.New(log, template)

	sessionService := session.New(log, sessionRepo)
	accountService := accountservice.New(log, accounts, mailerclient.New(mailerConfig), *resetConfig)
	reportService := reportservice.New(log, reports, renderer, reportOpts...)

	if _, err := seed.Run(ctx, log, *seedConfig, accounts, reportService); err != nil {
		log.Error("failed to seed sample data", sl.Err(err))
	}

	a.HTTPServer = httpapp.New(log, httpConfig, redisConfig.SessionTTL, accountService, sessionService, reportService)

	a.GRPCServer = grpcapp.New(log, grpcConfig, map[string]grpcapp.Check{
		"postgres": pool.Ping,
		"redis": func(ctx context.Context) error {
			conn, err := redisPool.GetContext(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			_, err = conn.Do("PING")
			return err
		},
	})

	return a
}

// mustMinio connects to object storage and makes sure the bucket holds the
// report template, uploading the local copy when it is missing.
func mustMinio(ctx context.Context, log *slog.Logger, cfg *s3minio.Config, templatePath string) *s3minio.MinioRepository {
	conn, err := s3minio.NewConn(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to s3", sl.Err(err))
		os.Exit(1)
	}

	repo := s3minio.New(log, conn, cfg)

	if err := repo.ConfigureStorage(ctx); err != nil {
		log.Error("failed to configure s3 storage", sl.Err(err))
		os.Exit(1)
	}

	if _, err := repo.Template(ctx); err != nil {
		log.Info("template not in bucket, uploading local copy", sl.Err(err))

		b, err := os.ReadFile(templatePath)
		if err != nil {
			log.Error("failed to read local template", sl.Err(err))
			os.Exit(1)
		}

		if err := repo.UploadTemplate(ctx, b); err != nil {
			log.Error("failed to upload template", sl.Err(err))
			os.Exit(1)
		}
	}

	return repo
}

func (a *App) Run() {
	go a.HTTPServer.MustRun()
	go a.GRPCServer.MustRun()
}

func (a *App) Stop() {
	a.HTTPServer.Stop()
	a.GRPCServer.Stop()

	a.log.Info("closing storage connections")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
