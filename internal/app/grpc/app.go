package grpcapp

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"

	"boletimCampo/internal/pkg/logger/sl"
)

// ServiceName is the health service entry of the report backend.
const ServiceName = "boletim.Reports"

// minCheckInterval is the shortest period between dependency checks.
const minCheckInterval = time.Second

type Config struct {
	Port          string        `yaml:"port" env:"GRPC_PORT" env-default:":50051"`
	CheckInterval time.Duration `yaml:"check_interval" env:"GRPC_CHECK_INTERVAL" env-default:"15s"`
}

// Check pings a dependency; a non-nil error marks the service not serving.
type Check func(ctx context.Context) error

// App exposes the standard gRPC health service for the HTTP backend.
type App struct {
	log        *slog.Logger
	gRPCServer *grpc.Server
	health     *health.Server
	port       string
	interval   time.Duration
	checks     map[string]Check

	ctx    context.Context
	cancel context.CancelFunc
}

func New(log *slog.Logger, config *Config, checks map[string]Check) *App {
	gRPCServer := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: 30 * time.Minute,
			Time:              30 * time.Minute,
			Timeout:           30 * time.Minute,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             30 * time.Second,
			PermitWithoutStream: true,
		}),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gRPCServer, hs)

	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	interval := config.CheckInterval
	if interval < minCheckInterval {
		interval = minCheckInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		log:        log,
		gRPCServer: gRPCServer,
		health:     hs,
		port:       config.Port,
		interval:   interval,
		checks:     checks,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "grpcapp.Run"

	log := a.log.With(slog.String("op", op), slog.String("port", a.port))

	l, err := net.Listen("tcp", a.port)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go a.watch(a.ctx)

	log.Info("grpc server started", slog.String("addr", l.Addr().String()))

	if err := a.gRPCServer.Serve(l); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) watch(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		a.updateStatus(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// updateStatus runs every check and publishes the combined status.
func (a *App) updateStatus(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING

	for name, check := range a.checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check(checkCtx)
		cancel()

		if err != nil {
			a.log.Warn("health check failed", slog.String("check", name), sl.Err(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	a.health.SetServingStatus(ServiceName, status)
	a.health.SetServingStatus("", status)
}

func (a *App) Stop() {
	const op = "grpcapp.Stop"

	a.log.With(slog.String("op", op)).Info("stopping gRPC server")

	a.cancel()
	a.health.Shutdown()
	a.gRPCServer.GracefulStop()
}
