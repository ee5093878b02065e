package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"teamsort/internal/assessment"
	"teamsort/internal/audit"
	auditkafka "teamsort/internal/audit/kafka"
	"teamsort/internal/grouping"
	jwttoken "teamsort/internal/jwt_token"
	"teamsort/internal/platform/config"
	"teamsort/internal/platform/httpserver"
	"teamsort/internal/platform/logger"
	platformmetrics "teamsort/internal/platform/metrics"
	"teamsort/internal/platform/middleware"
	"teamsort/internal/session"
	sessionmetrics "teamsort/internal/session/metrics"
	"teamsort/internal/session/service"
	"teamsort/internal/session/store"
	"teamsort/pkg/platform/circuit"
	"teamsort/pkg/platform/sentinel"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg, warnings := config.FromEnv()
	log := logger.New(cfg.Log)
	for _, w := range warnings {
		log.Warn("configuration fallback", "detail", w)
	}

	if err := run(cfg, log); err != nil {
		log.Error("teamsort stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bank, err := assessment.LoadBank(cfg.Session.QuestionBankPath)
	if err != nil {
		return err
	}

	partitionOpts := []grouping.Option{
		grouping.WithStrategy(grouping.Strategy(cfg.Session.Strategy)),
		grouping.WithPlacement(grouping.Placement(cfg.Session.Placement)),
	}
	if cfg.Session.HasSeed {
		partitionOpts = append(partitionOpts, grouping.WithSeed(cfg.Session.Seed))
	}
	partitioner, err := grouping.New(cfg.Session.GroupCount, partitionOpts...)
	if err != nil {
		return err
	}

	snapshots, err := store.Open(ctx, cfg.Snapshot)
	if err != nil {
		return err
	}
	defer snapshots.Close()
	logPreviousSnapshot(ctx, log, snapshots)

	checks := map[string]httpserver.Check{"snapshot": snapshots.Ping}

	var auditStore audit.Store = audit.NewInMemoryStore()
	var workerOpts []audit.WorkerOption
	if len(cfg.Audit.KafkaBrokers) > 0 {
		sink, err := auditkafka.New(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic, auditkafka.WithLogger(log))
		if err != nil {
			return err
		}
		defer sink.Close()
		if err := sink.EnsureTopic(ctx); err != nil {
			return err
		}
		workerOpts = append(workerOpts,
			audit.WithBreaker(circuit.New("audit-kafka")),
			audit.WithFallback(auditStore),
		)
		auditStore = sink
		checks["audit"] = sink.Ping
	}
	publisher := audit.NewPublisher(auditStore,
		audit.WithBuffer(cfg.Audit.BufferSize),
		audit.WithPublisherLogger(log),
	)

	registry := prometheus.DefaultRegisterer
	controller, err := session.New(bank, partitioner, snapshots,
		service.WithLogger(log),
		service.WithMetrics(sessionmetrics.New(registry)),
		service.WithAuditPublisher(publisher),
		service.WithRevealDelay(cfg.Session.RevealDelay),
	)
	if err != nil {
		return err
	}
	defer controller.Close()

	tokens := jwttoken.NewJWTService(cfg.Server.OperatorJWTSecret, cfg.Server.OperatorIssuer, cfg.Server.OperatorAudience)
	operatorGuard := middleware.RequireOperator(jwttoken.NewMiddlewareValidator(tokens), log)

	r := newRouter(routerDeps{
		logger:         log,
		controller:     controller,
		operatorGuard:  operatorGuard,
		httpMetrics:    platformmetrics.New(registry),
		checks:         checks,
		metricsHandler: promhttp.Handler(),
	})
	srv := httpserver.New(cfg.Server.Addr, r)

	log.Info("starting teamsort",
		"addr", cfg.Server.Addr,
		"session_id", controller.ID().String(),
		"groups", partitioner.GroupCount(),
		"strategy", partitioner.Strategy(),
		"placement", partitioner.Placement(),
		"snapshot_backend", cfg.Snapshot.Backend,
		"reveal_delay", cfg.Session.RevealDelay.String(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout)
	})
	g.Go(func() error {
		err := audit.NewWorker(auditStore, publisher.Inbox(), log, workerOpts...).Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("teamsort stopped")
	return nil
}

func logPreviousSnapshot(ctx context.Context, log *slog.Logger, snapshots store.Backend) {
	prev, err := snapshots.Load(ctx)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return
	case err != nil:
		log.Warn("could not read previous finalized snapshot", "error", err)
	default:
		log.Info("previous finalized snapshot found",
			"roster_size", len(prev.Roster),
			"groups", len(prev.Groups),
		)
	}
}
