package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	auditapi "domainpanel/internal/audit"
	"domainpanel/internal/auth"
	"domainpanel/internal/domain/cache"
	"domainpanel/internal/domain/catalog"
	domainapi "domainpanel/internal/domain/handler"
	domainmetrics "domainpanel/internal/domain/metrics"
	"domainpanel/internal/domain/provisioning"
	_ "domainpanel/internal/domain/provisioning/cloudflare"
	_ "domainpanel/internal/domain/provisioning/hiapi"
	"domainpanel/internal/domain/service"
	"domainpanel/internal/domain/store"
	"domainpanel/internal/platform/config"
	"domainpanel/internal/platform/httpserver"
	"domainpanel/internal/platform/kafka"
	"domainpanel/internal/platform/logger"
	"domainpanel/internal/platform/metrics"
	"domainpanel/internal/platform/postgres"
	"domainpanel/internal/platform/redis"
	"domainpanel/internal/ratelimit"
	httptransport "domainpanel/internal/transport/http"
	"domainpanel/pkg/platform/audit"
	"domainpanel/pkg/platform/audit/publishers/compliance"
	"domainpanel/pkg/platform/audit/publishers/ops"
	"domainpanel/pkg/platform/audit/publishers/security"
	auditkafka "domainpanel/pkg/platform/audit/store/kafka"
	auditmemory "domainpanel/pkg/platform/audit/store/memory"
	auditpostgres "domainpanel/pkg/platform/audit/store/postgres"
	"domainpanel/pkg/platform/circuit"
)

// main wires dependencies and runs the HTTP server and the audit flusher
// until SIGINT or SIGTERM.
func main() {
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.FromEnv(), log); err != nil {
		log.Error("domainpanel stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	cat, err := catalog.Load(cfg.ZoneCategoriesPath)
	if err != nil {
		return err
	}

	backend, err := provisioning.Build(cfg.Provisioning.Backend, provisioning.Options{
		BaseURL:           cfg.Provisioning.BaseURL,
		Token:             cfg.Provisioning.Token,
		Timeout:           cfg.Provisioning.Timeout,
		CloudflareToken:   cfg.Provisioning.CloudflareToken,
		CloudflareAccount: cfg.Provisioning.CloudflareAccount,
		Logger:            log,
	})
	if err != nil {
		return err
	}
	performer := provisioning.NewGuarded(backend, circuit.New("provisioning",
		circuit.WithFailureThreshold(cfg.Provisioning.BreakerFailures),
		circuit.WithCooldown(cfg.Provisioning.BreakerCooldown),
	), log)

	probes := map[string]httptransport.Probe{}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	var (
		domains     store.Store = store.NewInMemoryStore()
		auditStore  audit.Store
		auditReader audit.Reader
	)
	if db != nil {
		defer db.Close()
		pgDomains := store.NewPostgres(db)
		if err := pgDomains.EnsureSchema(ctx); err != nil {
			return err
		}
		pgAudit := auditpostgres.New(db)
		if err := pgAudit.EnsureSchema(ctx); err != nil {
			return err
		}
		domains, auditStore, auditReader = pgDomains, pgAudit, pgAudit
		probes["postgres"] = db.PingContext
	} else {
		log.Warn("DATABASE_URL not set, keeping projections and audit in memory")
		mem := auditmemory.NewInMemoryStore()
		auditStore, auditReader = mem, mem
	}

	producer, err := kafka.NewProducer(ctx, cfg.Kafka)
	if err != nil {
		return err
	}
	if producer != nil {
		defer producer.Close()
		auditStore = audit.Fanout{auditStore, auditkafka.NewSink(producer)}
		probes["kafka"] = producer.Health
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(domainmetrics.New()),
	}
	var limits ratelimit.Store = ratelimit.NewInMemoryStore()
	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
		opts = append(opts, service.WithCache(cache.NewRedisCache(rc, cfg.Cache.CheckTTL, cfg.Cache.ZonesTTL)))
		limits = ratelimit.NewRedisStore(rc)
		probes["redis"] = rc.Health
	}
	var rateLimit func(http.Handler) http.Handler
	if !cfg.RateLimit.Disabled {
		rateLimit = ratelimit.Middleware(ratelimit.NewLimiter(limits, map[ratelimit.EndpointClass]ratelimit.Limit{
			ratelimit.ClassRead:     {Requests: cfg.RateLimit.ReadPerMinute, Window: time.Minute},
			ratelimit.ClassWrite:    {Requests: cfg.RateLimit.WritePerMinute, Window: time.Minute},
			ratelimit.ClassCheck:    {Requests: cfg.RateLimit.CheckPerMinute, Window: time.Minute},
			ratelimit.ClassTransfer: {Requests: cfg.RateLimit.TransferPerMinute, Window: time.Minute},
		}), ratelimit.NewMetrics(), log)
	}

	securityPublisher := security.New(auditStore,
		security.WithLogger(log),
		security.WithMetrics(security.NewMetrics()),
		security.WithBufferSize(cfg.Audit.SecurityBufferSize),
		security.WithFlushInterval(cfg.Audit.SecurityFlushInterval),
	)
	opsTracker := ops.New(auditStore,
		ops.WithSampler(ops.NewSampler(cfg.Audit.OpsSampleRate)),
		ops.WithLogger(log),
		ops.WithMetrics(ops.NewMetrics()),
	)
	auditor := auditapi.New(
		compliance.New(auditStore, compliance.WithLogger(log), compliance.WithMetrics(compliance.NewMetrics())),
		securityPublisher,
		opsTracker,
	)
	opts = append(opts, service.WithAuditor(auditor))

	svc := service.New(performer, domains, opts...)
	router := httptransport.NewRouter(httptransport.Deps{
		Domains:    domainapi.New(svc, cat, log),
		Audit:      auditapi.NewHandler(auditReader, log),
		RateLimit:  rateLimit,
		Tokens:     auth.NewTokenService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience),
		AdminToken: cfg.AdminToken,
		Probes:     probes,
		Metrics:    metrics.New(),
		Logger:     log,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return securityPublisher.Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting domainpanel",
			"addr", cfg.Addr,
			"backend", cfg.Provisioning.Backend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("domainpanel stopped")
	return nil
}
