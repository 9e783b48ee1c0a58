package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"skillpass/internal/content"
	contentcache "skillpass/internal/content/cache"
	contentmetrics "skillpass/internal/content/metrics"
	"skillpass/internal/content/pinata"
	issuancehandler "skillpass/internal/issuance/handler"
	issuancemetrics "skillpass/internal/issuance/metrics"
	issuanceservice "skillpass/internal/issuance/service"
	"skillpass/internal/issuers"
	issuershandler "skillpass/internal/issuers/handler"
	issuersmetrics "skillpass/internal/issuers/metrics"
	"skillpass/internal/jwttoken"
	"skillpass/internal/ledger"
	ledgerstore "skillpass/internal/ledger/store"
	"skillpass/internal/platform/config"
	"skillpass/internal/platform/database"
	"skillpass/internal/platform/health"
	"skillpass/internal/platform/httpserver"
	kafkaproducer "skillpass/internal/platform/kafka/producer"
	"skillpass/internal/platform/logger"
	platformredis "skillpass/internal/platform/redis"
	httptransport "skillpass/internal/transport/http"
	verificationhandler "skillpass/internal/verification/handler"
	verificationmetrics "skillpass/internal/verification/metrics"
	verificationservice "skillpass/internal/verification/service"
	"skillpass/internal/verification/tracer"
	id "skillpass/pkg/domain"
	"skillpass/pkg/platform/audit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing skillpass",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	owner, err := id.ParseAddress(cfg.OwnerAddress)
	if err != nil {
		log.Error("OWNER_ADDRESS is missing or invalid", "error", err)
		os.Exit(1)
	}
	if cfg.AdminToken == "" {
		log.Error("ADMIN_TOKEN must be set")
		os.Exit(1)
	}

	healthHandler := health.New(cfg.Environment)

	// Audit sink: Kafka when brokers are configured, in-memory otherwise.
	var auditStore audit.Store = audit.NewMemoryStore()
	if len(cfg.Kafka.Brokers) > 0 {
		prod, err := kafkaproducer.New(kafkaproducer.Config{
			Brokers: strings.Join(cfg.Kafka.Brokers, ","),
		}, log)
		if err != nil {
			log.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer prod.Close()
		auditStore = audit.NewKafkaStore(prod, cfg.Kafka.AuditTopic)
		log.Info("audit events publishing to kafka", "topic", cfg.Kafka.AuditTopic)
	}
	auditor := audit.NewPublisher(auditStore, audit.WithPublisherLogger(log))

	// Ledger store: Postgres when configured, in-memory otherwise.
	var ledgerStore ledger.Store = ledgerstore.NewMemoryStore()
	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.Postgres.URL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
		ledgerStore = ledgerstore.NewPostgres(pool.DB())
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
		log.Info("ledger backed by postgres")
	}

	// Content store: Pinata when keys are configured, in-memory otherwise.
	var contentStore content.Store = content.NewMemoryStore()
	if cfg.Pinata.APIKey != "" {
		contentStore = pinata.New(pinata.Config{
			BaseURL:    cfg.Pinata.APIURL,
			GatewayURL: cfg.Pinata.GatewayURL,
			APIKey:     cfg.Pinata.APIKey,
			SecretKey:  cfg.Pinata.SecretKey,
		}, log)
		log.Info("content pinning to pinata", "api_url", cfg.Pinata.APIURL)
	}

	contentOpts := []content.Option{
		content.WithLogger(log),
		content.WithMetrics(contentmetrics.New()),
	}
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		contentOpts = append(contentOpts, content.WithCache(contentcache.NewRedis(redisClient.Client, 24*time.Hour)))
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
		log.Info("metadata cache backed by redis")
	}
	contentSvc := content.NewService(contentStore, contentOpts...)

	// Periodic pool metrics for whichever backends are configured.
	if redisClient != nil || pool != nil {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				if redisClient != nil {
					redisClient.RecordPoolStats()
				}
				if pool != nil {
					pool.RecordPoolStats()
				}
			}
		}()
	}

	registry := issuers.NewRegistry(owner,
		issuers.WithAuditor(auditor),
		issuers.WithLogger(log),
	)

	issuanceSvc := issuanceservice.NewService(ledgerStore, registry, contentSvc,
		issuanceservice.WithAuditor(auditor),
		issuanceservice.WithLogger(log),
		issuanceservice.WithMetrics(issuancemetrics.New()),
	)

	verificationSvc := verificationservice.NewService(ledgerStore,
		verificationservice.WithContent(contentSvc),
		verificationservice.WithTracer(tracer.NewOTel()),
		verificationservice.WithLogger(log),
		verificationservice.WithMetrics(verificationmetrics.New()),
	)

	tokenSvc := jwttoken.NewService(cfg.JWTSigningKey, "skillpass", cfg.TokenTTL)

	router := httptransport.NewRouter(httptransport.Deps{
		Issuance:       issuancehandler.New(issuanceSvc, log),
		Verification:   verificationhandler.New(verificationSvc, log),
		Issuers:        issuershandler.New(registry, log, issuersmetrics.New()),
		Health:         healthHandler,
		TokenValidator: tokenSvc,
		AdminToken:     cfg.AdminToken,
	}, log)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
