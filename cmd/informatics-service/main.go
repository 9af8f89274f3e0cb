package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/biosmart-lab/informatics/pkg/common/config"
	"github.com/biosmart-lab/informatics/pkg/common/database"
	"github.com/biosmart-lab/informatics/pkg/common/kafka"
	"github.com/biosmart-lab/informatics/pkg/common/logger"
	"github.com/biosmart-lab/informatics/pkg/gateway/auth"
	"github.com/biosmart-lab/informatics/pkg/gateway/middleware"
	"github.com/biosmart-lab/informatics/pkg/informatics"
	"github.com/biosmart-lab/informatics/pkg/nlp"
	"github.com/biosmart-lab/informatics/pkg/observability/metrics"
	"github.com/biosmart-lab/informatics/pkg/phi"
	"github.com/biosmart-lab/informatics/pkg/terminology"
)

func main() {
	logger.Init()
	cfg := config.Load()

	rules, err := nlp.LoadRules(cfg.NLPRulesPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load NLP rules")
	}
	tagger, err := nlp.NewTagger(rules)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to build tagger")
	}
	dict, err := terminology.Load(cfg.TerminologyPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load terminology")
	}
	phiRules, err := phi.LoadRules(cfg.PHIRulesPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load PHI rules")
	}
	detector, err := phi.NewDetector(phiRules)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to build PHI detector")
	}

	recorder := metrics.New()
	opts := informatics.Options{
		Tagger:     tagger,
		Dictionary: dict,
		PHI:        detector,
		Metrics:    recorder,
	}
	var checks []readinessCheck

	if cfg.AuditEnabled {
		db, err := database.GetPostgres(cfg)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to connect to PostgreSQL")
		}
		repo := informatics.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("Failed to migrate audit tables")
		}
		opts.Audit = repo
		checks = append(checks, readinessCheck{
			name:     "postgres",
			critical: true,
			ping:     func(ctx context.Context) error { return database.PingPostgres(ctx, db) },
		})
	}

	if cfg.CacheEnabled {
		client, err := database.GetRedis(cfg)
		if err != nil {
			logger.Log.WithError(err).Warn("Redis unavailable, extraction cache will miss until it returns")
		}
		opts.Cache = informatics.NewRedisCache(client, cfg.CachePrefix, cfg.CacheTTL)
		checks = append(checks, readinessCheck{
			name: "redis",
			ping: func(ctx context.Context) error { return database.PingRedis(ctx, client) },
		})
	}

	var producer *kafka.Producer
	if cfg.EventsEnabled {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)
		opts.Publisher = producer
	}

	service, err := informatics.NewService(opts)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to create informatics service")
	}

	var validator middleware.TokenValidator
	oidcAuth, err := auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCTimeout)
	if err != nil {
		logger.Log.WithError(err).Warn("OIDC authentication not configured, running without auth")
	} else {
		validator = oidcAuth
	}

	handler := newHandler(routerConfig{
		service:        service,
		recorder:       recorder,
		validator:      validator,
		checks:         checks,
		rateLimitRPS:   cfg.RateLimitRPS,
		rateLimitBurst: cfg.RateLimitBurst,
		maxRequestBody: cfg.MaxRequestBody,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var wg sync.WaitGroup
	var consumer *kafka.Consumer
	if cfg.EventsEnabled && cfg.NotesTopic != "" {
		consumer = kafka.NewConsumer(cfg.KafkaBrokers, cfg.NotesTopic, cfg.KafkaGroupID)
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Log.WithField("topic", cfg.NotesTopic).Info("Note consumer started")
			if err := consumer.Consume(ctx, service.HandleNoteEvent); err != nil && ctx.Err() == nil {
				logger.Log.WithError(err).Error("Note consumer stopped")
			}
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":   cfg.ServerHost,
			"port":   cfg.ServerPort,
			"audit":  cfg.AuditEnabled,
			"cache":  cfg.CacheEnabled,
			"events": cfg.EventsEnabled,
		}).Info("Informatics service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down informatics service...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	wg.Wait()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close note consumer")
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close event producer")
		}
	}
	if err := database.CloseRedis(); err != nil {
		logger.Log.WithError(err).Warn("Failed to close Redis")
	}
	if err := database.ClosePostgres(); err != nil {
		logger.Log.WithError(err).Warn("Failed to close PostgreSQL")
	}

	logger.Log.Info("Informatics service stopped")
}
