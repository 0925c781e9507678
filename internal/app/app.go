// Package app wires configuration, storage and transports into runnable
// services shared by every binary.
package app

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"traindesk/internal/api"
	"traindesk/internal/archive"
	"traindesk/internal/auth"
	"traindesk/internal/config"
	"traindesk/internal/database"
	"traindesk/internal/media"
	"traindesk/internal/preview"
	"traindesk/internal/repository"
	"traindesk/internal/worker"
)

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// RunServer starts the API server and blocks until the context is cancelled.
func RunServer(ctx context.Context) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	gateway, err := media.New(cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret, log)
	if err != nil {
		return fmt.Errorf("init media gateway: %w", err)
	}
	if !gateway.Configured() {
		log.Warn("media host credentials missing, uploads disabled")
	}
	store, err := archive.New(cfg)
	if err != nil {
		return fmt.Errorf("init archive storage: %w", err)
	}

	queueClient := asynq.NewClient(redisOpt(cfg))
	defer queueClient.Close()

	server := api.New(api.Deps{
		Config:    cfg,
		Users:     repository.NewUserRepository(pool),
		Courses:   repository.NewCourseRepository(pool),
		Tasks:     repository.NewTaskRepository(pool),
		Documents: repository.NewDocumentRepository(pool),
		Approvals: repository.NewApprovalRepository(pool),
		Assets:    repository.NewMediaRepository(pool),
		Stats:     repository.NewStatsRepository(pool),
		Gateway:   gateway,
		Resolver:  preview.NewResolver(cfg.PreviewMaxBytes, cfg.PreviewTimeout, log),
		Store:     store,
		Tokens:    auth.NewTokenManager(cfg.AuthSecret, cfg.TokenTTL),
		Queue:     queueClient,
		Log:       log,
	})
	return server.Run(ctx)
}

// RunWorker starts the archive worker and blocks until the context is
// cancelled.
func RunWorker(ctx context.Context) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	store, err := archive.New(cfg)
	if err != nil {
		return fmt.Errorf("init archive storage: %w", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	srv := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: cfg.WorkerPool,
	})
	processor := worker.NewProcessor(repository.NewDocumentRepository(pool), store, log)

	go func() {
		<-ctx.Done()
		srv.Shutdown()
	}()
	log.Info("worker started", zap.Int("concurrency", cfg.WorkerPool))
	return srv.Run(processor.Handler())
}

// Migrate connects to the database and applies the schema.
func Migrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	return database.EnsureSchema(ctx, pool)
}
