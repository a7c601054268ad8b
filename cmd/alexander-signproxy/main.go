// Package main is the entry point for the Alexander SigKit signing
// proxy: an HTTP service that resolves an access key ID to credentials
// and signs a caller-described request with one of the registered AWS
// signers, so the caller never has to hold the secret key itself.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/alexander-sigkit/internal/config"
	"github.com/prn-tf/alexander-sigkit/internal/credentials"
	"github.com/prn-tf/alexander-sigkit/internal/pkg/crypto"
	"github.com/prn-tf/alexander-sigkit/internal/repository"
	"github.com/prn-tf/alexander-sigkit/internal/repository/postgres"
	"github.com/prn-tf/alexander-sigkit/internal/repository/sqlite"
	"github.com/prn-tf/alexander-sigkit/internal/signer"
	"github.com/prn-tf/alexander-sigkit/internal/signer/identitycache"
	"github.com/prn-tf/alexander-sigkit/internal/signproxy"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("Starting Alexander SigKit signing proxy")

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	repos, dbCloser, err := initRepositories(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize repositories")
	}
	defer dbCloser()

	encryptionKey, err := cfg.Signing.GetEncryptionKey()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid encryption key")
	}
	encryptor, err := crypto.NewEncryptor(encryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryptor")
	}

	resolver := credentials.NewResolver(repos.AccessKey, encryptor, log.Logger)

	idCache := initIdentityCache(cfg, log.Logger)

	registry := signer.NewRegistry()

	srv := signproxy.NewServer(signproxy.Config{
		Registry:       registry,
		Resolver:       resolver,
		IdentityCache:  idCache,
		DefaultRegion:  cfg.Signing.DefaultRegion,
		DefaultService: cfg.Signing.DefaultService,
		Logger:         log.Logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Signing proxy listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Signing proxy server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down signing proxy...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Signing proxy shutdown error")
	}

	log.Info().Msg("Signing proxy stopped")
}

// initRepositories wires the access-key and user stores per the
// configured database driver, mirroring the admin CLI's bootstrap.
func initRepositories(ctx context.Context, cfg *config.Config) (*repository.Repositories, func(), error) {
	if cfg.Database.Driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		sqliteDB, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			CacheSize:       cfg.Database.CacheSize,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, log.Logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		closer := func() { sqliteDB.Close() }

		if err := sqliteDB.Migrate(ctx); err != nil {
			closer()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		return &repository.Repositories{
			User:      sqlite.NewUserRepository(sqliteDB),
			AccessKey: sqlite.NewAccessKeyRepository(sqliteDB),
		}, closer, nil
	}

	pgDB, err := postgres.NewDB(ctx, cfg.Database, log.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	closer := func() { pgDB.Close() }

	if err := pgDB.Migrate(ctx); err != nil {
		closer()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &repository.Repositories{
		User:      postgres.NewUserRepository(pgDB),
		AccessKey: postgres.NewAccessKeyRepository(pgDB),
	}, closer, nil
}

// initIdentityCache selects the S3 Express identity cache backend named
// by cfg.Signing.IdentityCacheBackend, defaulting to the in-process LRU.
func initIdentityCache(cfg *config.Config, logger zerolog.Logger) signer.IdentityCache {
	if cfg.Signing.IdentityCacheBackend == "redis" && cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr(),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		return identitycache.NewRedis(client, "sigkit:identity:", cfg.Signing.MaxSignatureAge, logger)
	}
	return identitycache.NewLRU(cfg.Signing.IdentityCacheSize, cfg.Signing.MaxSignatureAge)
}
