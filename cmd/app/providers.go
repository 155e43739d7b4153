package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/itinerary-planner/internal/domain/auth"
	"github.com/yanqian/itinerary-planner/internal/domain/itinerary"
	"github.com/yanqian/itinerary-planner/internal/domain/planner"
	"github.com/yanqian/itinerary-planner/internal/infra/config"
	"github.com/yanqian/itinerary-planner/internal/infra/itineraryapi"
	"github.com/yanqian/itinerary-planner/internal/infra/itineraryrepo"
	"github.com/yanqian/itinerary-planner/internal/infra/popularity"
	"github.com/yanqian/itinerary-planner/internal/infra/sharestore"
	"github.com/yanqian/itinerary-planner/internal/infra/userrepo"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

func provideItineraryConfig(cfg *config.Config) (itinerary.Config, error) {
	loc, err := time.LoadLocation(cfg.Itinerary.Timezone)
	if err != nil {
		return itinerary.Config{}, fmt.Errorf("itinerary timezone: %w", err)
	}
	return itinerary.Config{
		DefaultDescription: cfg.Itinerary.DefaultDescription,
		PopularLimit:       cfg.Itinerary.PopularLimit,
		SharePrefix:        cfg.Itinerary.Share.Prefix,
		Location:           loc,
	}, nil
}

func providePlannerConfig(cfg *config.Config) (planner.Config, error) {
	loc, err := time.LoadLocation(cfg.Planner.Timezone)
	if err != nil {
		return planner.Config{}, fmt.Errorf("planner timezone: %w", err)
	}
	return planner.Config{
		SessionTTL:     cfg.Planner.SessionTTL,
		CandidateLimit: cfg.Planner.CandidateLimit,
		Location:       loc,
	}, nil
}

func provideItineraryRepository(cfg *config.Config, logger *slog.Logger) itinerary.Repository {
	pool, ok := openPool(cfg.Itinerary.Postgres, "itinerary", logger)
	if !ok {
		return itineraryrepo.NewMemoryRepository()
	}
	return itineraryrepo.NewPostgresRepository(pool)
}

func provideAuthRepository(cfg *config.Config, logger *slog.Logger) auth.Repository {
	pool, ok := openPool(cfg.Auth.Postgres, "auth", logger)
	if !ok {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

// openPool connects and pings. Any failure falls back to memory storage.
func openPool(pgCfg config.PostgresConfig, name string, logger *slog.Logger) (*pgxpool.Pool, bool) {
	dsn := strings.TrimSpace(pgCfg.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repository", "store", name)
		return nil, false
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "store", name, "error", err)
		return nil, false
	}
	if pgCfg.MaxConns > 0 {
		poolConfig.MaxConns = pgCfg.MaxConns
	}
	if pgCfg.MinConns > 0 {
		poolConfig.MinConns = pgCfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "store", name, "error", err)
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "store", name, "error", err)
		pool.Close()
		return nil, false
	}
	logger.Info("postgres repository enabled", "store", name)
	return pool, true
}

func providePopularityStore(cfg *config.Config, logger *slog.Logger) itinerary.PopularityStore {
	vk := cfg.Itinerary.Valkey
	if !vk.Enabled {
		return popularity.NewMemoryStore()
	}
	opt, err := buildValkeyOptions(vk.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return popularity.NewMemoryStore()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return popularity.NewMemoryStore()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return popularity.NewMemoryStore()
	}
	logger.Info("valkey popularity store enabled", "addr", vk.Addr)
	return popularity.NewValkeyStore(client, vk.Prefix)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideShareStorage(cfg *config.Config, logger *slog.Logger) itinerary.ObjectStorage {
	share := cfg.Itinerary.Share
	if !share.Enabled {
		logger.Info("share bucket disabled, keeping shared calendars in memory")
		return sharestore.NewMemoryStorage()
	}
	storage, err := sharestore.NewS3Storage(share.Endpoint, share.AccessKey, share.SecretKey, share.Bucket, share.Region, logger)
	if err != nil {
		logger.Error("failed to initialize share bucket, keeping shared calendars in memory", "error", err)
		return sharestore.NewMemoryStorage()
	}
	logger.Info("share bucket enabled", "bucket", share.Bucket)
	return storage
}

// providePlannerBackend saves through the REST API when a base URL is
// configured and through the in-process service otherwise.
func providePlannerBackend(cfg *config.Config, svc itinerary.Service, logger *slog.Logger) planner.Backend {
	if url := strings.TrimSpace(cfg.Planner.BackendURL); url != "" {
		logger.Info("planner saves through remote itinerary api", "url", url)
		return itineraryapi.NewClient(url, cfg.Planner.BackendTimeout)
	}
	return svc
}
