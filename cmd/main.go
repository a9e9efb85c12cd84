package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/featurestore-backend/internal/cache"
	"github.com/yungbote/featurestore-backend/internal/data/db"
	"github.com/yungbote/featurestore-backend/internal/data/repos"
	"github.com/yungbote/featurestore-backend/internal/handlers"
	"github.com/yungbote/featurestore-backend/internal/observability"
	"github.com/yungbote/featurestore-backend/internal/platform/config"
	"github.com/yungbote/featurestore-backend/internal/platform/logger"
	"github.com/yungbote/featurestore-backend/internal/server"
	"github.com/yungbote/featurestore-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "featurestore",
		Environment: cfg.Environment,
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOtel(ctx)
	}()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	rawTableRepo := repos.NewRawTableRepo(thePG, log)
	rawRecordRepo := repos.NewRawRecordRepo(thePG, log)
	featureRepo := repos.NewFeatureRepo(thePG, log)
	versionRepo := repos.NewFeatureVersionRepo(thePG, log)
	vectorRepo := repos.NewFeatureVectorRepo(thePG, log)

	// Cache: prefer Redis, fall back to the in-process map when it is
	// unreachable.
	remote, err := cache.NewRedisStore(log)
	if err != nil {
		log.Warn("Redis unavailable at startup", "error", err)
		remote = nil
	}
	fallback := cache.NewMemoryStore()
	defer fallback.Close()
	cacheHandle := cache.New(log, remote, fallback, cfg.CacheTTL)

	// Services
	log.Info("Setting up services...")
	registryService := services.NewRegistryService(thePG, log, rawTableRepo, featureRepo, versionRepo)
	ingestService := services.NewIngestService(thePG, log, rawTableRepo, rawRecordRepo)
	vectorService := services.NewVectorService(thePG, log, rawTableRepo, rawRecordRepo, featureRepo, versionRepo, vectorRepo, cacheHandle)

	// Handlers + router
	rawTableHandler := handlers.NewRawTableHandler(registryService, ingestService)
	featureHandler := handlers.NewFeatureHandler(registryService, vectorService)
	vectorHandler := handlers.NewVectorHandler(vectorService)

	router := server.NewRouter(server.RouterConfig{
		ServiceName:     "featurestore",
		AllowedOrigins:  cfg.AllowedOrigins,
		RawTableHandler: rawTableHandler,
		FeatureHandler:  featureHandler,
		VectorHandler:   vectorHandler,
	})

	addr := ":" + cfg.Port
	log.Info("Starting feature store API", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
