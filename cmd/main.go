package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "room-service/docs"
	"room-service/internal/config"
	"room-service/internal/detection"
	"room-service/internal/generation"
	"room-service/internal/guidance"
	"room-service/internal/handlers"
	"room-service/internal/logging"
	"room-service/internal/models"
	"room-service/internal/repository"
	"room-service/internal/services"
	"room-service/internal/services/cache"
	"room-service/internal/services/caches"
	"room-service/internal/services/jobstore"
	"room-service/internal/services/jobstores"
	"room-service/internal/storage"
	"room-service/internal/utils"
)

func main() {
	cfg := InitConfig()
	logger := InitLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	metrics := utils.NewMetrics(prometheus.DefaultRegisterer)
	pingers := map[string]handlers.Pinger{}

	var (
		analysisRepo repository.AnalysisRepository
		archive      repository.JobArchive
	)
	if cfg.DatabaseEnabled() {
		db := ConnectDatabase(cfg, logger)
		MigrateDatabase(db, logger)
		analysisRepo = repository.NewAnalysisRepository(db)
		archive = repository.NewJobRepository(db)
		pingers["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	} else {
		logger.Info("DB_HOST not set, analyses are not persisted")
	}

	var redisClient *storage.RedisClient
	if cfg.JobStore == config.JobStoreRedis || cfg.DetectionCache == config.DetectionCacheRedis {
		redisClient = ConnectRedis(ctx, cfg, logger)
		pingers["redis"] = redisClient.Ping
		defer func() { _ = redisClient.Close() }()
	}

	imageStore := InitImageStore(ctx, cfg, logger, pingers)
	jobStore := InitJobStore(cfg, redisClient, logger)
	visualizer := InitVisualizer(cfg, imageStore, logger)

	orchestrator := services.NewJobOrchestrator(jobStore, visualizer, services.OrchestratorOptions{
		Workers: cfg.JobWorkers,
		TTL:     cfg.JobTTL,
		Archive: archive,
		Metrics: metrics,
	}, logger)

	scheduler, err := services.NewEvictionScheduler(orchestrator, cfg.EvictionSchedule, logger)
	if err != nil {
		logger.Fatal("Eviction scheduler setup failed", zap.Error(err))
	}
	scheduler.Start()

	var detector detection.Detector
	if cfg.DetectorURL != "" {
		detector = InitDetector(cfg, redisClient, metrics, logger)
		pingers["object_detector_service"] = detector.CheckHealth
	}

	analysisService := services.NewAnalysisService(guidance.NewEngine(logger), services.AnalysisOptions{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		BatchConcurrency:    cfg.BatchConcurrency,
		Repo:                analysisRepo,
		Detector:            detector,
		Orchestrator:        orchestrator,
		Metrics:             metrics,
	}, logger)

	app := fiber.New(fiber.Config{BodyLimit: 64 << 20})

	// Register Prometheus metrics endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if cfg.ImageStore == config.ImageStoreDisk {
		app.Static(cfg.ImageBaseURL, cfg.ImageDir)
	}

	api := app.Group("/api/room")
	handlers.RegisterRoutes(api,
		handlers.NewAnalysisHandler(analysisService, logger),
		handlers.NewGenerationHandler(orchestrator, logger),
		&handlers.HealthHandler{Analysis: analysisService, Orchestrator: orchestrator, Pingers: pingers})
	api.Get("/swagger/*", swagger.HandlerDefault)

	for _, r := range app.GetRoutes(true) {
		logger.Debug("Registered route", zap.String("method", r.Method), zap.String("path", r.Path))
	}

	go func() {
		logger.Info("Server listening", zap.String("port", cfg.AppPort), zap.String("visualizer", visualizer.Name()))
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			logger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
	scheduler.Stop()
	orchestrator.Close()
}

func InitConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		// The logger depends on config, so this one goes to stderr.
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func InitLogger(cfg *config.Config) *zap.Logger {
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func ConnectDatabase(cfg *config.Config, logger *zap.Logger) *gorm.DB {
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal("Database connection failed", zap.Error(err))
	}
	return db
}

func MigrateDatabase(db *gorm.DB, logger *zap.Logger) {
	if err := db.AutoMigrate(&models.RoomAnalysis{}, &models.JobRecord{}); err != nil {
		logger.Fatal("Database migration failed", zap.Error(err))
	}
}

func InitImageStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, pingers map[string]handlers.Pinger) generation.ImageStore {
	if cfg.ImageStore == config.ImageStoreMinio {
		client, err := storage.NewMinioClient(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("MinIO client initialization failed", zap.Error(err))
		}
		store := storage.NewMinioImageStore(client, cfg.MinioBucket, cfg.MinioURLExpiry)
		pingers["image_store"] = store.Ping
		return store
	}

	store, err := storage.NewDiskImageStore(cfg.ImageDir, cfg.ImageBaseURL)
	if err != nil {
		logger.Fatal("Image directory setup failed", zap.Error(err))
	}
	return store
}

func ConnectRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) *storage.RedisClient {
	client, err := storage.NewRedisClient(ctx, cfg.RedisHost, cfg.RedisPort)
	if err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}
	return client
}

func InitJobStore(cfg *config.Config, client *storage.RedisClient, logger *zap.Logger) jobstore.JobStore {
	if cfg.JobStore == config.JobStoreRedis {
		return jobstores.NewRedisStore(client, cfg.JobTTL, logger)
	}
	return jobstores.NewMemoryStore(cfg.JobCapacity, logger)
}

// InitDetector builds the inference client, fronted by the configured
// detection cache.
func InitDetector(cfg *config.Config, client *storage.RedisClient, metrics *utils.Metrics, logger *zap.Logger) detection.Detector {
	httpDetector := detection.NewHTTPDetector(cfg.DetectorURL, logger)

	var layer cache.Layer
	switch cfg.DetectionCache {
	case config.DetectionCacheMemory:
		layer = caches.NewMemoryCache(cfg.DetectionCacheSize, cfg.DetectionCacheTTL, logger)
	case config.DetectionCacheRedis:
		layer = caches.NewRedisCache(client, "room:", cfg.DetectionCacheTTL, logger)
	default:
		return httpDetector
	}

	logger.Info("Detection cache enabled", zap.String("layer", layer.Name()))
	return detection.NewCachedDetector(httpDetector, layer, metrics, logger)
}

// InitVisualizer picks the generation strategy. The collaborative pipeline
// needs an image model key; without one the service runs on placeholders.
func InitVisualizer(cfg *config.Config, store generation.ImageStore, logger *zap.Logger) generation.Visualizer {
	if cfg.Visualizer != config.VisualizerCollaborative {
		return generation.NewPlaceholderVisualizer(store, logger)
	}
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, falling back to placeholder visualizations")
		return generation.NewPlaceholderVisualizer(store, logger)
	}

	openaiCfg := generation.OpenAIConfig{
		Endpoint:   cfg.OpenAIEndpoint,
		APIKey:     cfg.OpenAIAPIKey,
		TextModel:  cfg.OpenAIModel,
		ImageModel: cfg.ImageModel,
	}

	var describer generation.Describer
	switch cfg.TextProvider {
	case config.TextProviderOpenAI:
		d, err := generation.NewOpenAIDescriber(openaiCfg, logger)
		if err != nil {
			logger.Fatal("OpenAI describer setup failed", zap.Error(err))
		}
		describer = d
	case config.TextProviderAnthropic:
		d, err := generation.NewAnthropicDescriber(cfg.AnthropicKey, cfg.AnthropicModel, logger)
		if err != nil {
			logger.Fatal("Anthropic describer setup failed", zap.Error(err))
		}
		describer = d
	}

	return generation.NewCollaborativeVisualizer(describer, generation.NewOpenAISynthesizer(openaiCfg, logger), store, logger)
}
