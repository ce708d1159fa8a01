package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	ImageStoreDisk  = "disk"
	ImageStoreMinio = "minio"

	JobStoreMemory = "memory"
	JobStoreRedis  = "redis"

	VisualizerPlaceholder   = "placeholder"
	VisualizerCollaborative = "collaborative"

	TextProviderNone      = "none"
	TextProviderOpenAI    = "openai"
	TextProviderAnthropic = "anthropic"

	DetectionCacheNone   = "none"
	DetectionCacheMemory = "memory"
	DetectionCacheRedis  = "redis"
)

// Config holds all configuration values. Values come from the environment,
// optionally layered over a YAML file named by CONFIG_FILE.
type Config struct {
	AppPort        string `yaml:"port" env:"ROOM_PORT" env-default:"8000"`
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogDevelopment bool   `yaml:"log_development" env:"LOG_DEVELOPMENT" env-default:"false"`

	// Database is optional; without DB_HOST analyses and finished jobs are not persisted.
	DBHost     string `yaml:"db_host" env:"DB_HOST"`
	DBPort     string `yaml:"db_port" env:"DB_PORT" env-default:"5432"`
	DBUser     string `yaml:"db_user" env:"DB_USER"`
	DBPassword string `yaml:"-" env:"DB_PASSWORD"`
	DBName     string `yaml:"db_name" env:"DB_NAME"`

	ImageStore   string `yaml:"image_store" env:"IMAGE_STORE" env-default:"disk"`
	ImageDir     string `yaml:"image_dir" env:"IMAGE_DIR" env-default:"uploads"`
	ImageBaseURL string `yaml:"image_base_url" env:"IMAGE_BASE_URL" env-default:"/uploads"`

	MinioEndpoint  string        `yaml:"minio_endpoint" env:"MINIO_ENDPOINT"`
	MinioAccessKey string        `yaml:"-" env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string        `yaml:"-" env:"MINIO_SECRET_KEY"`
	MinioBucket    string        `yaml:"minio_bucket" env:"MINIO_BUCKET"`
	MinioSSL       bool          `yaml:"minio_ssl" env:"MINIO_SSL" env-default:"false"`
	MinioURLExpiry time.Duration `yaml:"minio_url_expiry" env:"MINIO_URL_EXPIRY" env-default:"24h"`

	JobStore         string        `yaml:"job_store" env:"JOB_STORE" env-default:"memory"`
	RedisHost        string        `yaml:"redis_host" env:"REDIS_HOST"`
	RedisPort        string        `yaml:"redis_port" env:"REDIS_PORT" env-default:"6379"`
	JobWorkers       int           `yaml:"job_workers" env:"JOB_WORKERS" env-default:"2"`
	JobCapacity      int           `yaml:"job_capacity" env:"JOB_CAPACITY" env-default:"1000"`
	JobTTL           time.Duration `yaml:"job_ttl" env:"JOB_TTL" env-default:"1h"`
	EvictionSchedule string        `yaml:"eviction_schedule" env:"JOB_EVICTION_SCHEDULE" env-default:"@every 1m"`

	Visualizer     string `yaml:"visualizer" env:"VISUALIZER" env-default:"placeholder"`
	TextProvider   string `yaml:"text_provider" env:"TEXT_PROVIDER" env-default:"none"`
	OpenAIEndpoint string `yaml:"openai_endpoint" env:"OPENAI_ENDPOINT" env-default:"https://api.openai.com/v1"`
	OpenAIAPIKey   string `yaml:"-" env:"OPENAI_API_KEY"`
	OpenAIModel    string `yaml:"openai_model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	ImageModel     string `yaml:"image_model" env:"OPENAI_IMAGE_MODEL" env-default:"dall-e-2"`
	AnthropicKey   string `yaml:"-" env:"ANTHROPIC_API_KEY"`
	AnthropicModel string `yaml:"anthropic_model" env:"ANTHROPIC_MODEL"`

	DetectorURL         string  `yaml:"detector_url" env:"DETECTOR_URL"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold" env:"CONFIDENCE_THRESHOLD" env-default:"0.5"`
	BatchConcurrency    int     `yaml:"batch_concurrency" env:"BATCH_CONCURRENCY" env-default:"4"`

	// Detector responses keyed by image content.
	DetectionCache     string        `yaml:"detection_cache" env:"DETECTION_CACHE" env-default:"memory"`
	DetectionCacheSize int64         `yaml:"detection_cache_size" env:"DETECTION_CACHE_SIZE" env-default:"16777216"`
	DetectionCacheTTL  time.Duration `yaml:"detection_cache_ttl" env:"DETECTION_CACHE_TTL" env-default:"24h"`
}

// LoadConfig loads configuration from CONFIG_FILE (if set) and the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	var err error
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.DBHost != "" && (cfg.DBUser == "" || cfg.DBName == "") {
		return fmt.Errorf("database configuration is incomplete")
	}

	switch cfg.ImageStore {
	case ImageStoreDisk:
	case ImageStoreMinio:
		if cfg.MinioEndpoint == "" || cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" || cfg.MinioBucket == "" {
			return fmt.Errorf("minio configuration is incomplete")
		}
	default:
		return fmt.Errorf("unknown IMAGE_STORE %q", cfg.ImageStore)
	}

	switch cfg.JobStore {
	case JobStoreMemory:
	case JobStoreRedis:
		if cfg.RedisHost == "" {
			return fmt.Errorf("redis configuration is incomplete")
		}
	default:
		return fmt.Errorf("unknown JOB_STORE %q", cfg.JobStore)
	}

	switch cfg.Visualizer {
	case VisualizerPlaceholder, VisualizerCollaborative:
	default:
		return fmt.Errorf("unknown VISUALIZER %q", cfg.Visualizer)
	}

	switch cfg.TextProvider {
	case TextProviderNone, TextProviderOpenAI:
	case TextProviderAnthropic:
		if cfg.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic text provider")
		}
	default:
		return fmt.Errorf("unknown TEXT_PROVIDER %q", cfg.TextProvider)
	}

	switch cfg.DetectionCache {
	case DetectionCacheNone:
	case DetectionCacheMemory:
		if cfg.DetectionCacheSize < 1 {
			return fmt.Errorf("DETECTION_CACHE_SIZE must be positive")
		}
	case DetectionCacheRedis:
		if cfg.RedisHost == "" {
			return fmt.Errorf("redis configuration is incomplete")
		}
	default:
		return fmt.Errorf("unknown DETECTION_CACHE %q", cfg.DetectionCache)
	}

	if cfg.JobWorkers < 1 {
		return fmt.Errorf("JOB_WORKERS must be at least 1")
	}
	if cfg.JobCapacity < 1 {
		return fmt.Errorf("JOB_CAPACITY must be at least 1")
	}
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		return fmt.Errorf("CONFIDENCE_THRESHOLD must be within [0, 1]")
	}
	return nil
}

// DatabaseEnabled reports whether persistence is configured.
func (cfg *Config) DatabaseEnabled() bool {
	return cfg.DBHost != ""
}

// ConnectDatabase initializes a GORM database connection to PostgreSQL.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}
