package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type PipelineConfig struct {
	// K: max recommendations kept per base item
	MaxRecommendationsPerItem int
	// Theta: associations below this confidence are dropped before truncation
	MinConfidence float64
	// Hours between scheduled rebuilds, <= 0 disables the scheduler
	RebuildIntervalHours int
	// JSON export target, empty disables the file sink
	RelatedItemsJSONPath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxPerItem, err := strconv.Atoi(getEnv("MAX_RECOMMENDATIONS_PER_ITEM", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_RECOMMENDATIONS_PER_ITEM: %w", err)
	}

	minConfidence, err := strconv.ParseFloat(getEnv("MIN_CONFIDENCE_THRESHOLD", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MIN_CONFIDENCE_THRESHOLD: %w", err)
	}

	rebuildInterval, err := strconv.Atoi(getEnv("REBUILD_INTERVAL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid REBUILD_INTERVAL_HOURS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Related Items API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "related_items"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Pipeline: PipelineConfig{
			MaxRecommendationsPerItem: maxPerItem,
			MinConfidence:             minConfidence,
			RebuildIntervalHours:      rebuildInterval,
			RelatedItemsJSONPath:      getEnv("RELATED_ITEMS_JSON_PATH", "data/related_items.json"),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("missing database password")
	}

	if cfg.Pipeline.MaxRecommendationsPerItem <= 0 {
		return nil, fmt.Errorf("MAX_RECOMMENDATIONS_PER_ITEM must be positive, got %d", cfg.Pipeline.MaxRecommendationsPerItem)
	}

	if cfg.Pipeline.MinConfidence < 0 || cfg.Pipeline.MinConfidence > 1 {
		return nil, fmt.Errorf("MIN_CONFIDENCE_THRESHOLD must be in [0,1], got %v", cfg.Pipeline.MinConfidence)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
