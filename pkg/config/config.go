package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (trade book). URL이 비어 있으면 book 기능 비활성
	Database DatabaseConfig

	// Simulation defaults
	XVA XVAConfig

	// API server limits
	Server ServerConfig

	// API rate limiting
	RateLimit RateLimitConfig

	// Scheduler cron expressions (with seconds)
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a trade book database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// XVAConfig holds the market and simulation defaults used when a caller omits a value
type XVAConfig struct {
	Spot          float64
	Drift         float64
	Volatility    float64
	Horizon       float64
	Steps         int
	Paths         int
	Rate          float64
	OwnHazardRate float64
	Seed          uint64 // 0 = time seeded
	Workers       int
	PFEQuantile   float64
	MaxCells      int // API 요청당 paths×(steps+1) 상한
}

// ServerConfig holds HTTP server limits
type ServerConfig struct {
	WriteTimeout time.Duration // 큰 시뮬레이션 응답 대기
	MaxBodyBytes int64
}

// RateLimitConfig holds API rate limit configuration
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// SchedulerConfig holds cron schedules for batch jobs
type SchedulerConfig struct {
	XVABatch string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		XVA: XVAConfig{
			Spot:          getEnvAsFloat("XVA_SPOT", 1.0),
			Drift:         getEnvAsFloat("XVA_DRIFT", 0.0),
			Volatility:    getEnvAsFloat("XVA_VOLATILITY", 0.2),
			Horizon:       getEnvAsFloat("XVA_HORIZON", 1.0),
			Steps:         getEnvAsInt("XVA_STEPS", 20),
			Paths:         getEnvAsInt("XVA_PATHS", 10000),
			Rate:          getEnvAsFloat("XVA_RATE", 0.03),
			OwnHazardRate: getEnvAsFloat("XVA_OWN_HAZARD", 0.015),
			Seed:          getEnvAsUint64("XVA_SEED", 0),
			Workers:       getEnvAsInt("XVA_WORKERS", 1),
			PFEQuantile:   getEnvAsFloat("XVA_PFE_QUANTILE", 0.95),
			MaxCells:      getEnvAsInt("XVA_MAX_CELLS", 20_000_000),
		},

		Server: ServerConfig{
			WriteTimeout: getEnvAsDuration("API_WRITE_TIMEOUT", "2m"),
			MaxBodyBytes: int64(getEnvAsInt("API_MAX_BODY_BYTES", 1<<20)),
		},

		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("API_RATE_LIMIT", 10),
			Burst:             getEnvAsInt("API_RATE_BURST", 20),
		},

		Scheduler: SchedulerConfig{
			XVABatch: getEnv("SCHEDULER_XVA_BATCH", "0 0 18 * * *"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
// 시뮬레이션 파라미터 자체의 검증은 xva 패키지가 담당 (여기서는 형식만)
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.XVA.Workers < 1 {
		return fmt.Errorf("XVA_WORKERS must be >= 1")
	}

	if c.XVA.PFEQuantile < 0 || c.XVA.PFEQuantile >= 1 {
		return fmt.Errorf("XVA_PFE_QUANTILE must be in [0, 1)")
	}

	if c.XVA.MaxCells < 1 {
		return fmt.Errorf("XVA_MAX_CELLS must be >= 1")
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("API_MAX_BODY_BYTES must be > 0")
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("API_RATE_LIMIT and API_RATE_BURST must be > 0")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
