package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Exchange ExchangeConfig
	Rates    RatesConfig
	Summary  SummaryConfig
	Log      LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port      string
	Host      string
	Addr      string  // Combined host:port for convenience
	RateLimit float64 // Requests per second accepted by the API, 0 disables the gate
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// ExchangeConfig holds Moscow Exchange ISS client configuration
type ExchangeConfig struct {
	BaseURL           string
	RequestsPerSecond float64
	ScheduleWorkers   int // Concurrent bondization requests per batch
}

// RatesConfig holds central bank rate feed configuration
type RatesConfig struct {
	URL         string
	RefreshSpec string // cron spec for the refresh job
}

// SummaryConfig holds portfolio aggregation policy switches
type SummaryConfig struct {
	ConvertAccruedInterest bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
	File  string // Optional rotating log file, stderr only when empty
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	rateLimit, err := getEnvFloat("API_RATE_LIMIT", 20)
	if err != nil {
		return nil, err
	}
	moexRPS, err := getEnvFloat("MOEX_RPS", 5)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("MOEX_SCHEDULE_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	convertAccrued, err := getEnvBool("ACCRUED_INTEREST_CONVERTED", false)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port:      getEnv("SERVER_PORT", "5001"),
			Host:      getEnv("SERVER_HOST", "localhost"),
			RateLimit: rateLimit,
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/coupon_calendar.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Exchange: ExchangeConfig{
			BaseURL:           getEnv("MOEX_BASE_URL", "https://iss.moex.com"),
			RequestsPerSecond: moexRPS,
			ScheduleWorkers:   workers,
		},
		Rates: RatesConfig{
			URL:         getEnv("CBR_URL", "https://www.cbr.ru/scripts/XML_daily.asp"),
			RefreshSpec: getEnv("RATES_REFRESH_SPEC", "@hourly"),
		},
		Summary: SummaryConfig{
			ConvertAccruedInterest: convertAccrued,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
