package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Auth        AuthConfig
	Dashboard   DashboardConfig
	Database    DatabaseConfig
	SeedDemo    bool
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

type DashboardConfig struct {
	TrendDays int
}

// DatabaseConfig points at the optional Postgres seed/provisioning source.
// The engine itself never touches it; when Host is empty the server runs
// purely in memory.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a Postgres source is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TOKEN_TTL_HOURS", "72")
	viper.SetDefault("DASHBOARD_TREND_DAYS", "5")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("SEED_DEMO_DATA", "1")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Auth: AuthConfig{
			JWTSecret:     getEnvOrViper("JWT_SECRET", ""),
			TokenTTLHours: getEnvInt("TOKEN_TTL_HOURS", 72),
		},
		Dashboard: DashboardConfig{
			TrendDays: getEnvInt("DASHBOARD_TREND_DAYS", 5),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", ""),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "fulfillment"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		SeedDemo: getEnvOrViper("SEED_DEMO_DATA", "1") == "1",
	}

	// Validate required fields
	if cfg.Auth.JWTSecret == "" {
		if cfg.Environment == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.Auth.JWTSecret = "dev-secret-change-me"
	}
	if cfg.Dashboard.TrendDays < 1 {
		return nil, fmt.Errorf("DASHBOARD_TREND_DAYS must be at least 1")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := getEnvOrViper(key, strconv.Itoa(defaultValue))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}
