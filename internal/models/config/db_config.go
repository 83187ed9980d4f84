package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// DatabaseConfig конфигурация БД
type DatabaseConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Name, c.SSLMode,
	)
}

// Load reads the configuration from the environment, after merging an
// optional .env file, and stores it in AppConfig.
func Load() (*Config, error) {
	// .env is optional: production injects real environment variables
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Environment: env,
		Bot: BotConfig{
			Token:    getEnv("BOT_TOKEN", ""),
			Debug:    getEnvAsBool("BOT_DEBUG", env != "production"),
			AdminIDs: parseAdminIDs(getEnv("ADMIN_IDS", "")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Username: getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "feedyourmind"),
			SSLMode:  getSSLMode(env),
		},
		Billing: BillingConfig{
			DefaultHourlyRate: getEnvAsDecimal("DEFAULT_HOURLY_RATE", decimal.NewFromInt(20)),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

// validate проверяет обязательные параметры
func validate(cfg *Config) error {
	var errors []string

	if cfg.Database.Username == "" {
		errors = append(errors, "DB_USER is required")
	}

	if cfg.Database.Password == "" && cfg.IsProduction() {
		errors = append(errors, "DB_PASSWORD is required in production")
	}

	if cfg.Billing.DefaultHourlyRate.IsNegative() {
		errors = append(errors, "DEFAULT_HOURLY_RATE must not be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errors, ", "))
	}

	return nil
}

// getSSLMode возвращает режим SSL в зависимости от окружения
func getSSLMode(env string) string {
	if env == "production" {
		return "require"
	}
	return getEnv("DB_SSLMODE", "disable")
}

// parseAdminIDs парсит список ID администраторов
func parseAdminIDs(ids string) []int64 {
	if ids == "" {
		return []int64{}
	}

	var result []int64
	for _, idStr := range strings.Split(ids, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64); err == nil {
			result = append(result, id)
		}
	}
	return result
}
