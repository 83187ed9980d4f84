package config

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// AppConfig глобальная конфигурация приложения
var AppConfig *Config

// Config основной конфиг
type Config struct {
	Environment string
	HTTPPort    string
	Bot         BotConfig
	Database    DatabaseConfig
	Billing     BillingConfig
}

type BotConfig struct {
	Token    string
	Debug    bool
	AdminIDs []int64 // operators allowed to read the payment calendar
}

// BillingConfig holds the money defaults of the payment calendar.
type BillingConfig struct {
	// DefaultHourlyRate prices unpaid lessons stored without a price.
	DefaultHourlyRate decimal.Decimal
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if value, err := decimal.NewFromString(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
