package config

import (
	"os"
)

type Config struct {
	DatabaseURL   string
	Port          string
	Environment   string
	SettingsPath  string

	// Outbound feeds
	PriceFeedURL     string
	ComparisonAPIURL string
	CurrencyAPIURL   string
	ItemFeedWSURL    string
}

func Load() *Config {
	defaultDSN := "root:skincompass@tcp(127.0.0.1:3306)/skincompass?charset=utf8mb4&parseTime=True&loc=Local"

	return &Config{
		DatabaseURL:  getEnv("DATABASE_URL", defaultDSN),
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		SettingsPath: getEnv("SETTINGS_PATH", "."),

		PriceFeedURL:     getEnv("PRICE_FEED_URL", "https://prices.csgotrader.app"),
		ComparisonAPIURL: getEnv("COMPARISON_API_URL", "https://api.skincompass.local"),
		CurrencyAPIURL:   getEnv("CURRENCY_API_URL", "https://prices.csgotrader.app/latest/currencies.json"),
		ItemFeedWSURL:    getEnv("ITEM_FEED_WS_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
