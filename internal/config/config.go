package config

import (
	"fmt"
	"os"
)

// Config holds the configuration for the application.
type Config struct {
	RecipesPath  string
	PricesPath   string
	DatabasePath string

	// HTTP API
	ListenAddr string
	JWTSecret  string
	JWTIssuer  string

	GeminiAPIKey string

	// Telegram Config
	TelegramBotToken    string
	TelegramWebhookURL  string
	TelegramAllowUserID int64
}

// NewFromEnv creates a new Config object from environment variables. Catalog
// paths and the listen address fall back to sensible defaults; API keys are
// validated lazily by the features that need them.
func NewFromEnv() (*Config, error) {
	recipesPath := os.Getenv("RECIPES_PATH")
	if recipesPath == "" {
		recipesPath = "data/recipes.json"
	}

	pricesPath := os.Getenv("PRICES_PATH")
	if pricesPath == "" {
		pricesPath = "data/prices.json"
	}

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "data/optimeal.db"
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "optimeal"
	}

	// Telegram Config (optional for CLI, required for the bot binary)
	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	telegramWebhookURL := os.Getenv("TELEGRAM_WEBHOOK_URL")
	telegramAllowUserIDStr := os.Getenv("TELEGRAM_ALLOW_USER_ID")
	var telegramAllowUserID int64
	if telegramAllowUserIDStr != "" {
		fmt.Sscanf(telegramAllowUserIDStr, "%d", &telegramAllowUserID)
	}

	return &Config{
		RecipesPath:         recipesPath,
		PricesPath:          pricesPath,
		DatabasePath:        databasePath,
		ListenAddr:          listenAddr,
		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTIssuer:           jwtIssuer,
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		TelegramBotToken:    telegramBotToken,
		TelegramWebhookURL:  telegramWebhookURL,
		TelegramAllowUserID: telegramAllowUserID,
	}, nil
}

// RequireGemini fails when the Gemini key is missing; called by the features
// that actually talk to the model.
func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	return nil
}

// RequireJWT fails when the API signing secret is missing.
func (c *Config) RequireJWT() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return nil
}

// RequireTelegram fails when the bot credentials are incomplete.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}
