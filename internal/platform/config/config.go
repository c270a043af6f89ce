package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// Rate limiting for import/chat routes, e.g. "30-M" (30 per minute).
	RateLimit string

	// Directory of additional YAML bank configs merged over the built-ins.
	BankConfigDir string

	// Assistant tool-use loop bounds.
	MaxToolRounds    int
	ChatTimeoutSecs  int
	ClassifierAPIKey string
}

// LoadConfig loads configuration from environment variables and an optional
// .env file.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RATE_LIMIT", "30-M")
	viper.SetDefault("BANK_CONFIG_DIR", "")
	viper.SetDefault("MAX_TOOL_ROUNDS", 8)
	viper.SetDefault("CHAT_TIMEOUT_SECS", 60)
	viper.SetDefault("CLASSIFIER_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:      viper.GetString("PGSQL_URL"),
		Port:             viper.GetString("PORT"),
		IsProduction:     viper.GetBool("IS_PRODUCTION"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		RateLimit:        viper.GetString("RATE_LIMIT"),
		BankConfigDir:    viper.GetString("BANK_CONFIG_DIR"),
		MaxToolRounds:    viper.GetInt("MAX_TOOL_ROUNDS"),
		ChatTimeoutSecs:  viper.GetInt("CHAT_TIMEOUT_SECS"),
		ClassifierAPIKey: viper.GetString("CLASSIFIER_API_KEY"),
	}

	return cfg, nil
}
