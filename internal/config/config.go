package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	// Telegram
	BotToken       string
	APIBaseURL     string
	BotMetricsPort string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (optional, enables the shared rate limiter)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Security
	ServiceSecret string

	// Application
	AppEnv             string
	AppPort            string
	LogLevel           string
	CORSAllowOrigin    string
	HTTPTimeoutSeconds int

	// Rate Limiting
	RateLimitPerUser       int
	RateLimitPerIP         int
	RateLimitWindowSeconds int

	// Game
	DefaultBalance     decimal.Decimal
	EntryFee           decimal.Decimal
	WinCredit          decimal.Decimal
	WinThreshold       int
	ReferralRewardRate decimal.Decimal

	// Challenges
	HouseAccountID          string
	ChallengeMinBet         decimal.Decimal
	ChallengeMaxBet         decimal.Decimal
	ChallengeBetStep        decimal.Decimal
	ChallengeHouseFeeRate   decimal.Decimal
	ChallengeInviterFeeRate decimal.Decimal
}

// LoadConfig reads every key without checking which binary needs it.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:3000"),
		// Empty disables the bot's /metrics listener
		BotMetricsPort: getEnv("BOT_METRICS_PORT", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "dice_game"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		ServiceSecret: getEnv("SERVICE_SECRET", ""),

		AppEnv:             getEnv("APP_ENV", "development"),
		AppPort:            getEnv("APP_PORT", "3000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin:    getEnv("CORS_ALLOW_ORIGIN", "*"),
		HTTPTimeoutSeconds: getEnvInt("HTTP_TIMEOUT_SECONDS", 10),

		RateLimitPerUser:       getEnvInt("RATE_LIMIT_PER_USER", 20),
		RateLimitPerIP:         getEnvInt("RATE_LIMIT_PER_IP", 100),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),

		WinThreshold: getEnvInt("WIN_THRESHOLD", 9),

		HouseAccountID: getEnv("HOUSE_ACCOUNT_ID", "house_account"),
	}

	var err error
	if cfg.DefaultBalance, err = getEnvDecimal("DEFAULT_BALANCE", "1000"); err != nil {
		return nil, err
	}
	if cfg.EntryFee, err = getEnvDecimal("ENTRY_FEE", "100"); err != nil {
		return nil, err
	}
	if cfg.WinCredit, err = getEnvDecimal("WIN_CREDIT", "90"); err != nil {
		return nil, err
	}
	if cfg.ReferralRewardRate, err = getEnvDecimal("REFERRAL_REWARD_RATE", "0"); err != nil {
		return nil, err
	}
	if cfg.ChallengeMinBet, err = getEnvDecimal("CHALLENGE_MIN_BET", "100"); err != nil {
		return nil, err
	}
	if cfg.ChallengeMaxBet, err = getEnvDecimal("CHALLENGE_MAX_BET", "1000"); err != nil {
		return nil, err
	}
	if cfg.ChallengeBetStep, err = getEnvDecimal("CHALLENGE_BET_STEP", "100"); err != nil {
		return nil, err
	}
	if cfg.ChallengeHouseFeeRate, err = getEnvDecimal("CHALLENGE_HOUSE_FEE_RATE", "0.03"); err != nil {
		return nil, err
	}
	if cfg.ChallengeInviterFeeRate, err = getEnvDecimal("CHALLENGE_INVITER_FEE_RATE", "0.07"); err != nil {
		return nil, err
	}

	if err := cfg.validateCommon(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadServerConfig loads and validates the settings of the HTTP backend.
func LoadServerConfig() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateServer(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadBotConfig loads and validates the settings of the Telegram front-end.
func LoadBotConfig() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateBot(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validateCommon() error {
	if c.ServiceSecret != "" && len(c.ServiceSecret) < 32 {
		return fmt.Errorf("SERVICE_SECRET must be at least 32 characters")
	}
	if c.RateLimitWindowSeconds <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW_SECONDS must be positive")
	}
	return nil
}

func (c *Config) ValidateServer() error {
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if !c.EntryFee.IsPositive() {
		return fmt.Errorf("ENTRY_FEE must be positive")
	}
	if c.WinCredit.IsNegative() {
		return fmt.Errorf("WIN_CREDIT must not be negative")
	}
	if c.DefaultBalance.IsNegative() {
		return fmt.Errorf("DEFAULT_BALANCE must not be negative")
	}
	if c.WinThreshold < 3 || c.WinThreshold > 17 {
		return fmt.Errorf("WIN_THRESHOLD must be between 3 and 17")
	}
	if c.ReferralRewardRate.IsNegative() || c.ReferralRewardRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("REFERRAL_REWARD_RATE must be between 0 and 1")
	}
	if err := c.validateChallenges(); err != nil {
		return err
	}
	return c.ValidateProductionSecurity()
}

func (c *Config) validateChallenges() error {
	if c.HouseAccountID == "" {
		return fmt.Errorf("HOUSE_ACCOUNT_ID is required")
	}
	if !c.ChallengeMinBet.IsPositive() || !c.ChallengeBetStep.IsPositive() {
		return fmt.Errorf("CHALLENGE_MIN_BET and CHALLENGE_BET_STEP must be positive")
	}
	if c.ChallengeMaxBet.LessThan(c.ChallengeMinBet) {
		return fmt.Errorf("CHALLENGE_MAX_BET must not be below CHALLENGE_MIN_BET")
	}
	if c.ChallengeHouseFeeRate.IsNegative() || c.ChallengeInviterFeeRate.IsNegative() {
		return fmt.Errorf("challenge fee rates must not be negative")
	}
	// Both fees come out of the loser's stake.
	if c.ChallengeHouseFeeRate.Add(c.ChallengeInviterFeeRate).GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("challenge fee rates must not exceed 1 together")
	}
	return nil
}

func (c *Config) ValidateBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.CORSAllowOrigin == "*" {
		return fmt.Errorf("CORS_ALLOW_ORIGIN must be set explicitly in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetRateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func (c *Config) GetHTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDecimal(key, defaultValue string) (decimal.Decimal, error) {
	value := getEnv(key, defaultValue)
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
