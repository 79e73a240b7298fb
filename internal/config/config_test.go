package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadServerConfig(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test_password")
	defer os.Unsetenv("DB_PASSWORD")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig() error = %v", err)
	}

	if cfg.DBPassword != "test_password" {
		t.Errorf("DBPassword = %q, want %q", cfg.DBPassword, "test_password")
	}
	if cfg.AppPort != "3000" {
		t.Errorf("AppPort = %q, want %q", cfg.AppPort, "3000")
	}
	if !cfg.DefaultBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("DefaultBalance = %s, want 1000", cfg.DefaultBalance)
	}
	if !cfg.EntryFee.Equal(decimal.NewFromInt(100)) {
		t.Errorf("EntryFee = %s, want 100", cfg.EntryFee)
	}
	if !cfg.WinCredit.Equal(decimal.NewFromInt(90)) {
		t.Errorf("WinCredit = %s, want 90", cfg.WinCredit)
	}
	if cfg.WinThreshold != 9 {
		t.Errorf("WinThreshold = %d, want 9", cfg.WinThreshold)
	}
	if !cfg.ReferralRewardRate.IsZero() {
		t.Errorf("ReferralRewardRate = %s, want 0", cfg.ReferralRewardRate)
	}
	if cfg.HouseAccountID != "house_account" {
		t.Errorf("HouseAccountID = %q, want house_account", cfg.HouseAccountID)
	}
	if !cfg.ChallengeHouseFeeRate.Equal(decimal.RequireFromString("0.03")) {
		t.Errorf("ChallengeHouseFeeRate = %s, want 0.03", cfg.ChallengeHouseFeeRate)
	}
	if !cfg.ChallengeInviterFeeRate.Equal(decimal.RequireFromString("0.07")) {
		t.Errorf("ChallengeInviterFeeRate = %s, want 0.07", cfg.ChallengeInviterFeeRate)
	}
	if !cfg.ChallengeMinBet.Equal(decimal.NewFromInt(100)) || !cfg.ChallengeMaxBet.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("challenge bet range = %s..%s, want 100..1000", cfg.ChallengeMinBet, cfg.ChallengeMaxBet)
	}
}

func TestLoadBotConfig(t *testing.T) {
	os.Clearenv()
	os.Setenv("BOT_TOKEN", "test_bot_token")
	os.Setenv("API_BASE_URL", "http://backend:3000")
	defer func() {
		os.Unsetenv("BOT_TOKEN")
		os.Unsetenv("API_BASE_URL")
	}()

	cfg, err := LoadBotConfig()
	if err != nil {
		t.Fatalf("LoadBotConfig() error = %v", err)
	}

	if cfg.BotToken != "test_bot_token" {
		t.Errorf("BotToken = %q, want %q", cfg.BotToken, "test_bot_token")
	}
	if cfg.APIBaseURL != "http://backend:3000" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.BotMetricsPort != "" {
		t.Errorf("BotMetricsPort = %q, want empty", cfg.BotMetricsPort)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		load    func() (*Config, error)
		envVars map[string]string
	}{
		{
			name:    "Server without DB_PASSWORD",
			load:    LoadServerConfig,
			envVars: map[string]string{"BOT_TOKEN": "token"},
		},
		{
			name:    "Bot without BOT_TOKEN",
			load:    LoadBotConfig,
			envVars: map[string]string{"DB_PASSWORD": "password"},
		},
		{
			name: "Short service secret",
			load: LoadServerConfig,
			envVars: map[string]string{
				"DB_PASSWORD":    "password",
				"SERVICE_SECRET": "short",
			},
		},
		{
			name: "Malformed entry fee",
			load: LoadServerConfig,
			envVars: map[string]string{
				"DB_PASSWORD": "password",
				"ENTRY_FEE":   "one hundred",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			_, err := tt.load()
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestValidateServer_GameRules(t *testing.T) {
	base := func() *Config {
		return &Config{
			DBPassword:         "password",
			AppEnv:             "development",
			DefaultBalance:     decimal.NewFromInt(1000),
			EntryFee:           decimal.NewFromInt(100),
			WinCredit:          decimal.NewFromInt(90),
			WinThreshold:       9,
			ReferralRewardRate: decimal.Zero,

			HouseAccountID:          "house_account",
			ChallengeMinBet:         decimal.NewFromInt(100),
			ChallengeMaxBet:         decimal.NewFromInt(1000),
			ChallengeBetStep:        decimal.NewFromInt(100),
			ChallengeHouseFeeRate:   decimal.NewFromFloat(0.03),
			ChallengeInviterFeeRate: decimal.NewFromFloat(0.07),
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "Defaults", mutate: func(c *Config) {}, wantErr: false},
		{name: "Zero entry fee", mutate: func(c *Config) { c.EntryFee = decimal.Zero }, wantErr: true},
		{name: "Negative win credit", mutate: func(c *Config) { c.WinCredit = decimal.NewFromInt(-1) }, wantErr: true},
		{name: "Threshold too high", mutate: func(c *Config) { c.WinThreshold = 18 }, wantErr: true},
		{name: "Threshold too low", mutate: func(c *Config) { c.WinThreshold = 2 }, wantErr: true},
		{name: "Referral rate above one", mutate: func(c *Config) { c.ReferralRewardRate = decimal.NewFromFloat(1.5) }, wantErr: true},
		{name: "Referral rate 7%", mutate: func(c *Config) { c.ReferralRewardRate = decimal.NewFromFloat(0.07) }, wantErr: false},
		{name: "No house account", mutate: func(c *Config) { c.HouseAccountID = "" }, wantErr: true},
		{name: "Max bet below min", mutate: func(c *Config) { c.ChallengeMaxBet = decimal.NewFromInt(50) }, wantErr: true},
		{name: "Zero bet step", mutate: func(c *Config) { c.ChallengeBetStep = decimal.Zero }, wantErr: true},
		{name: "Fees above the stake", mutate: func(c *Config) { c.ChallengeHouseFeeRate = decimal.NewFromFloat(0.95) }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.ValidateServer()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateServer() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateProductionSecurity(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		shouldErr bool
	}{
		{
			name: "Valid production config",
			cfg: &Config{
				AppEnv:          "production",
				DBSSLMode:       "require",
				CORSAllowOrigin: "https://dice.example.com",
			},
			shouldErr: false,
		},
		{
			name: "Development mode - no validation",
			cfg: &Config{
				AppEnv:          "development",
				DBSSLMode:       "disable",
				CORSAllowOrigin: "*",
			},
			shouldErr: false,
		},
		{
			name: "Production without SSL",
			cfg: &Config{
				AppEnv:          "production",
				DBSSLMode:       "disable",
				CORSAllowOrigin: "https://dice.example.com",
			},
			shouldErr: true,
		},
		{
			name: "Production with wildcard CORS",
			cfg: &Config{
				AppEnv:          "production",
				DBSSLMode:       "require",
				CORSAllowOrigin: "*",
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateProductionSecurity()
			if tt.shouldErr && err == nil {
				t.Error("ValidateProductionSecurity() expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("ValidateProductionSecurity() unexpected error = %v", err)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "testuser",
		DBPassword: "testpass",
		DBName:     "testdb",
		DBSSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn := cfg.GetDSN(); dsn != expected {
		t.Errorf("GetDSN() = %q, want %q", dsn, expected)
	}
}

func TestDurations(t *testing.T) {
	cfg := &Config{RateLimitWindowSeconds: 60, HTTPTimeoutSeconds: 10}

	if got := cfg.GetRateLimitWindow(); got != time.Minute {
		t.Errorf("GetRateLimitWindow() = %v, want 1m", got)
	}
	if got := cfg.GetHTTPTimeout(); got != 10*time.Second {
		t.Errorf("GetHTTPTimeout() = %v, want 10s", got)
	}
}
