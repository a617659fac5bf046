// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/skymind/travel-decision-engine/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Timeouts  TimeoutConfig
	Cache     CacheConfig
	Risk      RiskConfig
	Scoring   ScoringConfig
	Explain   ExplainConfig
	Providers ProviderConfig
	Logging   LoggingConfig
	App       AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
}

// TimeoutConfig holds timeout settings for search operations.
type TimeoutConfig struct {
	GlobalSearch time.Duration `env:"TIMEOUT_GLOBAL_SEARCH" envDefault:"5s"`
	PerProvider  time.Duration `env:"TIMEOUT_PER_PROVIDER" envDefault:"2s"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	Capacity int           `env:"CACHE_CAPACITY" envDefault:"128"`
}

// RiskConfig holds risk detection thresholds.
type RiskConfig struct {
	TightConnectionMinutes int `env:"RISK_TIGHT_CONNECTION_MINUTES" envDefault:"90"`
	OvernightMinHours      int `env:"RISK_OVERNIGHT_MIN_HOURS" envDefault:"6"`
}

// ScoringConfig holds scoring settings.
type ScoringConfig struct {
	// TrustWeights maps provider names to trust weights as "name=weight,..."
	TrustWeights string `env:"PROVIDER_TRUST_WEIGHTS" envDefault:""`

	// ProfilesJSON optionally overrides or adds priority profiles as a JSON
	// object of profile name to weights
	ProfilesJSON string `env:"SCORING_PROFILES_JSON" envDefault:""`
}

// ExplainConfig holds explanation settings.
type ExplainConfig struct {
	TradeoffDepth int `env:"EXPLAIN_TRADEOFF_DEPTH" envDefault:"3"`
}

// ProviderConfig holds provider fixture locations.
type ProviderConfig struct {
	AmadeusFixture string `env:"PROVIDER_AMADEUS_FIXTURE" envDefault:"fixtures/amadeus.json"`
	KiwiFixture    string `env:"PROVIDER_KIWI_FIXTURE" envDefault:"fixtures/kiwi.json"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}
	if cfg.Timeouts.GlobalSearch <= 0 {
		return fmt.Errorf("TIMEOUT_GLOBAL_SEARCH must be positive")
	}
	if cfg.Timeouts.PerProvider <= 0 {
		return fmt.Errorf("TIMEOUT_PER_PROVIDER must be positive")
	}
	if cfg.Timeouts.PerProvider >= cfg.Timeouts.GlobalSearch {
		return fmt.Errorf("TIMEOUT_PER_PROVIDER (%s) should be less than TIMEOUT_GLOBAL_SEARCH (%s)",
			cfg.Timeouts.PerProvider, cfg.Timeouts.GlobalSearch)
	}

	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if cfg.Cache.Capacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be at least 1")
	}

	if cfg.Risk.TightConnectionMinutes < 1 {
		return fmt.Errorf("RISK_TIGHT_CONNECTION_MINUTES must be at least 1")
	}
	if cfg.Risk.OvernightMinHours < 1 {
		return fmt.Errorf("RISK_OVERNIGHT_MIN_HOURS must be at least 1")
	}

	if cfg.Explain.TradeoffDepth < 0 {
		return fmt.Errorf("EXPLAIN_TRADEOFF_DEPTH cannot be negative")
	}

	if _, err := cfg.Scoring.ParseTrustWeights(); err != nil {
		return err
	}
	if _, err := cfg.Scoring.ParseProfiles(); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	return nil
}

// ParseTrustWeights parses the "name=weight,..." trust weight list.
// An empty setting yields an empty map; every provider then defaults to 1.0.
func (s ScoringConfig) ParseTrustWeights() (map[string]float64, error) {
	weights := make(map[string]float64)
	if strings.TrimSpace(s.TrustWeights) == "" {
		return weights, nil
	}

	for _, pair := range strings.Split(s.TrustWeights, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("PROVIDER_TRUST_WEIGHTS entry %q must be name=weight", pair)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("PROVIDER_TRUST_WEIGHTS entry %q has an invalid weight: %w", pair, err)
		}
		if weight < 0 || weight > 1 {
			return nil, fmt.Errorf("PROVIDER_TRUST_WEIGHTS entry %q must be in [0,1]", pair)
		}
		weights[strings.TrimSpace(name)] = weight
	}

	return weights, nil
}

// ParseProfiles parses the optional scoring profile overrides. The JSON is a
// map of profile name to weights; names are lowercased.
func (s ScoringConfig) ParseProfiles() (map[string]domain.Weights, error) {
	if strings.TrimSpace(s.ProfilesJSON) == "" {
		return nil, nil
	}

	var raw map[string]domain.Weights
	if err := json.Unmarshal([]byte(s.ProfilesJSON), &raw); err != nil {
		return nil, fmt.Errorf("SCORING_PROFILES_JSON is not valid JSON: %w", err)
	}

	profiles := make(map[string]domain.Weights, len(raw))
	for name, weights := range raw {
		if weights.Sum() <= 0 {
			return nil, fmt.Errorf("SCORING_PROFILES_JSON profile %q has non-positive weights", name)
		}
		profiles[strings.ToLower(name)] = weights
	}

	return profiles, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
