package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DataDir           string
	SampleImportPath  string
	SessionTTL        time.Duration
	BootstrapUsername string
	BootstrapPassword string
	OpenAIAPIKey      string
	AIModel           string
	AIMaxTokens       int
	AITemperature     float32
	GenerationTimeout time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("OPUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Opusnote API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("data.dir", "data")
	v.SetDefault("sample.import_path", "samples/sample_import.csv")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("bootstrap.username", "admin")
	v.SetDefault("bootstrap.password", "opusnote-admin")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.timeout", "60s")

	sessionTTL, err := time.ParseDuration(v.GetString("session.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid session ttl: %w", err)
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}

	generationTimeout, err := time.ParseDuration(v.GetString("ai.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai timeout: %w", err)
	}
	if generationTimeout <= 0 {
		generationTimeout = time.Minute
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DataDir:           v.GetString("data.dir"),
		SampleImportPath:  v.GetString("sample.import_path"),
		SessionTTL:        sessionTTL,
		BootstrapUsername: v.GetString("bootstrap.username"),
		BootstrapPassword: v.GetString("bootstrap.password"),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		AIModel:           v.GetString("ai.model"),
		AIMaxTokens:       v.GetInt("ai.max_tokens"),
		AITemperature:     float32(v.GetFloat64("ai.temperature")),
		GenerationTimeout: generationTimeout,
	}

	if cfg.DataDir == "" {
		return Config{}, fmt.Errorf("data dir must be provided")
	}

	if cfg.AIMaxTokens <= 0 {
		cfg.AIMaxTokens = 2048
	}

	return cfg, nil
}
