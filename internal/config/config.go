package config

import (
	"fmt"
	"os"
	"strconv"

	"dingbot/internal/dingbot"

	"github.com/joho/godotenv"
)

const (
	EnvAccessToken = "DINGDING_ACCESS_TOKEN"
	EnvSecret      = "DINGDING_SECRET"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SQSConfig struct {
	Endpoint string
	Region   string
	QueueURL string
	Workers  int
}

type HeartbeatConfig struct {
	// Spec is a seconds-first cron expression; empty disables the heartbeat.
	Spec string
	Text string
}

// Config is the process configuration shared by the CLI and the gateway.
type Config struct {
	Env         string
	AccessToken string
	Secret      string
	Mock        bool
	Port        string
	RateLimit   int
	Redis       RedisConfig
	SQS         SQSConfig
	Heartbeat   HeartbeatConfig
}

// Load reads configuration from the environment. Variables from envFiles
// (".env" when none are given) fill in anything not already set; a missing
// file is not an error.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := Config{
		Env:         getEnv("DINGBOT_ENV", "development"),
		AccessToken: os.Getenv(EnvAccessToken),
		Secret:      os.Getenv(EnvSecret),
		Port:        getEnv("DINGBOT_PORT", "8080"),
		Redis: RedisConfig{
			Addr:     getEnv("DINGBOT_REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("DINGBOT_REDIS_PASSWORD"),
		},
		SQS: SQSConfig{
			Endpoint: getEnv("DINGBOT_SQS_ENDPOINT", "http://localhost:4566"),
			Region:   getEnv("DINGBOT_SQS_REGION", "us-east-1"),
			QueueURL: getEnv("DINGBOT_SQS_QUEUE_URL", "http://localhost:4566/000000000000/dingbot-notifications"),
		},
		Heartbeat: HeartbeatConfig{
			Spec: os.Getenv("DINGBOT_HEARTBEAT_CRON"),
			Text: getEnv("DINGBOT_HEARTBEAT_TEXT", "dingbot heartbeat"),
		},
	}

	if cfg.AccessToken == "" || cfg.Secret == "" {
		return Config{}, fmt.Errorf("%w: set %s and %s", dingbot.ErrMissingCredentials, EnvAccessToken, EnvSecret)
	}

	var err error
	if cfg.Mock, err = getBool("DINGBOT_MOCK", false); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit, err = getInt("DINGBOT_RATE_LIMIT", 20); err != nil {
		return Config{}, err
	}
	if cfg.Redis.DB, err = getInt("DINGBOT_REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.SQS.Workers, err = getInt("DINGBOT_QUEUE_WORKERS", 1); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Credentials returns the robot credentials. Load already rejected empty values.
func (c Config) Credentials() dingbot.Credentials {
	return dingbot.Credentials{AccessToken: c.AccessToken, Secret: c.Secret}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
