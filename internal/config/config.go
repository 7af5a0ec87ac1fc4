package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	// Which credential gateway signs users in: "identitytoolkit" or "local".
	AuthGateway     string `env:"AUTH_GATEWAY" envDefault:"local"`
	ProviderAPIKey  string `env:"PROVIDER_API_KEY"`
	ProviderBaseURL string `env:"PROVIDER_BASE_URL" envDefault:"https://identitytoolkit.googleapis.com/v1"`

	// Where the current session is persisted: "file", "redis" or "postgres".
	SessionStore string `env:"SESSION_STORE" envDefault:"file"`
	SessionFile  string `env:"SESSION_FILE" envDefault:"userdata.json"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DatabaseDSN string `env:"DATABASE_DSN"`
}

func Load() (Config, error) {

	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
