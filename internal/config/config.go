package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is populated from the environment at startup. A .env file is
// loaded first via godotenv autoload in main.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresHost     string `env:"PG_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"PG_PORT" envDefault:"5432"`
	PostgresDatabase string `env:"PG_DATABASE" envDefault:"sortonym"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// TokenExpire is parsed by the auth package; "" and "never" mean tokens
	// without an exp claim.
	TokenExpire string `env:"TOKEN_EXPIRE_TIME" envDefault:"72h"`

	// RoundTarget is how many rounds each team-assigned player must submit
	// before a lobby counts as finished.
	RoundTarget int `env:"ROUND_TARGET" envDefault:"5"`

	// ResultQueue is the redis list external consumers (leaderboard, archive)
	// drain round-result events from.
	ResultQueue string `env:"RESULT_QUEUE_NAME" envDefault:"sortonym_results"`

	// JoinBaseURL is the public URL prefix encoded into lobby QR codes.
	JoinBaseURL string `env:"JOIN_BASE_URL" envDefault:"http://localhost:5173/join"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// DatabaseURL assembles the postgres connection string pgx expects.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDatabase)
}
