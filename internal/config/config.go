package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process environment. AGENTARIUM_DB_DSN empty means the
// simulation runs against the in-memory store.
type Config struct {
	HTTPAddr string `env:"AGENTARIUM_HTTP_ADDR" envDefault:":8080"`
	WSAddr   string `env:"AGENTARIUM_WS_ADDR" envDefault:":8081"`
	DBDSN    string `env:"AGENTARIUM_DB_DSN"`

	OracleAPIKey        string `env:"AGENTARIUM_ORACLE_API_KEY"`
	OracleAPIBase       string `env:"AGENTARIUM_ORACLE_API_BASE" envDefault:"https://openrouter.ai/api/v1"`
	OracleModel         string `env:"AGENTARIUM_ORACLE_MODEL" envDefault:"openai/gpt-4o-mini"`
	OracleFallbackModel string `env:"AGENTARIUM_ORACLE_FALLBACK_MODEL"`

	TuningPath string `env:"AGENTARIUM_TUNING_PATH"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
