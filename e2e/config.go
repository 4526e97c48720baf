package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

// Config points the suite at a running relay. The suite is skipped when RELAY_HTTP_ADDR is empty.
type Config struct {
	HTTPAddr   string `envconfig:"RELAY_HTTP_ADDR"`
	HealthAddr string `envconfig:"RELAY_HEALTH_ADDR"`
	JwtSecret  string `envconfig:"JWT_SECRET"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
