package client

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerURL string `envconfig:"CHAT_SERVER_URL" default:"ws://localhost:8080/ws"`
	Token     string `envconfig:"CHAT_TOKEN" required:"true"`
	UserID    string `envconfig:"CHAT_USER_ID" required:"true"`
	// CHAT_ACK_TIMEOUT bounds how long a sent message may stay pending
	AckTimeout time.Duration `envconfig:"CHAT_ACK_TIMEOUT" default:"5s"`
	LogLevel   string        `envconfig:"LOG_LEVEL" default:"INFO"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
