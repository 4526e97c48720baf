package internal

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

type Config struct {
	Host           string `env:"HOST,default=0.0.0.0"`
	Port           int    `env:"PORT,required=true"`
	GrpcHealthPort int    `env:"GRPC_HEALTH_PORT,required=true"`
	LogLevel       string `env:"LOG_LEVEL,required=true"`
	NodeID         string `env:"NODE_ID,default=relay-1"`
	DebugPort      int    `env:"DEBUG_PORT,default=8081"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`

	JwtSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`

	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	FanoutBufferSize     int           `env:"FANOUT_BUFFER_SIZE,required=true"`
	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,required=true"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,required=true"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=5s"`
	GroupPageSize        int           `env:"GROUP_PAGE_SIZE,default=50"`
	MaxContentLength     int           `env:"MAX_CONTENT_LENGTH,required=true"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,required=true"`

	// Shared presence is enabled only when REDIS_ADDR is set.
	RedisAddr         string        `env:"REDIS_ADDR"`
	PresenceTTL       time.Duration `env:"PRESENCE_TTL,default=30s"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=10s"`
}

// LoadConfig reads the configuration from the environment and checks the values go-env cannot.
func LoadConfig() (Config, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if _, err := CharacterRune(config.CharReplacement); err != nil {
		return Config{}, err
	}
	if config.RedisAddr != "" && config.HeartbeatInterval >= config.PresenceTTL {
		return Config{}, fmt.Errorf("HEARTBEAT_INTERVAL (%s) must be shorter than PRESENCE_TTL (%s)",
			config.HeartbeatInterval, config.PresenceTTL)
	}
	return config, nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
