package config

import (
	"flag"
	"sync"

	"github.com/caarlos0/env/v6"
)

const (
	defaultServerAddress = ":8080"
	defaultDatabaseDSN   = ""
	defaultRedisURL      = "redis://localhost:6379/0"
	defaultBackendAddr   = "http://localhost:8181"
	defaultKafkaTopic    = "checkout-events"
	defaultLogLevel      = "debug"
)

type Config struct {
	ServerAddr   string   `env:"RUN_ADDRESS"`
	DatabaseDSN  string   `env:"DATABASE_URI"`
	RedisURL     string   `env:"REDIS_URL"`
	BackendAddr  string   `env:"ORDER_BACKEND_ADDRESS"`
	GatewayKeyID string   `env:"GATEWAY_KEY_ID"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_CHECKOUT_TOPIC"`
	AuthTokenKey string   `env:"AUTH_TOKEN_KEY"`
	LogLevel     string   `env:"LOG_LEVEL"`
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables
// only once. Environment variables take precedence over flags.
func New() (*Config, error) {
	var err error

	once.Do(func() {
		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "checkout server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "checkout database DSN")
		flag.StringVar(&cfg.RedisURL, "c", defaultRedisURL, "cart store redis URL")
		flag.StringVar(&cfg.BackendAddr, "b", defaultBackendAddr, "order backend address")
		flag.StringVar(&cfg.GatewayKeyID, "k", "", "payment gateway key id")
		flag.StringVar(&cfg.KafkaTopic, "t", defaultKafkaTopic, "checkout events topic")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")

		flag.Parse()

		err = env.Parse(&cfg)

		singleton = &cfg
	})

	return singleton, err
}
