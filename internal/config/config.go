package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the flowsync client core
type Config struct {
	// Local inspection server
	HTTPPort int    `env:"FLOWSYNC_HTTP_PORT" envDefault:"8088"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Workflow binding (empty means a new, unsaved workflow)
	WorkflowID string `env:"FLOWSYNC_WORKFLOW_ID"`

	// How long a terminal status stays visible before decaying
	StatusDecay time.Duration `env:"FLOWSYNC_STATUS_DECAY" envDefault:"1000ms"`

	// Persistence API configuration
	API APIConfig

	// Push channel configuration
	Push PushConfig

	// Redis configuration (push transport "redis" only)
	Redis RedisConfig
}

// APIConfig holds persistence API connection configuration
type APIConfig struct {
	BaseURL string `env:"FLOWSYNC_API_URL" envDefault:"http://localhost:3000"`
	Token   string `env:"FLOWSYNC_API_TOKEN"`
	OrgID   string `env:"FLOWSYNC_ORG_ID"`

	Timeout time.Duration `env:"FLOWSYNC_API_TIMEOUT" envDefault:"30s"`
}

// PushConfig holds push channel configuration
type PushConfig struct {
	Transport string `env:"FLOWSYNC_PUSH_TRANSPORT" envDefault:"socketio"`
	URL       string `env:"FLOWSYNC_PUSH_URL" envDefault:"http://localhost:3000/socket.io"`
	Namespace string `env:"FLOWSYNC_PUSH_NAMESPACE" envDefault:"/"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("persistence API base URL is required")
	}

	if c.StatusDecay <= 0 {
		return fmt.Errorf("status decay must be positive: %s", c.StatusDecay)
	}

	// Validate push transport
	validTransports := map[string]bool{
		"socketio":  true,
		"websocket": true,
		"redis":     true,
	}
	if !validTransports[c.Push.Transport] {
		return fmt.Errorf("invalid push transport: %s (must be socketio, websocket, or redis)", c.Push.Transport)
	}
	if c.Push.Transport == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required for the redis push transport")
	}
	if c.Push.Transport != "redis" && c.Push.URL == "" {
		return fmt.Errorf("push channel URL is required")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the inspection server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
