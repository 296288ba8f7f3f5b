package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the application's configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Vault     VaultConfig     `mapstructure:"vault"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Risk      RiskConfig      `mapstructure:"risk"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	GRPCPort       int      `mapstructure:"grpc_port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// IsProduction reports whether the service runs in production mode.
func (c ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres | sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxConns        int    `mapstructure:"max_conns"`
	MinConns        int    `mapstructure:"min_conns"`
	MaxConnLifetime int    `mapstructure:"max_conn_lifetime"`  // in minutes
	MaxConnIdleTime int    `mapstructure:"max_conn_idle_time"` // in minutes
	// PasswordSecretPath, when set, resolves the password from Vault at startup.
	PasswordSecretPath string `mapstructure:"password_secret_path"`
}

// GetDSN builds a libpq style connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

type RedisConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Addresses    []string `mapstructure:"addresses"`
	Password     string   `mapstructure:"password"`
	DB           int      `mapstructure:"db"`
	PoolSize     int      `mapstructure:"pool_size"`
	MinIdleConns int      `mapstructure:"min_idle_conns"`
}

type KafkaConfig struct {
	Enabled              bool     `mapstructure:"enabled"`
	Brokers              []string `mapstructure:"brokers"`
	AssessmentTopic      string   `mapstructure:"assessment_topic"`
	SupplierUpdatesTopic string   `mapstructure:"supplier_updates_topic"`
	GroupID              string   `mapstructure:"group_id"`
}

type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	MountPath string `mapstructure:"mount_path"`
}

type CacheConfig struct {
	SupplierTTL  time.Duration `mapstructure:"supplier_ttl"`
	PoliticalTTL time.Duration `mapstructure:"political_ttl"`
}

type RiskConfig struct {
	PoliticalLookupTimeout time.Duration `mapstructure:"political_lookup_timeout"`
	// PoliticalFeedURL, when empty, selects the static political risk stub.
	PoliticalFeedURL    string   `mapstructure:"political_feed_url"`
	HighRiskLocations   []string `mapstructure:"high_risk_locations"`
	MediumRiskLocations []string `mapstructure:"medium_risk_locations"`
	LowRiskLocations    []string `mapstructure:"low_risk_locations"`
}

type RateLimitConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	DefaultRPM int  `mapstructure:"default_rpm"`
	BurstSize  int  `mapstructure:"burst_size"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SampleRate     float64 `mapstructure:"sample_rate"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port out of range: %d", c.Server.GRPCPort)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Redis.Enabled && len(c.Redis.Addresses) == 0 {
		return fmt.Errorf("redis.addresses is required when redis is enabled")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers is required when kafka is enabled")
		}
		if c.Kafka.AssessmentTopic == "" {
			return fmt.Errorf("kafka.assessment_topic is required when kafka is enabled")
		}
	}
	if c.Vault.Enabled && c.Vault.Address == "" {
		return fmt.Errorf("vault.address is required when vault is enabled")
	}
	if c.Risk.PoliticalLookupTimeout <= 0 {
		return fmt.Errorf("risk.political_lookup_timeout must be positive")
	}
	if c.Risk.PoliticalFeedURL != "" {
		if _, err := url.ParseRequestURI(c.Risk.PoliticalFeedURL); err != nil {
			return fmt.Errorf("invalid risk.political_feed_url: %w", err)
		}
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultRPM <= 0 || c.RateLimit.BurstSize <= 0) {
		return fmt.Errorf("rate_limit.default_rpm and rate_limit.burst_size must be positive")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be within [0,1]")
	}
	return nil
}

//Personal.AI order the ending
