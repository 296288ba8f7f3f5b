package config

import (
	"context"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/bell24h/supplierrisk/internal/domain/service"
	"github.com/bell24h/supplierrisk/pkg/constants"
	"github.com/bell24h/supplierrisk/pkg/errors"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

const envPrefix = "SUPPLIER_RISK"

// Loader reads configuration from file, environment variables and defaults, and can
// watch the file for changes.
type Loader struct {
	v   *viper.Viper
	log logger.Logger
}

// NewLoader creates a loader. An empty configFile searches /etc/supplier-risk/ and the
// working directory for config.yaml.
func NewLoader(configFile string, log logger.Logger) *Loader {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/supplier-risk/")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Loader{v: v, log: log.WithComponent("ConfigLoader")}
}

// Load reads and validates the configuration. A missing config file is not an error.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.ErrInternal("failed to read config file").WithCause(err)
		}
		l.log.Info(context.Background(), "No config file found, using defaults and environment")
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.ErrInternal("failed to unmarshal config").WithCause(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.ErrInvalidRequest("invalid configuration").WithCause(err)
	}
	return &cfg, nil
}

// WatchConfig reloads the file on change and hands every valid new configuration to
// onChange. Invalid reloads are logged and ignored.
func (l *Loader) WatchConfig(onChange func(*Config)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		ctx := context.Background()
		cfg, err := l.decode()
		if err != nil {
			l.log.Error(ctx, "Ignoring invalid configuration reload", err, logger.String("file", e.Name))
			return
		}
		l.log.Info(ctx, "Configuration reloaded", logger.String("file", e.Name), logger.String("op", e.Op.String()))
		if onChange != nil {
			onChange(cfg)
		}
	})
	l.v.WatchConfig()
}

// LoadConfig loads the configuration from the default locations.
func LoadConfig(log logger.Logger) (*Config, error) {
	return NewLoader("", log).Load()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "supplier_risk")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", 60)
	v.SetDefault("database.max_conn_idle_time", 10)
	v.SetDefault("database.password_secret_path", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addresses", []string{"localhost:6379"})
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.min_idle_conns", 2)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.assessment_topic", "supplier-risk-assessments")
	v.SetDefault("kafka.supplier_updates_topic", "supplier-updates")
	v.SetDefault("kafka.group_id", constants.ServiceName)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "http://localhost:8200")
	v.SetDefault("vault.mount_path", "secret")

	v.SetDefault("cache.supplier_ttl", constants.DefaultSupplierCacheTTL)
	v.SetDefault("cache.political_ttl", constants.DefaultPoliticalRiskTTL)

	v.SetDefault("risk.political_lookup_timeout", constants.DefaultPoliticalLookupTimeout)
	v.SetDefault("risk.political_feed_url", "")
	v.SetDefault("risk.high_risk_locations", service.DefaultHighRiskLocations)
	v.SetDefault("risk.medium_risk_locations", service.DefaultMediumRiskLocations)
	v.SetDefault("risk.low_risk_locations", service.DefaultLowRiskLocations)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_rpm", 600)
	v.SetDefault("rate_limit.burst_size", 50)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "stdout")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.sample_rate", 1.0)
}

//Personal.AI order the ending
