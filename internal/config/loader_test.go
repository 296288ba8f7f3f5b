package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bell24h/supplierrisk/pkg/logger"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	cfg, err := NewLoader(writeConfig(t, "server:\n  port: 9090\n"), logger.NewNoopLogger()).Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 50051, cfg.Server.GRPCPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Risk.PoliticalLookupTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Cache.SupplierTTL)
	assert.Equal(t, []string{"Location A", "Location B"}, cfg.Risk.HighRiskLocations)
	assert.False(t, cfg.Server.IsProduction())
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv("SUPPLIER_RISK_SERVER_ENVIRONMENT", "production")
	t.Setenv("SUPPLIER_RISK_RISK_POLITICAL_LOOKUP_TIMEOUT", "2s")
	t.Setenv("SUPPLIER_RISK_LOG_LEVEL", "debug")

	cfg, err := NewLoader(writeConfig(t, "log:\n  level: warn\n"), nil).Load()
	require.NoError(t, err)

	assert.True(t, cfg.Server.IsProduction())
	assert.Equal(t, 2*time.Second, cfg.Risk.PoliticalLookupTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoader_InvalidConfig(t *testing.T) {
	_, err := NewLoader(writeConfig(t, "database:\n  driver: oracle\n"), nil).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Driver: "sqlite"},
			Risk:     RiskConfig{PoliticalLookupTimeout: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.AssessmentTopic = "t" }, true},
		{"redis without addresses", func(c *Config) { c.Redis.Enabled = true }, true},
		{"zero lookup timeout", func(c *Config) { c.Risk.PoliticalLookupTimeout = 0 }, true},
		{"bad feed url", func(c *Config) { c.Risk.PoliticalFeedURL = "::nope" }, true},
		{"rate limit without rpm", func(c *Config) { c.RateLimit.Enabled = true }, true},
		{"sample rate above one", func(c *Config) { c.Tracing.SampleRate = 2 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}
