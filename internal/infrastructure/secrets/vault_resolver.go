// Package secrets resolves credentials from HashiCorp Vault.
package secrets

import (
	"context"
	"fmt"
	"strings"

	vault "github.com/hashicorp/vault/api"

	"github.com/bell24h/supplierrisk/internal/config"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

// VaultResolver reads secrets from a KV v2 mount.
type VaultResolver struct {
	client    *vault.Client
	mountPath string
	logger    logger.Logger
}

// NewVaultResolver creates a Vault client from the configuration.
func NewVaultResolver(cfg config.VaultConfig, log logger.Logger) (*VaultResolver, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address
	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	mount := strings.Trim(cfg.MountPath, "/")
	if mount == "" {
		mount = "secret"
	}
	return &VaultResolver{client: client, mountPath: mount, logger: log.WithComponent("VaultResolver")}, nil
}

// ReadString returns the string value of key in the KV v2 secret at path.
func (r *VaultResolver) ReadString(ctx context.Context, path, key string) (string, error) {
	fullPath := fmt.Sprintf("%s/data/%s", r.mountPath, strings.TrimLeft(path, "/"))

	secret, err := r.client.Logical().ReadWithContext(ctx, fullPath)
	if err != nil {
		r.logger.Error(ctx, "failed to read secret from Vault", err, logger.String("path", fullPath))
		return "", fmt.Errorf("could not read secret from vault: %w", err)
	}
	if secret == nil || secret.Data["data"] == nil {
		return "", fmt.Errorf("secret not found in vault at %s", fullPath)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid secret format in vault")
	}
	value, ok := data[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s not found or not a string in vault secret", key)
	}
	return value, nil
}

// ResolveDatabasePassword replaces the configured database password with the Vault value
// when a secret path is configured. It is a no-op otherwise.
func (r *VaultResolver) ResolveDatabasePassword(ctx context.Context, db *config.DatabaseConfig) error {
	if db.PasswordSecretPath == "" {
		return nil
	}
	password, err := r.ReadString(ctx, db.PasswordSecretPath, "password")
	if err != nil {
		return err
	}
	db.Password = password
	r.logger.Info(ctx, "Database password resolved from Vault", logger.String("path", db.PasswordSecretPath))
	return nil
}
