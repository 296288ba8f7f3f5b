package cli

import (
	"github.com/spf13/cobra"

	"github.com/bell24h/supplierrisk/internal/config"
	"github.com/bell24h/supplierrisk/internal/infrastructure/persistence/postgres"
	"github.com/bell24h/supplierrisk/internal/infrastructure/secrets"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

func newMigrateCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the supplier and assessment tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.NewNoopLogger()

			cfg, err := config.NewLoader(configFile, log).Load()
			if err != nil {
				return err
			}
			if cfg.Vault.Enabled {
				resolver, err := secrets.NewVaultResolver(cfg.Vault, log)
				if err != nil {
					return err
				}
				if err := resolver.ResolveDatabasePassword(ctx, &cfg.Database); err != nil {
					return err
				}
			}

			db, err := postgres.Open(ctx, &cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				return err
			}
			cmd.Printf("migrated %s database\n", cfg.Database.Driver)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to config.yaml")
	return cmd
}
