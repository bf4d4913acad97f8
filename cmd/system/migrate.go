package system

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/propconnect/propconnect/config"
	"github.com/propconnect/propconnect/internal/database"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			fmt.Println("Running migrations.")
			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("failed to access sql db: %w", err)
			}
			defer sqlDB.Close()

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			fmt.Println("Migrations executed successfully.")
			return nil
		},
	}

	return cmd
}
