package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/bookhaven/bookhaven/internal/app"
	"github.com/bookhaven/bookhaven/internal/platform/db"
	"github.com/bookhaven/bookhaven/internal/seed"
)

var (
	seedAdminUsername string
	seedAdminEmail    string
	seedAdminPassword string
	seedWithCatalog   bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed roles, an admin account and optionally a sample catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig()
		if err != nil {
			return err
		}
		logger := app.NewLogger(cfg)

		ctx := cmd.Context()
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		seeder := seed.New(pool, logger)
		if err := seeder.Roles(ctx); err != nil {
			return err
		}

		if seedAdminUsername != "" || seedAdminEmail != "" {
			if seedAdminUsername == "" || seedAdminEmail == "" || seedAdminPassword == "" {
				return errors.New("seeding an admin requires --admin-username, --admin-email and --admin-password")
			}
			if err := seeder.AdminUser(ctx, seedAdminUsername, seedAdminEmail, seedAdminPassword); err != nil {
				return err
			}
		}

		if seedWithCatalog {
			if err := seeder.Catalog(ctx); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminUsername, "admin-username", "", "username for the admin account")
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "", "email for the admin account")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "", "password for the admin account")
	seedCmd.Flags().BoolVar(&seedWithCatalog, "with-catalog", false, "also insert a small sample catalog")
}
