// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"softcatalog/internal/config"
	"softcatalog/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg.DSN())
			if err != nil {
				slog.Error("failed to connect to database", "error", err)
				return err
			}
			defer db.Close()

			if err := database.Migrate(db); err != nil {
				slog.Error("failed to run migrations", "error", err)
				return err
			}
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin account if none exists",
		Long: "Create the default admin account if none exists. The account uses a\n" +
			"well-known password, so outside development the command refuses to run\n" +
			"unless --force is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			if err := checkSeedAllowed(cfg, force); err != nil {
				return err
			}
			db, err := database.Connect(cfg.DSN())
			if err != nil {
				slog.Error("failed to connect to database", "error", err)
				return err
			}
			defer db.Close()

			if err := database.Seed(cmd.Context(), db); err != nil {
				slog.Error("failed to seed database", "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "seed the default admin outside development")
	return cmd
}

// checkSeedAllowed refuses to create the default admin outside development
// unless force is set.
func checkSeedAllowed(cfg *config.Config, force bool) error {
	if cfg.IsDev() {
		return nil
	}
	if !force {
		return fmt.Errorf("refusing to seed default admin %q in %s; pass --force to override",
			database.DefaultAdminUsername, cfg.Env)
	}
	slog.Warn("seeding default admin outside development", "env", cfg.Env, "username", database.DefaultAdminUsername)
	return nil
}
