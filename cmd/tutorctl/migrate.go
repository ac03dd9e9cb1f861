package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MarcoGiova99/tutor/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.cleanup()

		if err := database.Migrate(e.cfg.DB.DSN); err != nil {
			return err
		}
		return printVersion(cmd, e.cfg.DB.DSN)
	},
}

var migrateDownSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.cleanup()

		if err := database.Rollback(e.cfg.DB.DSN, migrateDownSteps); err != nil {
			return err
		}
		return printVersion(cmd, e.cfg.DB.DSN)
	},
}

func printVersion(cmd *cobra.Command, dsn string) error {
	v, dirty, err := database.Version(dsn)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d (dirty: %t)\n", v, dirty)
	return nil
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "number of migrations to revert")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}
