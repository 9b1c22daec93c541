package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	database, err := db.Connect(cmd.Context(), cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	applied, err := database.Migrate(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range applied {
		_, _ = fmt.Fprintf(out, "applied %s\n", name)
	}
	if len(applied) == 0 {
		_, _ = fmt.Fprintln(out, "schema is up to date")
	}
	return nil
}
