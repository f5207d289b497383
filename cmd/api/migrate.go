package main

import (
	"coursenotes/cmd/internal/app"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := app.OpenDatabase(cfg)
		if err != nil {
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		log.Infof("migrated %s database", cfg.Database.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
