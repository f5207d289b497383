package main

import (
	"coursenotes/cmd/internal/app"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo users when the database has none",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := app.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		created, err := a.Auth.SeedUsers(cmd.Context())
		if err != nil {
			return err
		}

		if created == 0 {
			log.Info("users already exist, nothing to seed")
			return nil
		}
		log.Infof("seeded %d demo users", created)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
