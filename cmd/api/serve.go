package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"coursenotes/cmd/internal/app"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if cfg.App.SeedDemoUsers {
			created, err := a.Auth.SeedUsers(ctx)
			if err != nil {
				return err
			}
			if created > 0 {
				log.Infof("seeded %d demo users", created)
			}
		}

		log.Infof("listening on :%s (%s)", cfg.App.Port, cfg.App.Environment)
		return a.Start(ctx, cfg.App.Port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
