package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/km-arc/userform/app"
	foundation "github.com/km-arc/userform/framework/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the form server on APP_PORT. Configuration is read from the
environment and the given .env files. SIGINT or SIGTERM shuts it down
gracefully.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		envFiles, _ := cmd.Flags().GetStringSlice("env")

		application, err := app.New(foundation.WithEnvFiles(envFiles...))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return application.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringSlice("env", []string{".env"}, ".env files to load")
}
