package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"metronome/config"
	"metronome/logger"
	"metronome/server"

	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the display server",
	Long: `Start the HTTP server that renders a measure per request and embeds the
click track and animation in a web page. Changes to .env are picked up without
a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != "" {
			cfg.Port = servePort
		}
		srv, err := server.New(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if _, err := os.Stat(config.DefaultEnvFile); err == nil {
			go watchEnv(ctx, srv)
		}
		return srv.Start(ctx)
	},
}

func watchEnv(ctx context.Context, srv *server.Server) {
	err := config.Watch(ctx, config.DefaultEnvFile, func(next *config.Config) {
		if servePort != "" {
			next.Port = servePort
		}
		if err := srv.Reload(next); err != nil {
			logger.Warn("ignoring invalid configuration", logger.ErrorField(err))
			return
		}
		logger.Info("configuration reloaded", logger.String("file", config.DefaultEnvFile))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("stopped watching configuration", logger.ErrorField(err))
	}
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (default from PORT)")
	rootCmd.AddCommand(serveCmd)
}
