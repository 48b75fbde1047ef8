package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/cache"
	"github.com/aellingwood/excerpt/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server that generates previews, quotes and plain text for
posted content. Posts in the watched directories are listed and served as a
feed, and changes to them are pushed to websocket clients.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := make(map[string]any)
		f := cmd.Flags()
		if f.Changed("port") {
			overrides["port"], _ = f.GetInt("port")
		}
		if f.Changed("host") {
			overrides["host"], _ = f.GetString("host")
		}
		if f.Changed("watch") {
			overrides["watchDirs"], _ = f.GetStringSlice("watch")
		}
		if f.Changed("cache") {
			overrides["cache"], _ = f.GetString("cache")
		}

		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.WithOverrides(overrides)
		if err := cfg.Validate(); err != nil {
			return err
		}

		c, err := cache.New(cfg.Cache, logger)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer c.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, c, logger)
		fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", cfg.Addr())
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "server port (default from config)")
	serveCmd.Flags().String("host", "", "bind address (default from config)")
	serveCmd.Flags().StringSlice("watch", nil, "post directories to load and watch")
	serveCmd.Flags().String("cache", "", "cache backend: memory, file, redis or none")

	rootCmd.AddCommand(serveCmd)
}
