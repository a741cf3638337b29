package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mariasu11/netlog/internal/api"
	"github.com/mariasu11/netlog/internal/config"
	"github.com/mariasu11/netlog/pkg/luascript"
	"github.com/mariasu11/netlog/pkg/parser"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the netlog API server",
		Long:  `Start the netlog API server to provide parsing and script validation through HTTP endpoints.`,
		Run:   runServe,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Serve command flags
	serveCmd.Flags().StringP("host", "H", "0.0.0.0", "Host to bind the server to")
	serveCmd.Flags().IntP("port", "P", 8000, "Port to listen on")

	// Bind flags to viper
	viper.BindPFlag("api.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("api.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a cancellable context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize parser sources
	factory := parser.NewFactory(logger)
	registry := parser.NewRegistry(logger)

	if cfg.Scripts.Directory != "" {
		if err := luascript.LoadDirectory(registry, cfg.Scripts.Directory, cfg.Scripts.Enabled, logger); err != nil {
			logger.Warn("Failed to load parser scripts", "directory", cfg.Scripts.Directory, "error", err)
		}
	}
	logger.Info("Parsers initialized",
		"native", len(factory.SupportedDeviceTypes()),
		"scripted", registry.Len(),
	)

	// Create and configure the API server
	server := api.NewServer(cfg.API.Host, cfg.API.Port, factory, registry, logger)

	// Start the server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server failed", "error", err)
			cancel()
		}
	}()

	logger.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Wait for context cancellation (from signal handler)
	<-ctx.Done()

	// Graceful shutdown
	logger.Info("Shutting down API server...")

	// Allow up to 10 seconds for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}

	logger.Info("netlog API server shutdown complete")
}
