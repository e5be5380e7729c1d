package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/evidenzia-labs/evidenzia-cli/internal/adapters/driving/httpapi"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/ports/driven"
	"github.com/evidenzia-labs/evidenzia-cli/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction HTTP API",
	Long: `Starts the REST API serving document extraction and mapping state.
Environment variables are loaded from a .env file in the working directory
when present. EVIDENZIA_ADDR or the server.addr config key override the
default listen address.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default 127.0.0.1:8000)")
	rootCmd.AddCommand(serveCmd)
}

// listenAddr resolves the listen address: the --addr flag wins, then the
// EVIDENZIA_ADDR environment variable, then the server.addr config key.
// An empty result means the server default.
func listenAddr(cfg driven.ConfigStore) string {
	if serveAddr != "" {
		return serveAddr
	}
	if addr := os.Getenv("EVIDENZIA_ADDR"); addr != "" {
		return addr
	}
	return cfg.GetString("server.addr")
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Missing .env is the normal case.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env")
	}

	if err := ensureServices(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := stateService.Load(ctx); err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	server := httpapi.NewServer(httpapi.Config{Addr: listenAddr(configStore)}, parseService, stateService)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	return server.Start(ctx)
}
