// Package cli implements the evidenzia command line interface using cobra.
// The root command wires the storage and service layer; subcommands stay
// thin and delegate to core services.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evidenzia-labs/evidenzia-cli/internal/adapters/driven/config/file"
	"github.com/evidenzia-labs/evidenzia-cli/internal/adapters/driven/state/remote"
	"github.com/evidenzia-labs/evidenzia-cli/internal/adapters/driven/storage/sqlite"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/ports/driven"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/services"
	"github.com/evidenzia-labs/evidenzia-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	dataDirFlag string
	configFlag  string
)

// Shared service instances, wired once per invocation in ensureServices.
var (
	configStore  driven.ConfigStore
	store        *sqlite.Store
	parseService *services.ParseService
	stateService *services.StateService
)

var rootCmd = &cobra.Command{
	Use:   "evidenzia",
	Short: "Extract and categorize highlights and comments from DOCX files",
	Long: `Evidenzia extracts highlighted spans and reviewer comments from Word
documents, links comments to their highlighted evidence, and resolves each
annotation to a category through classification codes, highlight colors and
per-comment overrides.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.evidenzia/data)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config directory (default ~/.evidenzia)")
}

// Execute runs the root command.
func Execute() error {
	defer teardownServices()
	return rootCmd.Execute()
}

// ensureServices wires config, storage and services. Commands that touch
// persistence call this once at the top of their RunE.
func ensureServices() error {
	if parseService != nil {
		return nil
	}

	cfg, err := file.NewConfigStore(configFlag)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cfg

	st, err := sqlite.NewStore(dataDirFlag)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	store = st
	logger.Debug("store opened at %s", st.Path())

	parseService = services.NewParseService(st.DocStore())
	stateService = services.NewStateService(st.StateStore(), remoteStateStore(cfg))
	return nil
}

// remoteStateStore builds the remote sync store from configuration, or nil
// when no endpoint is configured.
func remoteStateStore(cfg driven.ConfigStore) driven.StateStore {
	base := cfg.GetString("sync.remote_url")
	if base == "" {
		return nil
	}
	logger.Debug("remote state sync enabled: %s", base)
	return remote.NewStateStore(remote.Config{BaseURL: base})
}

// teardownServices flushes pending state writes and closes the store.
func teardownServices() {
	if stateService != nil {
		if err := stateService.Close(); err != nil {
			logger.Warn("closing state service: %v", err)
		}
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}
}
