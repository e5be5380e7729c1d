package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect the category mapping state",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current mapping state as JSON",
	RunE:  runStateShow,
}

func init() {
	stateCmd.AddCommand(stateShowCmd)
	rootCmd.AddCommand(stateCmd)
}

func runStateShow(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if err := stateService.Load(cmd.Context()); err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	data, err := json.MarshalIndent(stateService.Get(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
