package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/services"
)

var extractJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract highlights and comments from DOCX files",
	Long: `Runs the extraction engine over the given files without touching the
local store. A file that fails to parse is reported and does not abort the
remaining files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ups, err := readFiles(args)
	if err != nil {
		return err
	}

	svc := services.NewParseService(nil)
	batch := svc.ParseAll(cmd.Context(), ups)

	if extractJSON {
		data, err := json.MarshalIndent(batch, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputExtractTable(cmd, batch)
}

func readFiles(paths []string) ([]domain.Upload, error) {
	ups := make([]domain.Upload, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		ups = append(ups, domain.Upload{Filename: filepath.Base(path), Data: data})
	}
	return ups, nil
}

func outputExtractTable(cmd *cobra.Command, batch domain.BatchResult) error {
	if len(batch.Highlights) == 0 && len(batch.Comments) == 0 {
		cmd.Println("No annotations found.")
	}

	if len(batch.Highlights) > 0 {
		cmd.Printf("Highlights (%d):\n", len(batch.Highlights))
		for _, h := range batch.Highlights {
			cmd.Printf("  [%s] %s: %s\n", h.Color, h.Filename, h.Text)
		}
		cmd.Println()
	}

	if len(batch.Comments) > 0 {
		cmd.Printf("Comments (%d):\n", len(batch.Comments))
		for _, c := range batch.Comments {
			code := "-"
			if c.Code != nil {
				code = *c.Code
			}
			cmd.Printf("  [%s] %s #%d (%s): %s\n", code, c.Filename, c.ID, c.Author, c.Text)
			if c.Quoted != "" {
				cmd.Printf("      > %s\n", c.Quoted)
			}
		}
		cmd.Println()
	}

	for _, fe := range batch.Errors {
		cmd.Printf("Error: %s: %s\n", fe.Filename, fe.Message)
	}
	return nil
}
