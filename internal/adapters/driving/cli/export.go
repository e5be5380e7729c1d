package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/services"
	"github.com/evidenzia-labs/evidenzia-cli/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export [files...]",
	Short: "Export linked annotations as CSV",
	Long: `Extracts the given files (or, with no arguments, the stored documents),
links comments to highlights, resolves categories against the saved mapping
state and writes one CSV per document type into the output directory.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", ".", "output directory for CSV files")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if err := stateService.Load(cmd.Context()); err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	var batch domain.BatchResult
	if len(args) > 0 {
		ups, err := readFiles(args)
		if err != nil {
			return err
		}
		batch = parseService.ParseAll(cmd.Context(), ups)
	} else {
		var err error
		batch, err = parseService.Aggregate(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading stored documents: %w", err)
		}
	}

	for _, fe := range batch.Errors {
		cmd.Printf("Error: %s: %s\n", fe.Filename, fe.Message)
	}

	state := stateService.Get()
	ann := services.NewAnnotationService()
	ann.SetData(batch)
	ann.SetState(state)

	rows := export.Rows(ann.Annotations(), state)
	if len(rows) == 0 {
		cmd.Println("No annotations to export.")
		return nil
	}

	paths, err := export.WritePartitions(exportOut, rows)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	for _, path := range paths {
		cmd.Printf("Wrote %s\n", path)
	}
	return nil
}
