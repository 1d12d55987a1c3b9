package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coachlab/golfmetrics/internal/report"
	"github.com/coachlab/golfmetrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored session batches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.Paths.DB)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	batches, err := db.ListBatches()
	if err != nil {
		return fmt.Errorf("list batches: %w", err)
	}
	if len(batches) == 0 {
		fmt.Fprintln(os.Stdout, "No sessions stored.")
		return nil
	}

	report.PrintBatchesTable(os.Stdout, batches)
	return nil
}
