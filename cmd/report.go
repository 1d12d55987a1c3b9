package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coachlab/golfmetrics/internal/aggregator"
	"github.com/coachlab/golfmetrics/internal/report"
	"github.com/coachlab/golfmetrics/internal/storage"
)

var reportPublish bool

var reportCmd = &cobra.Command{
	Use:   "report <session-date>",
	Short: "Regenerate the workbook and documents for a stored session",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportPublish, "publish", false, "publish artifacts to the session store")
}

func runReport(cmd *cobra.Command, args []string) error {
	sessionDate := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.Paths.DB)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	shots, err := db.GetShots(sessionDate)
	if err != nil {
		return fmt.Errorf("load shots: %w", err)
	}
	if len(shots) == 0 {
		return fmt.Errorf("no shots stored for session %s", sessionDate)
	}

	art, err := generateArtifacts(cfg, shots, sessionDate)
	if err != nil {
		return err
	}

	if reportPublish {
		if err := publishSession(cfg, sessionDate, nil, art); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "Workbook: %s\n", art.Workbook)
	for _, doc := range art.Documents {
		fmt.Fprintf(os.Stdout, "Document: %s\n", doc)
	}
	fmt.Fprintln(os.Stdout)
	report.PrintStandingsTable(os.Stdout, aggregator.Standings(shots, cfg.Policy))
	return nil
}
