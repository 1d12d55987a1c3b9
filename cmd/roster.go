package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coachlab/golfmetrics/internal/roster"
)

var rosterCmd = &cobra.Command{
	Use:   "roster [name...]",
	Short: "Resolve player names against the roster",
	Long: "With no arguments, reports the roster size. With names, shows the\n" +
		"alias and handedness each name resolves to.",
	RunE: runRoster,
}

func runRoster(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ros, err := roster.Load(cfg.Paths.Roster)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	if len(args) == 0 {
		fmt.Fprintf(os.Stdout, "Roster %s: %d player(s)\n", cfg.Paths.Roster, ros.Len())
		return nil
	}

	for _, name := range args {
		status := "unknown"
		if ros.Known(name) {
			status = "known"
		}
		fmt.Fprintf(os.Stdout, "%-30s -> alias=%s hand=%s (%s)\n",
			name, ros.Alias(name), ros.Hand(name), status)
	}
	return nil
}
