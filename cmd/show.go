package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coachlab/golfmetrics/internal/aggregator"
	"github.com/coachlab/golfmetrics/internal/auth"
	"github.com/coachlab/golfmetrics/internal/model"
	"github.com/coachlab/golfmetrics/internal/report"
	"github.com/coachlab/golfmetrics/internal/storage"
)

var (
	showAlias string
	showUser  string
)

var showCmd = &cobra.Command{
	Use:   "show <session-date>",
	Short: "Show stored aggregates for a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showAlias, "alias", "", "restrict output to one player")
	showCmd.Flags().StringVar(&showUser, "user", "", "view as a configured user (students see only their own data)")
}

func runShow(cmd *cobra.Command, args []string) error {
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

	stats, err := db.GetSessionStats(sessionDate)
	if err != nil {
		return fmt.Errorf("load session stats: %w", err)
	}
	if len(stats) == 0 {
		return fmt.Errorf("no session stored for %s", sessionDate)
	}
	role := auth.RoleCoach
	if showUser != "" {
		var ok bool
		role, ok = auth.RoleOf(cfg.Users, showUser)
		if !ok {
			return fmt.Errorf("unknown user %s", showUser)
		}
	}

	if showAlias != "" {
		stats = filterStats(stats, showAlias)
		if len(stats) == 0 {
			return fmt.Errorf("no stats for alias %s in session %s", showAlias, sessionDate)
		}
	}
	stats = viewableStats(role, showUser, stats)
	if len(stats) == 0 {
		return fmt.Errorf("user %s may not view any data in session %s", showUser, sessionDate)
	}

	fmt.Fprintf(os.Stdout, "\nSession %s\n\n", sessionDate)
	report.PrintSessionTable(os.Stdout, stats)

	shots, err := db.GetShots(sessionDate)
	if err != nil {
		return fmt.Errorf("load shots: %w", err)
	}
	standings := aggregator.Standings(shots, cfg.Policy)
	if showAlias != "" {
		standings = filterStandings(standings, showAlias)
	}
	standings = viewableStandings(role, showUser, standings)
	if len(standings) > 0 {
		fmt.Fprintln(os.Stdout)
		report.PrintStandingsTable(os.Stdout, standings)
	}
	return nil
}

// viewableStats applies the role visibility rule: coaches see every row,
// students only the alias their username resolves to.
func viewableStats(role, username string, stats []model.SessionStats) []model.SessionStats {
	var out []model.SessionStats
	for _, s := range stats {
		if auth.CanViewAlias(role, username, s.Alias) {
			out = append(out, s)
		}
	}
	return out
}

func viewableStandings(role, username string, standings []model.Standing) []model.Standing {
	var out []model.Standing
	for _, s := range standings {
		if auth.CanViewAlias(role, username, s.Alias) {
			out = append(out, s)
		}
	}
	return out
}

func filterStats(stats []model.SessionStats, alias string) []model.SessionStats {
	var out []model.SessionStats
	for _, s := range stats {
		if s.Alias == alias {
			out = append(out, s)
		}
	}
	return out
}

func filterStandings(standings []model.Standing, alias string) []model.Standing {
	var out []model.Standing
	for _, s := range standings {
		if s.Alias == alias {
			out = append(out, s)
		}
	}
	return out
}
