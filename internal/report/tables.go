// Package report renders aggregates: terminal tables for the CLI and
// illustrated PDF documents for players and the group.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/coachlab/golfmetrics/internal/model"
)

// PrintBatchSummary prints a one-line header for an ingested batch.
func PrintBatchSummary(w io.Writer, b model.BatchSummary) {
	fmt.Fprintf(w, "\nSession: %s  |  Files: %d  |  Shots: %d  |  Batch: %s\n\n",
		b.SessionDate, b.FileCount, b.ShotCount, shortID(b.ID))
}

// PrintSessionTable prints the per-player session aggregates.
func PrintSessionTable(w io.Writer, stats []model.SessionStats) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("ALIAS", "HAND", "SHOTS", "CLUBS", "DRV", "FAIRWAY", "GOOD_DRV", "AVG_CARRY")

	for _, s := range stats {
		avg := "n/a"
		if !model.IsMissing(s.DriverAvgCarryGood) {
			avg = fmt.Sprintf("%.1fm", s.DriverAvgCarryGood)
		}
		table.Append(
			s.Alias,
			s.Hand,
			strconv.Itoa(s.TotalShots),
			strconv.Itoa(s.ClubsPlayed),
			strconv.Itoa(s.DriverShots),
			strconv.Itoa(s.DriverFairwayCount),
			strconv.Itoa(s.DriverGoodDrives),
			avg,
		)
	}
	table.Render()
}

// PrintBatchesTable prints the stored batches, newest first.
func PrintBatchesTable(w io.Writer, batches []model.BatchSummary) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("SESSION", "FILES", "SHOTS", "BATCH", "CREATED")

	for _, b := range batches {
		table.Append(
			b.SessionDate,
			strconv.Itoa(b.FileCount),
			strconv.Itoa(b.ShotCount),
			shortID(b.ID),
			b.CreatedAt,
		)
	}
	table.Render()
}

// PrintStandingsTable prints the ranked driver comparison table.
func PrintStandingsTable(w io.Writer, standings []model.Standing) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("#", "ALIAS", "N", "CARRY", "STD", "OFFLINE", "|OFF|", "FW%", "SMASH", "BACKSPIN", "SPIN_LAT")

	for i, s := range standings {
		table.Append(
			strconv.Itoa(i+1),
			s.Alias,
			strconv.Itoa(s.N),
			fmtF(s.AvgCarry, 1),
			fmtF(s.StdCarry, 1),
			fmtF(s.AvgOffline, 1),
			fmtF(s.AvgAbsOffline, 1),
			fmtPct(s.FairwayPct),
			fmtF(s.AvgSmash, 2),
			fmtF(s.AvgBackSpin, 0),
			fmtF(s.AvgSpinLat, 0),
		)
	}
	table.Render()
}

// fmtF formats a possibly-missing value, printing the dash convention
// for absent metrics.
func fmtF(v float64, prec int) string {
	if model.IsMissing(v) {
		return "—"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func fmtPct(v float64) string {
	if model.IsMissing(v) {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
