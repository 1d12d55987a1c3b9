// Package main is the entry point for the golfmetrics CLI tool, which
// ingests golf launch-monitor CSV exports and computes per-player and
// per-group coaching statistics and reports.
package main

import "github.com/coachlab/golfmetrics/cmd"

func main() {
	cmd.Execute()
}
