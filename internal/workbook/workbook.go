// Package workbook writes the canonical dataset to a spreadsheet with a
// Shots sheet (one row per shot) and a Sessions sheet (one aggregate row
// per alias and date), and reads Shots back. Consumers select columns by
// name; order is not part of the contract.
package workbook

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/coachlab/golfmetrics/internal/model"
)

const (
	shotsSheet    = "Shots"
	sessionsSheet = "Sessions"
)

// canonical Shots columns, before passthrough extras.
var shotColumns = []string{
	"SessionDate", "PlayerRaw", "Alias", "Hand", "Club", "IsDriver",
	"Carry", "Total", "Offline", "ClubSpeed", "BallSpeed", "Smash",
	"HLA", "VLA", "BackSpin", "SpinAxis", "SpinTotal", "SpinLat", "PeakHeight",
}

var sessionColumns = []string{
	"SessionDate", "Alias", "Hand", "TotalShots", "ClubsPlayed",
	"DriverShots", "Driver_Fairway_Count", "Driver_Shots_Carry_gt120",
	"Driver_AvgCarry_gt120",
}

// Write produces the workbook at path. Missing numeric values become
// empty cells, never zeros or "NaN" strings.
func Write(path string, shots []model.Shot, sessions []model.SessionStats) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", shotsSheet)
	if _, err := f.NewSheet(sessionsSheet); err != nil {
		return fmt.Errorf("create sessions sheet: %w", err)
	}

	extras := extraColumns(shots)
	header := append(append([]string{}, shotColumns...), extras...)
	if err := writeRow(f, shotsSheet, 1, toCells(header)); err != nil {
		return err
	}
	for i, s := range shots {
		cells := []interface{}{
			s.SessionDate, s.PlayerRaw, s.Alias, s.Hand, s.Club, s.IsDriver,
			num(s.Carry), num(s.Total), num(s.Offline),
			num(s.ClubSpeed), num(s.BallSpeed), num(s.Smash),
			num(s.HLA), num(s.VLA), num(s.BackSpin), num(s.SpinAxis),
			num(s.SpinTotal), num(s.SpinLat), num(s.PeakHeight),
		}
		for _, col := range extras {
			cells = append(cells, s.Extra[col])
		}
		if err := writeRow(f, shotsSheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := writeRow(f, sessionsSheet, 1, toCells(sessionColumns)); err != nil {
		return err
	}
	for i, s := range sessions {
		cells := []interface{}{
			s.SessionDate, s.Alias, s.Hand, s.TotalShots, s.ClubsPlayed,
			s.DriverShots, s.DriverFairwayCount, s.DriverGoodDrives,
			num(s.DriverAvgCarryGood),
		}
		if err := writeRow(f, sessionsSheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// ReadShots reads the Shots sheet back into canonical records. String
// cells round-trip exactly; numeric cells to the precision excelize
// stores (full float64 text).
func ReadShots(path string) ([]model.Shot, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(shotsSheet)
	if err != nil {
		return nil, fmt.Errorf("read shots sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("shots sheet has no header row")
	}

	header := rows[0]
	canonical := make(map[string]bool, len(shotColumns))
	for _, c := range shotColumns {
		canonical[c] = true
	}

	var out []model.Shot
	for _, row := range rows[1:] {
		cell := func(name string) string {
			for i, h := range header {
				if h == name && i < len(row) {
					return row[i]
				}
			}
			return ""
		}
		s := model.Shot{
			SessionDate: cell("SessionDate"),
			PlayerRaw:   cell("PlayerRaw"),
			Alias:       cell("Alias"),
			Hand:        cell("Hand"),
			Club:        cell("Club"),
			IsDriver:    strings.EqualFold(cell("IsDriver"), "true"),
			Carry:       parseNum(cell("Carry")),
			Total:       parseNum(cell("Total")),
			Offline:     parseNum(cell("Offline")),
			ClubSpeed:   parseNum(cell("ClubSpeed")),
			BallSpeed:   parseNum(cell("BallSpeed")),
			Smash:       parseNum(cell("Smash")),
			HLA:         parseNum(cell("HLA")),
			VLA:         parseNum(cell("VLA")),
			BackSpin:    parseNum(cell("BackSpin")),
			SpinAxis:    parseNum(cell("SpinAxis")),
			SpinTotal:   parseNum(cell("SpinTotal")),
			SpinLat:     parseNum(cell("SpinLat")),
			PeakHeight:  parseNum(cell("PeakHeight")),
			Extra:       make(map[string]string),
		}
		for i, h := range header {
			if !canonical[h] && h != "" && i < len(row) {
				s.Extra[h] = row[i]
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// extraColumns is the sorted union of passthrough column names.
func extraColumns(shots []model.Shot) []string {
	seen := make(map[string]bool)
	for _, s := range shots {
		for k := range s.Extra {
			seen[k] = true
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	addr, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(names []string) []interface{} {
	out := make([]interface{}, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}

// num maps the missing sentinel to an empty cell.
func num(v float64) interface{} {
	if model.IsMissing(v) {
		return nil
	}
	return v
}

func parseNum(s string) float64 {
	if strings.TrimSpace(s) == "" {
		return model.Missing()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return model.Missing()
	}
	return v
}
