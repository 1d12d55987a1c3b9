// Package normalize turns raw vendor CSV rows into canonical, typed shot
// records: column renaming, signed-direction decoding, numeric coercion,
// smash fallback and the derived spin decomposition.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/coachlab/golfmetrics/internal/ingest"
	"github.com/coachlab/golfmetrics/internal/model"
)

// Canonical field names and their known vendor spellings. Only the first
// matching alias is used, and never when the canonical name is already
// present in the export.
var renameTable = []struct {
	canonical string
	aliases   []string
}{
	{"Carry", []string{"Carry Dist (m)", "Carry (m)", "CarryDistance", "Carry Distance"}},
	{"Total", []string{"Total Dist (m)", "Total (m)", "TotalDistance", "Total Distance"}},
	{"Offline", []string{"Offline (m)", "offline"}},
	{"BackSpin", []string{"Back Spin", "Backspin", "Spin Back", "Back Spin (rpm)"}},
	{"SpinAxis", []string{"Spin Axis", "Spin axis", "SpinAxis (deg)"}},
	{"Smash", []string{"Smash Factor", "SmashFactor"}},
	{"ClubSpeed", []string{"Club Speed", "Club Speed (mph)"}},
	{"BallSpeed", []string{"Ball Speed", "Ball Speed (mph)"}},
	{"VLA", []string{"VLA (deg)", "Vertical Launch Angle", "Vert Launch Angle"}},
	{"HLA", []string{"HLA (deg)", "Horizontal Launch Angle", "Hor Launch Angle"}},
	{"PeakHeight", []string{"Peak Height", "Peak Height (m)", "peak height"}},
	{"Club", []string{"Club Name", "club", "ClubName"}},
}

// Fields whose raw values may carry a trailing L/R direction letter.
var signedFields = map[string]bool{"Offline": true, "HLA": true, "VLA": true, "SpinAxis": true}

// Purely numeric fields.
var numericFields = map[string]bool{
	"Carry": true, "Total": true, "BackSpin": true, "Smash": true,
	"ClubSpeed": true, "BallSpeed": true, "PeakHeight": true,
}

var signedRe = regexp.MustCompile(`^([+-]?\d+(?:[.,]\d+)?)\s*([LR])$`)

// ParseSigned decodes a possibly direction-suffixed magnitude:
// "20 L" → -20, "15R" → 15, "10" → 10, "-5" → -5. A bare number is taken
// at face value; an L or R suffix forces the sign. Decimal commas and a
// degree sign are tolerated. Returns false for anything else.
func ParseSigned(s string) (float64, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "°", "")
	if s == "" || s == "NAN" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		return v, true
	}
	m := signedRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	if m[2] == "L" {
		return -v, true
	}
	return v, true
}

// ParseNumeric coerces a plain numeric cell, tolerating decimal commas.
func ParseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BatchMeta is the batch-level context attached to every canonical row.
type BatchMeta struct {
	SessionDate string
	PlayerRaw   string
	Alias       string
	Hand        string
}

// Columns records which canonical fields the source export actually
// carried (directly or via a recognized alias).
type Columns map[string]bool

// Canonicalize maps one raw file to canonical shots. Unrecognized
// columns survive in Shot.Extra; recognized ones are typed, with invalid
// cells becoming missing rather than failing the row.
func Canonicalize(f ingest.RawFile, meta BatchMeta) ([]model.Shot, Columns) {
	// canonical field → source column index
	colFor := make(map[string]int)
	claimed := make(map[int]bool)
	for _, r := range renameTable {
		if i := f.Column(r.canonical); i >= 0 {
			colFor[r.canonical] = i
			claimed[i] = true
			continue
		}
		for _, alias := range r.aliases {
			if i := f.Column(alias); i >= 0 {
				colFor[r.canonical] = i
				claimed[i] = true
				break
			}
		}
	}

	cols := make(Columns, len(colFor))
	for name := range colFor {
		cols[name] = true
	}

	smashSupplied := hasAnyValue(f, colFor, "Smash")

	shots := make([]model.Shot, 0, len(f.Rows))
	for _, row := range f.Rows {
		s := model.Shot{
			SessionDate: meta.SessionDate,
			PlayerRaw:   meta.PlayerRaw,
			Alias:       meta.Alias,
			Hand:        meta.Hand,
			Carry:       model.Missing(),
			Total:       model.Missing(),
			Offline:     model.Missing(),
			ClubSpeed:   model.Missing(),
			BallSpeed:   model.Missing(),
			Smash:       model.Missing(),
			HLA:         model.Missing(),
			VLA:         model.Missing(),
			BackSpin:    model.Missing(),
			SpinAxis:    model.Missing(),
			SpinTotal:   model.Missing(),
			SpinLat:     model.Missing(),
			PeakHeight:  model.Missing(),
		}

		for name, i := range colFor {
			cell := row[i]
			switch {
			case name == "Club":
				s.Club = strings.TrimSpace(cell)
			case signedFields[name]:
				if v, ok := ParseSigned(cell); ok {
					setField(&s, name, v)
				}
			case numericFields[name]:
				if v, ok := ParseNumeric(cell); ok {
					setField(&s, name, v)
				}
			}
		}

		if !smashSupplied && !model.IsMissing(s.BallSpeed) && !model.IsMissing(s.ClubSpeed) {
			s.Smash = clampSmash(s.BallSpeed, s.ClubSpeed)
		}

		s.IsDriver = IsDriver(s.Club)

		s.Extra = make(map[string]string)
		for i, h := range f.Header {
			if !claimed[i] && h != "" {
				s.Extra[h] = row[i]
			}
		}
		shots = append(shots, s)
	}
	return shots, cols
}

// clampSmash computes the fallback smash factor: ball over club speed,
// infinities (zero club speed) dropped, clipped to the physically
// plausible [0, 1.50].
func clampSmash(ball, club float64) float64 {
	if club == 0 {
		return model.Missing()
	}
	v := ball / club
	if v < 0 {
		return 0
	}
	if v > 1.50 {
		return 1.50
	}
	return v
}

func hasAnyValue(f ingest.RawFile, colFor map[string]int, name string) bool {
	i, ok := colFor[name]
	if !ok {
		return false
	}
	for _, row := range f.Rows {
		if _, ok := ParseNumeric(row[i]); ok {
			return true
		}
	}
	return false
}

func setField(s *model.Shot, name string, v float64) {
	switch name {
	case "Carry":
		s.Carry = v
	case "Total":
		s.Total = v
	case "Offline":
		s.Offline = v
	case "ClubSpeed":
		s.ClubSpeed = v
	case "BallSpeed":
		s.BallSpeed = v
	case "Smash":
		s.Smash = v
	case "HLA":
		s.HLA = v
	case "VLA":
		s.VLA = v
	case "BackSpin":
		s.BackSpin = v
	case "SpinAxis":
		s.SpinAxis = v
	case "PeakHeight":
		s.PeakHeight = v
	}
}
