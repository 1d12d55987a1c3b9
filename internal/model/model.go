package model

import (
	"math"
	"sort"
)

// Missing is the sentinel for an absent measurement. Canonical numeric
// fields use NaN rather than pointers so arithmetic stays direct; use
// IsMissing before formatting or persisting a value.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether a canonical numeric value is absent.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// ClubCategory classifies a free-text club label.
type ClubCategory int

const (
	ClubUnknown ClubCategory = iota
	ClubDriver
	ClubWood
	ClubHybrid
	ClubIron
	ClubWedge
	ClubPutter
)

func (c ClubCategory) String() string {
	switch c {
	case ClubDriver:
		return "driver"
	case ClubWood:
		return "wood"
	case ClubHybrid:
		return "hybrid"
	case ClubIron:
		return "iron"
	case ClubWedge:
		return "wedge"
	case ClubPutter:
		return "putter"
	default:
		return "?"
	}
}

// Shot is one canonical ball strike. Numeric fields are NaN when the
// source row carried no usable value. Extra holds source columns that
// have no canonical meaning; they are carried through untouched.
type Shot struct {
	SessionDate string
	PlayerRaw   string
	Alias       string
	Hand        string // "L" or "R"
	Club        string
	IsDriver    bool

	Carry   float64 // meters
	Total   float64 // meters
	Offline float64 // meters, signed: negative = left

	ClubSpeed float64 // mph
	BallSpeed float64 // mph
	Smash     float64

	HLA float64 // degrees, signed
	VLA float64 // degrees

	BackSpin  float64 // rpm
	SpinAxis  float64 // degrees, signed
	SpinTotal float64 // rpm, derived
	SpinLat   float64 // rpm, derived

	PeakHeight float64 // meters

	Extra map[string]string
}

// SessionStats is the per-(alias, session date) aggregate row.
type SessionStats struct {
	SessionDate string
	Alias       string
	Hand        string

	TotalShots  int
	ClubsPlayed int

	DriverShots        int
	DriverFairwayCount int
	DriverGoodDrives   int
	// DriverAvgCarryGood is the mean carry over good drives only;
	// NaN when the player hit no good drives this session.
	DriverAvgCarryGood float64
}

// Standing is one alias' driver comparison row, computed over good
// drives only.
type Standing struct {
	Alias string
	Hand  string
	N     int

	AvgCarry      float64
	StdCarry      float64
	AvgOffline    float64
	StdOffline    float64
	AvgAbsOffline float64
	FairwayPct    float64

	AvgSmash      float64
	AvgBackSpin   float64
	AvgSpinAxis   float64
	AvgSpinLat    float64
	AvgHLA        float64
	AvgVLA        float64
	AvgPeakHeight float64
}

// BatchSummary is a lightweight record for list commands.
type BatchSummary struct {
	ID          string
	SessionDate string
	FileCount   int
	ShotCount   int
	CreatedAt   string
}

// Aliases returns the distinct aliases present in shots, sorted.
func Aliases(shots []Shot) []string {
	seen := make(map[string]bool)
	for _, s := range shots {
		seen[s.Alias] = true
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
