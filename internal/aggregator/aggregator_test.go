package aggregator

import (
	"math"
	"testing"

	"github.com/coachlab/golfmetrics/internal/config"
	"github.com/coachlab/golfmetrics/internal/model"
)

var testPolicy = config.Policy{GoodDriveCarryM: 120, FairwayHalfWidthM: 20}

// drive builds one driver shot for an alias.
func drive(alias string, carry, offline float64) model.Shot {
	return model.Shot{
		SessionDate: "2025-03-03",
		Alias:       alias,
		Hand:        "R",
		Club:        "Driver",
		IsDriver:    true,
		Carry:       carry,
		Offline:     offline,
		Smash:       model.Missing(),
		BackSpin:    model.Missing(),
		SpinAxis:    model.Missing(),
		SpinTotal:   model.Missing(),
		SpinLat:     model.Missing(),
		HLA:         model.Missing(),
		VLA:         model.Missing(),
		PeakHeight:  model.Missing(),
		ClubSpeed:   model.Missing(),
		BallSpeed:   model.Missing(),
		Total:       model.Missing(),
	}
}

func ironShot(alias, club string) model.Shot {
	s := drive(alias, model.Missing(), model.Missing())
	s.Club = club
	s.IsDriver = false
	return s
}

func almostEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ---- Sessions ----

func TestSessions_PerPlayerCounts(t *testing.T) {
	shots := []model.Shot{
		drive("Alice", 200, 5),
		drive("Alice", 100, 30), // short: not a good drive, outside fairway
		ironShot("Alice", "I7"),
		drive("Bob", 180, -10),
	}
	stats := Sessions(shots, testPolicy)
	if len(stats) != 2 {
		t.Fatalf("stats = %d rows, want 2", len(stats))
	}

	alice := stats[0]
	if alice.Alias != "Alice" {
		t.Fatalf("rows not sorted by alias: %s first", alice.Alias)
	}
	if alice.TotalShots != 3 || alice.DriverShots != 2 {
		t.Errorf("Alice counts = %d/%d, want 3/2", alice.TotalShots, alice.DriverShots)
	}
	if alice.ClubsPlayed != 2 {
		t.Errorf("Alice clubs = %d, want 2", alice.ClubsPlayed)
	}
	if alice.DriverGoodDrives != 1 || !almostEq(alice.DriverAvgCarryGood, 200) {
		t.Errorf("Alice good drives = %d avg %v", alice.DriverGoodDrives, alice.DriverAvgCarryGood)
	}
	if alice.DriverFairwayCount != 1 {
		t.Errorf("Alice fairway = %d, want 1 (30m offline outside ±20)", alice.DriverFairwayCount)
	}
}

func TestSessions_NoGoodDrivesAvgMissing(t *testing.T) {
	shots := []model.Shot{
		drive("Alice", 90, 0),
		drive("Alice", 110, 0),
	}
	stats := Sessions(shots, testPolicy)
	if len(stats) != 1 {
		t.Fatalf("stats = %d rows, want 1", len(stats))
	}
	if stats[0].DriverGoodDrives != 0 {
		t.Errorf("good drives = %d, want 0", stats[0].DriverGoodDrives)
	}
	if !model.IsMissing(stats[0].DriverAvgCarryGood) {
		t.Errorf("avg over empty subset = %v, want missing", stats[0].DriverAvgCarryGood)
	}
}

func TestSessions_ThresholdIsStrict(t *testing.T) {
	shots := []model.Shot{drive("Alice", 120, 0)} // exactly at the cut: excluded
	stats := Sessions(shots, testPolicy)
	if stats[0].DriverGoodDrives != 0 {
		t.Errorf("carry exactly at threshold must not count as good")
	}
}

func TestSessions_SortedByDateThenAlias(t *testing.T) {
	s1 := drive("Zoe", 150, 0)
	s2 := drive("Alice", 150, 0)
	s3 := drive("Alice", 150, 0)
	s3.SessionDate = "2025-02-01"
	stats := Sessions([]model.Shot{s1, s2, s3}, testPolicy)
	if len(stats) != 3 {
		t.Fatalf("stats = %d rows, want 3", len(stats))
	}
	if stats[0].SessionDate != "2025-02-01" {
		t.Errorf("earliest date must sort first, got %s", stats[0].SessionDate)
	}
	if stats[1].Alias != "Alice" || stats[2].Alias != "Zoe" {
		t.Errorf("same-date rows must sort by alias: %s, %s", stats[1].Alias, stats[2].Alias)
	}
}

// ---- Standings ----

func TestStandings_GoodDrivesOnly(t *testing.T) {
	shots := []model.Shot{
		drive("Alice", 200, 5),
		drive("Alice", 80, 0), // filtered out
		ironShot("Alice", "I7"),
	}
	st := Standings(shots, testPolicy)
	if len(st) != 1 {
		t.Fatalf("standings = %d rows, want 1", len(st))
	}
	if st[0].N != 1 || !almostEq(st[0].AvgCarry, 200) {
		t.Errorf("N=%d avg=%v, want the single good drive", st[0].N, st[0].AvgCarry)
	}
}

func TestStandings_RankByCarryThenAccuracy(t *testing.T) {
	shots := []model.Shot{
		drive("Short", 150, 0),
		drive("Long", 220, 15),
		drive("Mid", 180, 2),
	}
	st := Standings(shots, testPolicy)
	order := []string{"Long", "Mid", "Short"}
	for i, want := range order {
		if st[i].Alias != want {
			t.Errorf("rank %d = %s, want %s", i+1, st[i].Alias, want)
		}
	}
}

func TestStandings_CarryTieBrokenByAbsOffline(t *testing.T) {
	shots := []model.Shot{
		drive("Wide", 200, 18),
		drive("Tight", 200, -3),
	}
	st := Standings(shots, testPolicy)
	if st[0].Alias != "Tight" {
		t.Errorf("equal carry must rank the tighter player first, got %s", st[0].Alias)
	}
}

func TestStandings_FairwayPctAndStats(t *testing.T) {
	shots := []model.Shot{
		drive("Alice", 200, 10),  // inside ±20
		drive("Alice", 210, -25), // outside
		drive("Alice", 190, 20),  // exactly on the edge counts
		drive("Alice", 205, 0),
	}
	st := Standings(shots, testPolicy)
	if len(st) != 1 {
		t.Fatalf("standings = %d rows", len(st))
	}
	if !almostEq(st[0].FairwayPct, 75) {
		t.Errorf("FairwayPct = %v, want 75", st[0].FairwayPct)
	}
	if !almostEq(st[0].AvgAbsOffline, (10+25+20+0)/4.0) {
		t.Errorf("AvgAbsOffline = %v", st[0].AvgAbsOffline)
	}
	if !almostEq(st[0].AvgCarry, (200+210+190+205)/4.0) {
		t.Errorf("AvgCarry = %v", st[0].AvgCarry)
	}
}

func TestStandings_MissingMetricsRankLast(t *testing.T) {
	noOff := drive("Blind", 200, model.Missing())
	seen := drive("Seen", 200, 5)
	st := Standings([]model.Shot{noOff, seen}, testPolicy)
	if st[0].Alias != "Seen" {
		t.Errorf("player with data must outrank player with missing |offline|")
	}
	if !model.IsMissing(st[1].AvgAbsOffline) || !model.IsMissing(st[1].FairwayPct) {
		t.Errorf("metrics over no data must stay missing: %+v", st[1])
	}
}

func TestStandings_PopulationStdDev(t *testing.T) {
	shots := []model.Shot{
		drive("Alice", 190, 0),
		drive("Alice", 210, 0),
	}
	st := Standings(shots, testPolicy)
	if !almostEq(st[0].StdCarry, 10) {
		t.Errorf("StdCarry = %v, want population std 10", st[0].StdCarry)
	}
}

// ---- FindLeaders ----

func TestFindLeaders(t *testing.T) {
	shots := []model.Shot{
		drive("Long", 230, 18),
		drive("Tight", 150, 1),
	}
	shots[1].Smash = 1.45
	shots[0].Smash = 1.30

	st := Standings(shots, testPolicy)
	l := FindLeaders(st)
	if l.Carry == nil || l.Carry.Alias != "Long" {
		t.Errorf("carry leader = %+v, want Long", l.Carry)
	}
	if l.Accuracy == nil || l.Accuracy.Alias != "Tight" {
		t.Errorf("accuracy leader = %+v, want Tight", l.Accuracy)
	}
	if l.Smash == nil || l.Smash.Alias != "Tight" {
		t.Errorf("smash leader = %+v, want Tight", l.Smash)
	}
}

func TestFindLeaders_EmptyStandings(t *testing.T) {
	l := FindLeaders(nil)
	if l.Carry != nil || l.Accuracy != nil || l.Smash != nil {
		t.Error("leaders over empty standings must all be nil")
	}
}
