package workbook

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/coachlab/golfmetrics/internal/model"
)

func sampleShot(alias string, carry float64) model.Shot {
	return model.Shot{
		SessionDate: "2025-03-03",
		PlayerRaw:   alias,
		Alias:       alias,
		Hand:        "R",
		Club:        "Driver",
		IsDriver:    true,
		Carry:       carry,
		Total:       model.Missing(),
		Offline:     -14.5,
		ClubSpeed:   model.Missing(),
		BallSpeed:   model.Missing(),
		Smash:       1.43,
		HLA:         model.Missing(),
		VLA:         model.Missing(),
		BackSpin:    2600,
		SpinAxis:    9,
		SpinTotal:   model.Missing(),
		SpinLat:     model.Missing(),
		PeakHeight:  model.Missing(),
		Extra:       map[string]string{"Shot Type": "Standard"},
	}
}

func TestWriteAndReadShots_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.xlsx")
	shots := []model.Shot{
		sampleShot("Alice", 205.5),
		sampleShot("Bob", model.Missing()),
	}
	if err := Write(path, shots, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := ReadShots(path)
	if err != nil {
		t.Fatalf("ReadShots: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d shots, want 2", len(got))
	}

	alice := got[0]
	if alice.Alias != "Alice" || !alice.IsDriver || alice.Club != "Driver" {
		t.Errorf("identity columns mismatch: %+v", alice)
	}
	if alice.Carry != 205.5 || alice.Offline != -14.5 {
		t.Errorf("numeric columns mismatch: carry=%v offline=%v", alice.Carry, alice.Offline)
	}
	if alice.Extra["Shot Type"] != "Standard" {
		t.Errorf("passthrough column lost: %v", alice.Extra)
	}
	if !model.IsMissing(alice.Total) {
		t.Errorf("empty cell must read back missing, got %v", alice.Total)
	}
	if !model.IsMissing(got[1].Carry) {
		t.Errorf("missing carry must round-trip as missing, got %v", got[1].Carry)
	}
}

func TestWrite_MissingValuesAreEmptyCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.xlsx")
	if err := Write(path, []model.Shot{sampleShot("Alice", model.Missing())}, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(shotsSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	carryCol := -1
	for i, h := range rows[0] {
		if h == "Carry" {
			carryCol = i
		}
	}
	if carryCol < 0 {
		t.Fatal("Carry column missing from header")
	}
	if carryCol < len(rows[1]) && rows[1][carryCol] != "" {
		t.Errorf("missing carry cell = %q, want empty (never NaN or 0)", rows[1][carryCol])
	}
}

func TestWrite_SessionsSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.xlsx")
	sessions := []model.SessionStats{{
		SessionDate: "2025-03-03", Alias: "Alice", Hand: "L",
		TotalShots: 30, ClubsPlayed: 2, DriverShots: 10,
		DriverFairwayCount: 6, DriverGoodDrives: 8, DriverAvgCarryGood: 201.2,
	}}
	if err := Write(path, nil, sessions); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sessionsSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("sessions rows = %d, want header + 1", len(rows))
	}

	byName := make(map[string]string)
	for i, h := range rows[0] {
		if i < len(rows[1]) {
			byName[h] = rows[1][i]
		}
	}
	if byName["Alias"] != "Alice" {
		t.Errorf("Alias cell = %q", byName["Alias"])
	}
	if byName["Driver_Shots_Carry_gt120"] != "8" {
		t.Errorf("good drive count cell = %q, want 8", byName["Driver_Shots_Carry_gt120"])
	}
	if byName["Driver_AvgCarry_gt120"] != "201.2" {
		t.Errorf("avg carry cell = %q, want 201.2", byName["Driver_AvgCarry_gt120"])
	}
}

func TestExtraColumns_SortedUnion(t *testing.T) {
	a := sampleShot("Alice", 200)
	a.Extra = map[string]string{"Zeta": "1", "Alpha": "2"}
	b := sampleShot("Bob", 190)
	b.Extra = map[string]string{"Mid": "3", "Alpha": "4"}

	got := extraColumns([]model.Shot{a, b})
	want := []string{"Alpha", "Mid", "Zeta"}
	if len(got) != len(want) {
		t.Fatalf("extras = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("extras[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
