package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/coachlab/golfmetrics/internal/aggregator"
	"github.com/coachlab/golfmetrics/internal/config"
	"github.com/coachlab/golfmetrics/internal/ingest"
	"github.com/coachlab/golfmetrics/internal/model"
	"github.com/coachlab/golfmetrics/internal/normalize"
	"github.com/coachlab/golfmetrics/internal/roster"
	"github.com/coachlab/golfmetrics/internal/storage"
)

const aliceCSV = `Date,Joueur,Club Name,Carry Dist (m),Offline (m),Back Spin,Spin Axis,Shot Type
3 mars 2025,Élodie Martin,Driver,210,12 L,2600,10 R,Standard
3 mars 2025,Élodie Martin,Driver,95,4 R,2400,5 L,Top
3 mars 2025,Élodie Martin,I7,150,2 R,6000,1 L,Standard
`

const bobCSV = `Date,Club,Carry,Offline
2025-03-03,Driver,185,25
2025-03-03,Driver,192,-8
`

const testRoster = `{"players": {"Élodie Martin": {"alias": "Elo", "hand": "gaucher"}}}`

func readCSV(t *testing.T, name, src string) ingest.RawFile {
	t.Helper()
	f, err := ingest.Read(strings.NewReader(src), name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return f
}

// canonBatch runs the front half of the ingest pipeline on in-memory files.
func canonBatch(t *testing.T, ros *roster.Roster, files ...ingest.RawFile) (string, []model.Shot) {
	t.Helper()
	date, err := ingest.BatchSessionDate(files)
	if err != nil {
		t.Fatalf("batch date: %v", err)
	}
	var shots []model.Shot
	for _, f := range files {
		raw := ingest.DetectPlayerName(f)
		meta := normalize.BatchMeta{
			SessionDate: date,
			PlayerRaw:   raw,
			Alias:       ros.Alias(raw),
			Hand:        ros.Hand(raw),
		}
		fileShots, cols := normalize.Canonicalize(f, meta)
		normalize.DeriveSpin(fileShots, cols)
		shots = append(shots, fileShots...)
	}
	return date, shots
}

func TestPipeline_TwoFileSession(t *testing.T) {
	ros, err := roster.Parse([]byte(testRoster))
	if err != nil {
		t.Fatalf("parse roster: %v", err)
	}

	date, shots := canonBatch(t, ros,
		readCSV(t, "ElodieShots.csv", aliceCSV),
		readCSV(t, "BobShots.csv", bobCSV),
	)
	if date != "2025-03-03" {
		t.Fatalf("session date = %s", date)
	}
	if len(shots) != 5 {
		t.Fatalf("shots = %d, want 5", len(shots))
	}

	// roster identity applied to the named player, sentinel for the other
	if shots[0].Alias != "Elo" || shots[0].Hand != "L" {
		t.Errorf("roster identity not applied: %+v", shots[0])
	}
	if shots[3].Alias != roster.UnknownAlias {
		t.Errorf("filename-only player alias = %s, want sentinel", shots[3].Alias)
	}

	// direction decoding and passthrough on the first drive
	if shots[0].Offline != -12 || shots[0].SpinAxis != 10 {
		t.Errorf("signed decode: offline=%v axis=%v", shots[0].Offline, shots[0].SpinAxis)
	}
	if shots[0].Extra["Shot Type"] != "Standard" {
		t.Errorf("extras lost: %v", shots[0].Extra)
	}
	if model.IsMissing(shots[0].SpinTotal) || model.IsMissing(shots[0].SpinLat) {
		t.Errorf("spin not derived: %v/%v", shots[0].SpinTotal, shots[0].SpinLat)
	}
	// Bob's file has no spin columns: derived fields stay missing
	if !model.IsMissing(shots[3].SpinTotal) {
		t.Errorf("spin derived without source columns: %v", shots[3].SpinTotal)
	}

	policy := config.Policy{GoodDriveCarryM: 120, FairwayHalfWidthM: 20}
	sessions := aggregator.Sessions(shots, policy)
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d rows, want 2", len(sessions))
	}

	elo := sessions[0]
	if elo.Alias != "Elo" {
		elo = sessions[1]
	}
	if elo.TotalShots != 3 || elo.DriverShots != 2 || elo.DriverGoodDrives != 1 {
		t.Errorf("Elo session row: %+v", elo)
	}
	if elo.DriverAvgCarryGood != 210 {
		t.Errorf("Elo avg good carry = %v, want only the 210m drive", elo.DriverAvgCarryGood)
	}

	// round-trip through storage
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	batch := model.BatchSummary{ID: "b1", SessionDate: date, FileCount: 2, ShotCount: len(shots), CreatedAt: "2025-03-03T18:00:00Z"}
	if err := db.InsertBatch(batch); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if err := db.InsertShots(batch.ID, shots); err != nil {
		t.Fatalf("InsertShots: %v", err)
	}
	stored, err := db.GetShots(date)
	if err != nil {
		t.Fatalf("GetShots: %v", err)
	}
	if len(stored) != len(shots) {
		t.Fatalf("stored %d shots, want %d", len(stored), len(shots))
	}
	if stored[0].Offline != -12 || stored[0].Extra["Shot Type"] != "Standard" {
		t.Errorf("storage round trip mismatch: %+v", stored[0])
	}
}

func TestPipeline_MixedDatesRejectedBeforeOutput(t *testing.T) {
	files := []ingest.RawFile{
		readCSV(t, "a.csv", "Date,Club\n2025-03-03,Driver\n"),
		readCSV(t, "b.csv", "Date,Club\n2025-03-10,Driver\n"),
	}
	_, err := ingest.BatchSessionDate(files)
	var amb *ingest.AmbiguousSessionBatchError
	if !errors.As(err, &amb) {
		t.Fatalf("err = %v, want AmbiguousSessionBatchError", err)
	}
}
