package report

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/coachlab/golfmetrics/internal/config"
	"github.com/coachlab/golfmetrics/internal/model"
)

var testPolicy = config.Policy{GoodDriveCarryM: 120, FairwayHalfWidthM: 20}

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func sessionShot(alias, hand string, carry, offline float64) model.Shot {
	return model.Shot{
		SessionDate: "2025-03-03",
		Alias:       alias,
		Hand:        hand,
		Club:        "Driver",
		IsDriver:    true,
		Carry:       carry,
		Offline:     offline,
		Smash:       1.4,
		BackSpin:    2600,
		SpinAxis:    8,
		SpinTotal:   2626,
		SpinLat:     365,
		HLA:         -2,
		VLA:         12,
		PeakHeight:  28,
		ClubSpeed:   100,
		BallSpeed:   140,
		Total:       model.Missing(),
	}
}

// ---- naming and labels ----

func TestDocumentName(t *testing.T) {
	if got := DocumentName("A", "Elo", "2025-03-03"); got != "ModelA_Elo_20250303.pdf" {
		t.Errorf("DocumentName = %q", got)
	}
	if got := DocumentName("C", GroupName, "2025-03-03"); got != "ModelC_GROUPE_20250303.pdf" {
		t.Errorf("group DocumentName = %q", got)
	}
}

func TestCurveLabel(t *testing.T) {
	cases := []struct {
		hand string
		axis float64
		want string
	}{
		{"R", -8, "draw"}, // righty, ball curving left
		{"R", 8, "fade"},
		{"L", -8, "fade"}, // lefty mirror
		{"L", 8, "draw"},
		{"R", 0.1, "neutral"},
		{"R", model.Missing(), "neutral"},
	}
	for _, c := range cases {
		if got := CurveLabel(c.hand, c.axis); got != c.want {
			t.Errorf("CurveLabel(%s, %v) = %s, want %s", c.hand, c.axis, got, c.want)
		}
	}
}

func TestKpiFormatting(t *testing.T) {
	if got := kpiF(model.Missing(), 1); got != "n/a" {
		t.Errorf("kpiF(missing) = %q", got)
	}
	if got := kpiF(12.345, 1); got != "12.3" {
		t.Errorf("kpiF = %q", got)
	}
	if got := kpiPct(model.Missing()); got != "n/a" {
		t.Errorf("kpiPct(missing) = %q", got)
	}
}

func TestFairwayPct_EdgeInclusive(t *testing.T) {
	drv := []model.Shot{
		sessionShot("A", "R", 200, 20), // exactly on the band edge
		sessionShot("A", "R", 200, -30),
	}
	if got := fairwayPct(drv, 20); got != 50 {
		t.Errorf("fairwayPct = %v, want 50", got)
	}
	if got := fairwayPct(nil, 20); !model.IsMissing(got) {
		t.Errorf("fairwayPct over no data = %v, want missing", got)
	}
}

// ---- document generation ----

func TestSessionDocuments_ProducesAllModels(t *testing.T) {
	out := t.TempDir()
	g := Generator{Policy: testPolicy, OutDir: out, Log: quietLog()}

	shots := []model.Shot{
		sessionShot("Alice", "R", 205, 10),
		sessionShot("Alice", "R", 195, -15),
		sessionShot("Bob", "L", 180, 5),
		sessionShot("Bob", "L", 175, 25),
	}

	results := g.SessionDocuments(shots, "2025-03-03")

	// two players × models A and B, plus group models C and D
	if len(results) != 6 {
		t.Fatalf("results = %d, want 6", len(results))
	}
	for _, res := range results {
		if res.Err != nil {
			t.Errorf("%s: %v", res.Document, res.Err)
		}
		fi, err := os.Stat(res.Path)
		if err != nil {
			t.Errorf("%s not written: %v", res.Document, err)
			continue
		}
		if fi.Size() == 0 {
			t.Errorf("%s is empty", res.Document)
		}
	}

	want := []string{
		"ModelA_Alice_20250303.pdf", "ModelB_Alice_20250303.pdf",
		"ModelA_Bob_20250303.pdf", "ModelB_Bob_20250303.pdf",
		"ModelC_GROUPE_20250303.pdf", "ModelD_GROUPE_20250303.pdf",
	}
	for _, name := range want {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected document %s: %v", name, err)
		}
	}
}

func TestSessionDocuments_EmptyDataStillYieldsGroupDocs(t *testing.T) {
	out := t.TempDir()
	g := Generator{Policy: testPolicy, OutDir: out, Log: quietLog()}

	results := g.SessionDocuments(nil, "2025-03-03")
	if len(results) != 2 {
		t.Fatalf("results = %d, want group documents only", len(results))
	}
	for _, res := range results {
		if _, err := os.Stat(res.Path); err != nil {
			t.Errorf("%s not written: %v", res.Document, err)
		}
	}
}

func TestRender_FailureWritesFallback(t *testing.T) {
	out := t.TempDir()
	g := Generator{Policy: testPolicy, OutDir: out, Log: quietLog()}

	res := g.render("A", "Elo", "2025-03-03", func(path string) error {
		return errors.New("chart exploded")
	})
	if res.Err == nil || !strings.Contains(res.Err.Error(), "chart exploded") {
		t.Fatalf("Err = %v, want the build error preserved", res.Err)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("fallback not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("fallback is not a PDF")
	}
}

func TestRender_PanicBecomesFallback(t *testing.T) {
	out := t.TempDir()
	g := Generator{Policy: testPolicy, OutDir: out, Log: quietLog()}

	res := g.render("B", "Elo", "2025-03-03", func(path string) error {
		panic("boom")
	})
	if res.Err == nil || !strings.Contains(res.Err.Error(), "boom") {
		t.Fatalf("Err = %v, want panic captured", res.Err)
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Errorf("fallback not written after panic: %v", err)
	}
}

// ---- terminal tables ----

func TestPrintSessionTable_MissingAverageShown(t *testing.T) {
	var buf bytes.Buffer
	PrintSessionTable(&buf, []model.SessionStats{{
		SessionDate: "2025-03-03", Alias: "Elo", Hand: "L",
		TotalShots: 10, DriverShots: 10, DriverGoodDrives: 0,
		DriverAvgCarryGood: model.Missing(),
	}})
	out := buf.String()
	if !strings.Contains(out, "Elo") {
		t.Errorf("alias missing from table:\n%s", out)
	}
	if !strings.Contains(out, "n/a") {
		t.Errorf("missing average must print n/a:\n%s", out)
	}
}

func TestPrintStandingsTable_DashForMissing(t *testing.T) {
	var buf bytes.Buffer
	PrintStandingsTable(&buf, []model.Standing{{
		Alias: "Elo", N: 3,
		AvgCarry:      190,
		AvgAbsOffline: model.Missing(),
		FairwayPct:    model.Missing(),
		AvgSmash:      model.Missing(),
		StdCarry:      model.Missing(),
		AvgOffline:    model.Missing(),
		AvgBackSpin:   model.Missing(),
		AvgSpinLat:    model.Missing(),
	}})
	out := buf.String()
	if !strings.Contains(out, "—") {
		t.Errorf("missing metrics must print the dash:\n%s", out)
	}
	if !strings.Contains(out, "190") {
		t.Errorf("present metric missing from table:\n%s", out)
	}
}
