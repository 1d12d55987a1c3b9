package report

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/sirupsen/logrus"

	"github.com/coachlab/golfmetrics/internal/aggregator"
	"github.com/coachlab/golfmetrics/internal/config"
	"github.com/coachlab/golfmetrics/internal/model"
)

// GroupName is the pseudo-alias used in group document filenames.
const GroupName = "GROUPE"

// Generator renders the session's PDF documents. Every document is an
// independent unit of work: a failure produces a minimal fallback PDF
// carrying the error text and never cancels the sibling documents.
type Generator struct {
	Policy config.Policy
	OutDir string
	Log    *logrus.Logger
}

// Result is the outcome of one document.
type Result struct {
	Document string
	Path     string
	Err      error
}

// SessionDocuments renders every player and group document for one
// session and returns the per-document outcomes.
func (g *Generator) SessionDocuments(shots []model.Shot, date string) []Result {
	var results []Result
	for _, alias := range model.Aliases(shots) {
		player := filterAlias(shots, alias)
		hand := "R"
		if len(player) > 0 {
			hand = player[0].Hand
		}
		results = append(results,
			g.render("A", alias, date, func(path string) error {
				return g.buildModelA(path, player, alias, hand, date)
			}),
			g.render("B", alias, date, func(path string) error {
				return g.buildModelB(path, player, alias, hand, date)
			}),
		)
	}
	results = append(results,
		g.render("C", GroupName, date, func(path string) error {
			return g.buildModelC(path, shots, date)
		}),
		g.render("D", GroupName, date, func(path string) error {
			return g.buildModelD(path, shots, date)
		}),
	)
	return results
}

// DocumentName builds the fixed naming scheme:
// Model<Letter>_<Alias-or-GROUPE>_<SessionDateCompact>.pdf.
func DocumentName(letter, alias, date string) string {
	return fmt.Sprintf("Model%s_%s_%s.pdf", letter, alias, strings.ReplaceAll(date, "-", ""))
}

// render runs one document build, converting errors and panics into a
// fallback document so the batch always yields a valid file per slot.
func (g *Generator) render(letter, alias, date string, build func(path string) error) (res Result) {
	name := DocumentName(letter, alias, date)
	path := filepath.Join(g.OutDir, name)
	res = Result{Document: name, Path: path}

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("render %s: panic: %v", name, r)
		}
		if res.Err != nil {
			g.Log.WithFields(logrus.Fields{"document": name, "error": res.Err}).
				Warn("document render failed, writing fallback")
			if fbErr := g.fallback(path, letter, alias, date, res.Err); fbErr != nil {
				res.Err = fmt.Errorf("%v (fallback also failed: %v)", res.Err, fbErr)
			}
		}
	}()

	if err := os.MkdirAll(g.OutDir, 0o755); err != nil {
		res.Err = err
		return res
	}
	res.Err = build(path)
	return res
}

// fallback writes a minimal but structurally valid PDF carrying the
// render error, so one bad chart never leaves a hole in the batch.
func (g *Generator) fallback(path, letter, alias, date string, cause error) error {
	pdf, tr := newDoc(fmt.Sprintf("Model %s — %s", letter, alias))
	heading(pdf, tr, fmt.Sprintf("Model %s — %s", letter, alias))
	body(pdf, tr, fmt.Sprintf("Session: %s", date))
	body(pdf, tr, "This report could not be generated.")
	body(pdf, tr, "Error: "+cause.Error())
	return pdf.OutputFileAndClose(path)
}

// ---- Model A: player overview ----

func (g *Generator) buildModelA(path string, shots []model.Shot, alias, hand, date string) error {
	drv := filterDrivers(shots)

	pdf, tr := newDoc("Model A — " + alias)
	heading(pdf, tr, "MODEL A — Session overview")
	body(pdf, tr, "Session date: "+date)
	body(pdf, tr, "Alias: "+alias)
	body(pdf, tr, "Handedness: "+handLabel(hand))
	body(pdf, tr, fmt.Sprintf("Shots: %d (driver: %d)", len(shots), len(drv)))

	pdf.AddPage()
	heading(pdf, tr, "1) Key indicators")
	g.kpiTable(pdf, tr, drv)

	pdf.AddPage()
	heading(pdf, tr, "2) Dispersion")
	if err := embedChart(pdf, "a-disp", func() ([]byte, error) {
		return dispersionChart(drv, g.Policy.FairwayHalfWidthM)
	}, tr); err != nil {
		return err
	}
	body(pdf, tr, g.dispersionComment(drv, hand))

	pdf.AddPage()
	heading(pdf, tr, "3) Launch angles")
	if err := embedChart(pdf, "a-hla", func() ([]byte, error) {
		return launchChart(drv, func(s model.Shot) float64 { return s.HLA }, "HLA")
	}, tr); err != nil {
		return err
	}
	if err := embedChart(pdf, "a-vla", func() ([]byte, error) {
		return launchChart(drv, func(s model.Shot) float64 { return s.VLA }, "VLA")
	}, tr); err != nil {
		return err
	}
	body(pdf, tr, "HLA sets where the ball starts; VLA shapes the flight window. "+
		"Stabilize start direction before chasing height.")

	return pdf.OutputFileAndClose(path)
}

// ---- Model B: driver-only detail ----

func (g *Generator) buildModelB(path string, shots []model.Shot, alias, hand, date string) error {
	drv := filterDrivers(shots)

	pdf, tr := newDoc("Model B — " + alias)
	heading(pdf, tr, "MODEL B — Driver only")
	body(pdf, tr, "Session date: "+date)
	body(pdf, tr, "Alias: "+alias)
	body(pdf, tr, "Handedness: "+handLabel(hand))
	body(pdf, tr, fmt.Sprintf("Drives: %d", len(drv)))

	pdf.AddPage()
	heading(pdf, tr, "1) Driver key indicators")
	g.kpiTable(pdf, tr, drv)
	body(pdf, tr, fmt.Sprintf(
		"Average carry is computed over drives with carry > %.0f m (good drives), "+
			"so tops and mis-hits do not deflate the real level.", g.Policy.GoodDriveCarryM))

	pdf.AddPage()
	heading(pdf, tr, "2) Dispersion & trajectory control")
	if err := embedChart(pdf, "b-disp", func() ([]byte, error) {
		return dispersionChart(drv, g.Policy.FairwayHalfWidthM)
	}, tr); err != nil {
		return err
	}
	body(pdf, tr, g.dispersionComment(drv, hand))

	pdf.AddPage()
	heading(pdf, tr, "3) Impact efficiency (smash)")
	if err := embedChart(pdf, "b-smash", func() ([]byte, error) { return smashChart(drv) }, tr); err != nil {
		return err
	}

	pdf.AddPage()
	heading(pdf, tr, "4) Spin — consistency and tendency")
	if err := embedChart(pdf, "b-spin", func() ([]byte, error) { return spinChart(drv) }, tr); err != nil {
		return err
	}
	body(pdf, tr, "Backspin drives lift, lateral spin drives curvature. "+
		"Aim for less lateral-spin variability rather than forcing a shape.")

	pdf.AddPage()
	heading(pdf, tr, "5) Dominant fault profile")
	body(pdf, tr, g.faultComment(drv, hand))

	return pdf.OutputFileAndClose(path)
}

// ---- Model C: group comparison ----

func (g *Generator) buildModelC(path string, shots []model.Shot, date string) error {
	standings := aggregator.Standings(shots, g.Policy)

	pdf, tr := newDoc("Model C — group comparison")
	heading(pdf, tr, "MODEL C — Player comparison (driver)")
	body(pdf, tr, "Session date: "+date)
	body(pdf, tr, fmt.Sprintf("Good drives only (carry > %.0f m).", g.Policy.GoodDriveCarryM))
	pdf.Ln(4)

	g.standingsTable(pdf, tr, standings)

	pdf.AddPage()
	heading(pdf, tr, "Dispersion — all players")
	if err := embedChart(pdf, "c-disp", func() ([]byte, error) {
		return dispersionChart(filterDrivers(shots), g.Policy.FairwayHalfWidthM)
	}, tr); err != nil {
		return err
	}

	leaders := aggregator.FindLeaders(standings)
	pdf.Ln(4)
	heading(pdf, tr, "Coach takeaways")
	for _, line := range leaderLines(leaders) {
		body(pdf, tr, line)
	}
	body(pdf, tr, "Priority: consistency first (|offline| + fairway%), then smash, then spin/angle tuning.")

	return pdf.OutputFileAndClose(path)
}

// ---- Model D: group ranking synthesis ----

func (g *Generator) buildModelD(path string, shots []model.Shot, date string) error {
	standings := aggregator.Standings(shots, g.Policy)

	pdf, tr := newDoc("Model D — group synthesis")
	heading(pdf, tr, "MODEL D — Group synthesis (driver)")
	body(pdf, tr, "Session date: "+date)
	pdf.Ln(4)

	labels := make([]string, len(standings))
	carries := make([]float64, len(standings))
	fairways := make([]float64, len(standings))
	smashes := make([]float64, len(standings))
	for i, s := range standings {
		labels[i] = s.Alias
		carries[i] = s.AvgCarry
		fairways[i] = s.FairwayPct
		smashes[i] = s.AvgSmash
	}

	if err := embedChart(pdf, "d-carry", func() ([]byte, error) {
		return rankBarChart("Group — average carry (m)", labels, carries)
	}, tr); err != nil {
		return err
	}
	if err := embedChart(pdf, "d-fw", func() ([]byte, error) {
		return rankBarChart("Group — fairway hit rate (%)", labels, fairways)
	}, tr); err != nil {
		return err
	}
	if err := embedChart(pdf, "d-smash", func() ([]byte, error) {
		return rankBarChart("Group — average smash", labels, smashes)
	}, tr); err != nil {
		return err
	}

	leaders := aggregator.FindLeaders(standings)
	pdf.Ln(4)
	heading(pdf, tr, "Coach conclusions")
	for _, line := range leaderLines(leaders) {
		body(pdf, tr, line)
	}

	return pdf.OutputFileAndClose(path)
}

// ---- shared building blocks ----

func newDoc(title string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return pdf, tr
}

func heading(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, tr(text), "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func body(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(text), "", "L", false)
	pdf.Ln(1)
}

// embedChart renders one chart and places it at the cursor. A chart
// with no plottable data writes an explanatory line instead of failing
// the document.
func embedChart(pdf *fpdf.Fpdf, name string, renderFn func() ([]byte, error), tr func(string) string) error {
	png, err := renderFn()
	if err != nil {
		body(pdf, tr, "Chart not available: "+err.Error())
		return nil
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, 15, pdf.GetY()+2, 180, 0, true, opts, 0, "")
	pdf.Ln(4)
	return pdf.Error()
}

// kpiTable writes the two-column KPI block for a driver subset.
func (g *Generator) kpiTable(pdf *fpdf.Fpdf, tr func(string) string, drv []model.Shot) {
	good := filterGoodDrives(drv, g.Policy.GoodDriveCarryM)

	rows := []struct {
		label string
		value string
	}{
		{"Drives (total)", fmt.Sprintf("%d", len(drv))},
		{fmt.Sprintf("Drives (carry > %.0f m)", g.Policy.GoodDriveCarryM), fmt.Sprintf("%d", len(good))},
		{"Average carry (m, good drives)", kpiF(meanOf(good, func(s model.Shot) float64 { return s.Carry }), 1)},
		{"Average offline (m)", kpiF(meanOf(drv, func(s model.Shot) float64 { return s.Offline }), 1)},
		{fmt.Sprintf("Fairway rate (±%.0f m)", g.Policy.FairwayHalfWidthM), kpiPct(fairwayPct(drv, g.Policy.FairwayHalfWidthM))},
		{"Average club speed (mph)", kpiF(meanOf(drv, func(s model.Shot) float64 { return s.ClubSpeed }), 1)},
		{"Average ball speed (mph)", kpiF(meanOf(drv, func(s model.Shot) float64 { return s.BallSpeed }), 1)},
		{"Average smash", kpiF(meanOf(drv, func(s model.Shot) float64 { return s.Smash }), 2)},
		{"Average backspin (rpm)", kpiF(meanOf(drv, func(s model.Shot) float64 { return s.BackSpin }), 0)},
		{"Average spin axis (deg)", kpiF(meanOf(drv, func(s model.Shot) float64 { return s.SpinAxis }), 1)},
		{"Average peak height (m)", kpiF(meanOf(drv, func(s model.Shot) float64 { return s.PeakHeight }), 1)},
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(110, 7, tr("KPI"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, tr("Value"), "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		pdf.CellFormat(110, 6, tr(r.label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, tr(r.value), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)
}

func (g *Generator) standingsTable(pdf *fpdf.Fpdf, tr func(string) string, standings []model.Standing) {
	headers := []string{"#", "Alias", "N", "Carry", "|Off|", "FW%", "Smash"}
	widths := []float64{10, 45, 15, 30, 30, 25, 25}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, s := range standings {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			s.Alias,
			fmt.Sprintf("%d", s.N),
			kpiF(s.AvgCarry, 1),
			kpiF(s.AvgAbsOffline, 1),
			kpiPct(s.FairwayPct),
			kpiF(s.AvgSmash, 2),
		}
		for j, c := range cells {
			align := "R"
			if j == 1 {
				align = "L"
			}
			pdf.CellFormat(widths[j], 6, tr(c), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(standings) == 0 {
		pdf.CellFormat(0, 6, tr("No good drives recorded for this session."), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (g *Generator) dispersionComment(drv []model.Shot, hand string) string {
	off := valuesOf(drv, func(s model.Shot) float64 { return s.Offline })
	if len(off) == 0 {
		return "No offline data recorded; dispersion analysis not available."
	}
	bias := mean(off)
	pct := fairwayPct(drv, g.Policy.FairwayHalfWidthM)
	side := "left"
	if bias > 0 {
		side = "right"
	}
	comment := fmt.Sprintf("%.0f%% of drives finish inside the ±%.0f m band. Average bias %.1f m (%s).",
		pct, g.Policy.FairwayHalfWidthM, bias, side)
	if axis := meanOf(drv, func(s model.Shot) float64 { return s.SpinAxis }); !model.IsMissing(axis) {
		comment += fmt.Sprintf(" Average spin axis %.1f° — tendency: %s.", axis, CurveLabel(hand, axis))
	}
	return comment
}

func (g *Generator) faultComment(drv []model.Shot, hand string) string {
	off := valuesOf(drv, func(s model.Shot) float64 { return s.Offline })
	if len(off) == 0 {
		return "Not enough data to qualify a dominant fault."
	}
	if len(off) < 5 {
		return "Few drives: the dominant fault is still unstable. Collect more data."
	}
	bias := mean(off)
	spread := std(off)
	side := "left"
	if bias > 0 {
		side = "right"
	}
	curve := "spin axis not available, curve tendency undetermined"
	if axis := meanOf(drv, func(s model.Shot) float64 { return s.SpinAxis }); !model.IsMissing(axis) {
		curve = "curve tendency: " + CurveLabel(hand, axis)
	}
	return fmt.Sprintf("Typical dispersion: offline std %.1f m. Average bias %.1f m (%s). %s. "+
		"Priority: reduce the bias, then tighten the dispersion.", spread, bias, side, curve)
}

// CurveLabel classifies curvature from spin axis and handedness. After
// sign decoding, negative axis means the ball curves left: a draw for a
// right-handed player, a fade for a left-handed one.
func CurveLabel(hand string, spinAxis float64) string {
	if model.IsMissing(spinAxis) || math.Abs(spinAxis) < 0.2 {
		return "neutral"
	}
	left := spinAxis < 0
	lefty := strings.HasPrefix(strings.ToUpper(hand), "L")
	if lefty == left {
		return "fade"
	}
	return "draw"
}

func handLabel(hand string) string {
	if strings.HasPrefix(strings.ToUpper(hand), "L") {
		return "left-handed"
	}
	return "right-handed"
}

func leaderLines(l aggregator.Leaders) []string {
	var lines []string
	if l.Carry != nil {
		lines = append(lines, fmt.Sprintf("Distance leader: %s (%.1f m average carry).", l.Carry.Alias, l.Carry.AvgCarry))
	}
	if l.Accuracy != nil {
		lines = append(lines, fmt.Sprintf("Accuracy leader: %s (%.1f m average |offline|).", l.Accuracy.Alias, l.Accuracy.AvgAbsOffline))
	}
	if l.Smash != nil {
		lines = append(lines, fmt.Sprintf("Efficiency leader: %s (%.2f average smash).", l.Smash.Alias, l.Smash.AvgSmash))
	}
	if len(lines) == 0 {
		lines = append(lines, "Group statistics not available for this session.")
	}
	return lines
}

// ---- small numeric helpers ----

func filterAlias(shots []model.Shot, alias string) []model.Shot {
	var out []model.Shot
	for _, s := range shots {
		if s.Alias == alias {
			out = append(out, s)
		}
	}
	return out
}

func filterDrivers(shots []model.Shot) []model.Shot {
	var out []model.Shot
	for _, s := range shots {
		if s.IsDriver {
			out = append(out, s)
		}
	}
	return out
}

func filterGoodDrives(drv []model.Shot, carryMin float64) []model.Shot {
	var out []model.Shot
	for _, s := range drv {
		if !model.IsMissing(s.Carry) && s.Carry > carryMin {
			out = append(out, s)
		}
	}
	return out
}

func valuesOf(shots []model.Shot, f func(model.Shot) float64) []float64 {
	var out []float64
	for _, s := range shots {
		if v := f(s); !model.IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

func meanOf(shots []model.Shot, f func(model.Shot) float64) float64 {
	return mean(valuesOf(shots, f))
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return model.Missing()
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func std(vs []float64) float64 {
	if len(vs) == 0 {
		return model.Missing()
	}
	m := mean(vs)
	sum := 0.0
	for _, v := range vs {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(vs)))
}

func fairwayPct(drv []model.Shot, half float64) float64 {
	off := valuesOf(drv, func(s model.Shot) float64 { return s.Offline })
	if len(off) == 0 {
		return model.Missing()
	}
	in := 0
	for _, v := range off {
		if math.Abs(v) <= half {
			in++
		}
	}
	return float64(in) / float64(len(off)) * 100
}

// kpiF formats a KPI cell, "n/a" for missing.
func kpiF(v float64, prec int) string {
	if model.IsMissing(v) {
		return "n/a"
	}
	return strings.TrimSpace(fmt.Sprintf("%.*f", prec, v))
}

func kpiPct(v float64) string {
	if model.IsMissing(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", v)
}
