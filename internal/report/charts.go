package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/coachlab/golfmetrics/internal/model"
)

var (
	dotBlue   = drawing.Color{R: 42, G: 90, B: 180, A: 255}
	dotOrange = drawing.Color{R: 230, G: 130, B: 30, A: 255}
	bandGray  = drawing.Color{R: 120, G: 120, B: 120, A: 255}
)

// xyOf collects paired, non-missing values from shots.
func xyOf(shots []model.Shot, fx, fy func(model.Shot) float64) (xs, ys []float64) {
	for _, s := range shots {
		x, y := fx(s), fy(s)
		if model.IsMissing(x) || model.IsMissing(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

func scatterSeries(name string, xs, ys []float64, c drawing.Color) chart.Series {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    4,
			DotColor:    c,
		},
	}
}

// hline draws a horizontal guide across the x-range of the data.
func hline(y float64, xs []float64, c drawing.Color) chart.Series {
	if len(xs) == 0 {
		return chart.ContinuousSeries{}
	}
	min, max := xs[0], xs[0]
	for _, x := range xs {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return chart.ContinuousSeries{
		XValues: []float64{min, max},
		YValues: []float64{y, y},
		Style:   chart.Style{StrokeWidth: 1, StrokeColor: c},
	}
}

func renderPNG(c chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// dispersionChart plots carry vs offline for driver shots with the
// fairway band marked.
func dispersionChart(shots []model.Shot, fairwayHalf float64) ([]byte, error) {
	xs, ys := xyOf(shots,
		func(s model.Shot) float64 { return s.Carry },
		func(s model.Shot) float64 { return s.Offline })
	if len(xs) == 0 {
		return nil, fmt.Errorf("no carry/offline pairs to plot")
	}
	graph := chart.Chart{
		Title:  "Driver — Carry vs Offline",
		Width:  720,
		Height: 420,
		XAxis:  chart.XAxis{Name: "Carry (m)"},
		YAxis:  chart.YAxis{Name: "Offline (m)"},
		Series: []chart.Series{
			hline(fairwayHalf, xs, bandGray),
			hline(-fairwayHalf, xs, bandGray),
			hline(0, xs, bandGray),
			scatterSeries("shots", xs, ys, dotBlue),
		},
	}
	return renderPNG(graph)
}

// smashChart plots smash factor against carry.
func smashChart(shots []model.Shot) ([]byte, error) {
	xs, ys := xyOf(shots,
		func(s model.Shot) float64 { return s.Smash },
		func(s model.Shot) float64 { return s.Carry })
	if len(xs) == 0 {
		return nil, fmt.Errorf("no smash/carry pairs to plot")
	}
	graph := chart.Chart{
		Title:  "Impact efficiency — Smash vs Carry",
		Width:  720,
		Height: 360,
		XAxis:  chart.XAxis{Name: "Smash factor"},
		YAxis:  chart.YAxis{Name: "Carry (m)"},
		Series: []chart.Series{scatterSeries("shots", xs, ys, dotBlue)},
	}
	return renderPNG(graph)
}

// launchChart plots one launch angle against carry.
func launchChart(shots []model.Shot, angle func(model.Shot) float64, name string) ([]byte, error) {
	xs, ys := xyOf(shots, func(s model.Shot) float64 { return s.Carry }, angle)
	if len(xs) == 0 {
		return nil, fmt.Errorf("no carry/%s pairs to plot", name)
	}
	graph := chart.Chart{
		Title:  fmt.Sprintf("Launch — %s vs Carry", name),
		Width:  720,
		Height: 360,
		XAxis:  chart.XAxis{Name: "Carry (m)"},
		YAxis:  chart.YAxis{Name: name + " (deg)"},
		Series: []chart.Series{
			hline(0, xs, bandGray),
			scatterSeries("shots", xs, ys, dotBlue),
		},
	}
	return renderPNG(graph)
}

// spinChart plots backspin and lateral spin against carry.
func spinChart(shots []model.Shot) ([]byte, error) {
	bx, by := xyOf(shots,
		func(s model.Shot) float64 { return s.Carry },
		func(s model.Shot) float64 { return s.BackSpin })
	lx, ly := xyOf(shots,
		func(s model.Shot) float64 { return s.Carry },
		func(s model.Shot) float64 { return s.SpinLat })
	if len(bx) == 0 && len(lx) == 0 {
		return nil, fmt.Errorf("no spin values to plot")
	}
	series := []chart.Series{}
	if len(bx) > 0 {
		series = append(series, scatterSeries("BackSpin", bx, by, dotBlue))
	}
	if len(lx) > 0 {
		series = append(series, hline(0, lx, bandGray), scatterSeries("SpinLat", lx, ly, dotOrange))
	}
	graph := chart.Chart{
		Title:  "Driver spin — backspin & lateral",
		Width:  720,
		Height: 360,
		XAxis:  chart.XAxis{Name: "Carry (m)"},
		YAxis:  chart.YAxis{Name: "Spin (rpm)"},
		Series: series,
	}
	return renderPNG(graph)
}

// rankBarChart renders one bar per alias for a group metric.
func rankBarChart(title string, labels []string, values []float64) ([]byte, error) {
	var bars []chart.Value
	for i, v := range values {
		if model.IsMissing(v) {
			continue
		}
		bars = append(bars, chart.Value{Value: v, Label: labels[i]})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no values to rank")
	}
	bc := chart.BarChart{
		Title:    title,
		Width:    720,
		Height:   320,
		BarWidth: 60,
		Bars:     bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
