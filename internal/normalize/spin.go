package normalize

import (
	"math"

	"github.com/coachlab/golfmetrics/internal/model"
)

// DeriveSpin computes the spin decomposition for every shot:
//
//	SpinTotal = BackSpin / cos(SpinAxis)
//	SpinLat   = SpinTotal * sin(SpinAxis)
//
// with SpinAxis in degrees. Derived values are always recomputed and
// overwrite anything supplied upstream. A spin axis at exactly ±90° has
// no decomposition; both outputs stay missing for that row. If the
// export carried no BackSpin or no SpinAxis column at all, the table
// passes through unchanged.
func DeriveSpin(shots []model.Shot, cols Columns) {
	if !cols["BackSpin"] || !cols["SpinAxis"] {
		return
	}
	for i := range shots {
		shots[i].SpinTotal, shots[i].SpinLat = spinFrom(shots[i].BackSpin, shots[i].SpinAxis)
	}
}

func spinFrom(backSpin, axisDeg float64) (total, lat float64) {
	if model.IsMissing(backSpin) || model.IsMissing(axisDeg) {
		return model.Missing(), model.Missing()
	}
	rad := axisDeg * math.Pi / 180
	cos := math.Cos(rad)
	if cos == 0 || axisIsDegenerate(axisDeg) {
		return model.Missing(), model.Missing()
	}
	total = backSpin / cos
	lat = total * math.Sin(rad)
	return total, lat
}

// axisIsDegenerate guards the exact ±90° inputs whose cosine does not
// round to zero in floating point.
func axisIsDegenerate(axisDeg float64) bool {
	m := math.Mod(math.Abs(axisDeg), 360)
	return m == 90 || m == 270
}
