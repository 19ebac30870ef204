package stats

import (
	"math"

	"github.com/sells-group/media-explorer/internal/model"
)

// Point is one (x, y) observation.
type Point struct {
	X, Y float64
}

// Regress fits y = slope*x + intercept by ordinary least squares. Points
// with a non-finite coordinate are ignored. It returns nil ("no trend")
// when fewer than two points remain or every x is identical.
//
// R² is clamped to [0, 1]. Constant y values are fitted exactly by a flat
// line and report R² = 1.
func Regress(points []Point) *model.Regression {
	valid := make([]Point, 0, len(points))
	for _, p := range points {
		if finite(p.X) && finite(p.Y) {
			valid = append(valid, p)
		}
	}
	n := float64(len(valid))
	if len(valid) < 2 {
		return nil
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range valid {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 || !finite(denom) {
		return nil
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	yMean := sumY / n
	var ssTotal, ssRes float64
	for _, p := range valid {
		d := p.Y - yMean
		ssTotal += d * d
		r := p.Y - (slope*p.X + intercept)
		ssRes += r * r
	}

	r2 := 1.0
	if ssTotal > 0 {
		r2 = 1 - ssRes/ssTotal
	}
	r2 = math.Max(0, math.Min(1, r2))

	return &model.Regression{
		Slope:     slope,
		Intercept: intercept,
		R2:        r2,
		N:         len(valid),
	}
}

// RegressRecords fits rating against a numeric attribute.
func RegressRecords(records []model.FlatRecord, x model.Attribute) *model.Regression {
	points := make([]Point, 0, len(records))
	for _, r := range records {
		v, ok := r.Numeric(x)
		if !ok {
			return nil
		}
		points = append(points, Point{X: v, Y: r.Rating})
	}
	return Regress(points)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
