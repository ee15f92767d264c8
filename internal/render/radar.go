package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/BerylCAtieno/idea-validator/internal/models"
)

const (
	RadarMax    = 100
	radarSize   = 300.0
	radarRadius = radarSize / 2 * 0.7
)

var radarRings = []float64{25, 50, 75, 100}

type Point struct {
	X float64
	Y float64
}

type RadarAxis struct {
	Label   string
	Score   int
	End     Point
	LabelAt Point
	Value   Point
}

// Radar is the geometry of the dimension chart: one axis per dimension, each
// bounded by RadarMax, axis 0 pointing up, the rest clockwise.
type Radar struct {
	Size    float64
	Center  Point
	Radius  float64
	Axes    []RadarAxis
	Polygon string
	// Grid holds one polygon per ring when there are at least three axes.
	Grid []string
	// GridRadii is used instead of Grid for fewer than three axes.
	GridRadii []float64
}

func NewRadar(dims []models.DimensionScore) Radar {
	center := Point{X: radarSize / 2, Y: radarSize / 2}
	r := Radar{
		Size:   radarSize,
		Center: center,
		Radius: radarRadius,
		Axes:   make([]RadarAxis, 0, len(dims)),
	}

	n := len(dims)
	values := make([]Point, 0, n)
	for i, d := range dims {
		score := clampScore(d.Score)
		axis := RadarAxis{
			Label:   d.Name,
			Score:   d.Score,
			End:     polar(center, radarRadius, i, n),
			LabelAt: polar(center, radarRadius+18, i, n),
			Value:   polar(center, radarRadius*float64(score)/RadarMax, i, n),
		}
		r.Axes = append(r.Axes, axis)
		values = append(values, axis.Value)
	}
	r.Polygon = joinPoints(values)

	if n >= 3 {
		for _, ring := range radarRings {
			pts := make([]Point, n)
			for i := range pts {
				pts[i] = polar(center, radarRadius*ring/RadarMax, i, n)
			}
			r.Grid = append(r.Grid, joinPoints(pts))
		}
	} else if n > 0 {
		for _, ring := range radarRings {
			r.GridRadii = append(r.GridRadii, radarRadius*ring/RadarMax)
		}
	}
	return r
}

func polar(center Point, radius float64, i, n int) Point {
	angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	return Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

func joinPoints(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > RadarMax {
		return RadarMax
	}
	return v
}
