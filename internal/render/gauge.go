package render

import "math"

type Band string

const (
	BandLow  Band = "low"
	BandMid  Band = "mid"
	BandHigh Band = "high"
)

const (
	gaugeRadius = 50.0
	gaugeStroke = 8.0
)

// Gauge is the geometry of the circular score indicator. Scores are expected
// in [0,100].
type Gauge struct {
	Score            float64
	Display          int
	Label            string
	Radius           float64
	Stroke           float64
	NormalizedRadius float64
	Circumference    float64
	DashOffset       float64
	Band             Band
	Color            string
}

func NewGauge(score float64, label string) Gauge {
	normalized := gaugeRadius - gaugeStroke*2
	circumference := normalized * 2 * math.Pi
	band := BandFor(score)

	return Gauge{
		Score:            score,
		Display:          int(math.Round(score)),
		Label:            label,
		Radius:           gaugeRadius,
		Stroke:           gaugeStroke,
		NormalizedRadius: normalized,
		Circumference:    circumference,
		DashOffset:       circumference - score/100*circumference,
		Band:             band,
		Color:            bandColors[band],
	}
}

func BandFor(score float64) Band {
	switch {
	case score >= 80:
		return BandHigh
	case score < 40:
		return BandLow
	default:
		return BandMid
	}
}

var bandColors = map[Band]string{
	BandLow:  "#ef4444",
	BandMid:  "#eab308",
	BandHigh: "#22c55e",
}
