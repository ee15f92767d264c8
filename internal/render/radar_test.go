package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/idea-validator/internal/models"
)

func dims(scores ...int) []models.DimensionScore {
	out := make([]models.DimensionScore, len(scores))
	for i, s := range scores {
		out[i] = models.DimensionScore{Name: string(rune('A' + i)), Score: s}
	}
	return out
}

func TestNewRadar_FiveAxes(t *testing.T) {
	r := NewRadar(dims(100, 80, 60, 40, 20))

	require.Len(t, r.Axes, 5)
	assert.Equal(t, Point{X: 150, Y: 150}, r.Center)
	assert.InDelta(t, 105.0, r.Radius, 1e-9)

	// Axis 0 points straight up.
	first := r.Axes[0]
	assert.InDelta(t, 150.0, first.End.X, 1e-9)
	assert.InDelta(t, 45.0, first.End.Y, 1e-9)
	assert.InDelta(t, first.End.X, first.Value.X, 1e-9)
	assert.InDelta(t, first.End.Y, first.Value.Y, 1e-9)
	assert.Less(t, first.LabelAt.Y, first.End.Y)

	// The rest go clockwise, so axis 1 sits right of center.
	assert.Greater(t, r.Axes[1].End.X, 150.0)

	assert.Len(t, r.Grid, 4)
	assert.Empty(t, r.GridRadii)
	assert.Len(t, strings.Fields(r.Polygon), 5)
	assert.True(t, strings.HasPrefix(r.Polygon, "150.00,45.00 "))
}

func TestNewRadar_FourAxesQuarterTurns(t *testing.T) {
	r := NewRadar(dims(100, 100, 100, 100))

	require.Len(t, r.Axes, 4)
	assert.InDelta(t, 255.0, r.Axes[1].End.X, 1e-9)
	assert.InDelta(t, 150.0, r.Axes[1].End.Y, 1e-9)
	assert.InDelta(t, 150.0, r.Axes[2].End.X, 1e-9)
	assert.InDelta(t, 255.0, r.Axes[2].End.Y, 1e-9)
	assert.InDelta(t, 45.0, r.Axes[3].End.X, 1e-9)
}

func TestNewRadar_ScoresAreClamped(t *testing.T) {
	r := NewRadar(dims(150, -20, 0))

	assert.Equal(t, r.Axes[0].End, r.Axes[0].Value)
	assert.Equal(t, r.Center, r.Axes[1].Value)
	assert.Equal(t, r.Center, r.Axes[2].Value)
	// The raw score is kept for labelling.
	assert.Equal(t, 150, r.Axes[0].Score)
}

func TestNewRadar_FewAxesUseCircles(t *testing.T) {
	r := NewRadar(dims(70, 30))

	assert.Nil(t, r.Grid)
	assert.Equal(t, []float64{26.25, 52.5, 78.75, 105}, r.GridRadii)
	assert.Len(t, r.Axes, 2)
}

func TestNewRadar_Empty(t *testing.T) {
	r := NewRadar(nil)

	assert.Empty(t, r.Axes)
	assert.Empty(t, r.Polygon)
	assert.Nil(t, r.Grid)
	assert.Nil(t, r.GridRadii)
}
