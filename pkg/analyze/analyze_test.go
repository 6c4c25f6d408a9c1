package analyze

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/go-corridor/pkg/corridor"
	"github.com/kass/go-corridor/pkg/path"
)

func mustPath(t testing.TB, pairs [][2]float64) *path.Path {
	t.Helper()
	p, err := path.FromPairs(pairs)
	require.NoError(t, err)
	return p
}

func TestStatistics(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {10, 0}})
	c, err := corridor.Build(p, corridor.Config{Width: 1, Resolution: 16})
	require.NoError(t, err)

	stats := Statistics(p, c)
	assert.InDelta(t, 10.0, stats.Length, 1e-12)
	assert.InDelta(t, 10*2+math.Pi, stats.Area, 0.05)
	assert.InDelta(t, 2*10+2*math.Pi, stats.Perimeter, 0.1)
	assert.Equal(t, 2, stats.VertexCount)
	require.NotNil(t, stats.Bounds)
	assert.InDelta(t, -1, stats.Bounds.Min.Y, 0.01)
	assert.InDelta(t, 5, stats.Centroid.X, 0.01)
	assert.InDelta(t, 0, stats.Centroid.Y, 0.01)
}

func TestGradient(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {1, 1}, {2, -1}, {2, 5}, {2, -3}})

	g := Gradient(p)
	require.Len(t, g, 4)
	assert.InDelta(t, 1.0, g[0], 1e-12)
	assert.InDelta(t, -2.0, g[1], 1e-12)
	assert.True(t, math.IsInf(g[2], 1), "upward vertical segment")
	assert.True(t, math.IsInf(g[3], -1), "downward vertical segment")
}

func TestBearing(t *testing.T) {
	// North, east, south, west.
	p := mustPath(t, [][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}})

	b := Bearing(p)
	require.Len(t, b, 4)
	assert.InDelta(t, 0, b[0], 1e-9)
	assert.InDelta(t, 90, b[1], 1e-9)
	assert.InDelta(t, 180, b[2], 1e-9)
	assert.InDelta(t, 270, b[3], 1e-9)
}

func TestBearingDiagonal(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {1, 1}})
	b := Bearing(p)
	require.Len(t, b, 1)
	assert.InDelta(t, 45, b[0], 1e-9)
}
