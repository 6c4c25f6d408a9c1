package query

import (
	"math/rand"
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/go-corridor/pkg/corridor"
	"github.com/kass/go-corridor/pkg/path"
)

func mustCorridor(t testing.TB, pairs [][2]float64, width float64) *corridor.Corridor {
	t.Helper()
	p, err := path.FromPairs(pairs)
	require.NoError(t, err)
	c, err := corridor.Build(p, corridor.Config{Width: width, Resolution: 16})
	require.NoError(t, err)
	return c
}

func TestCheckScenario(t *testing.T) {
	c := mustCorridor(t, [][2]float64{{0, 0}, {10, 0}}, 1)
	pts := []geom.Point{{X: 5, Y: 0.5}, {X: 5, Y: 5}}

	res, err := Check(c, pts, ModeContains)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, res.Contains)

	res, err = Check(c, pts, ModeCount)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)

	res, err = Check(c, pts, ModeWhich)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Indices)

	res, err = Check(c, pts, ModeAny)
	require.NoError(t, err)
	assert.True(t, res.Flag)

	res, err = Check(c, pts, ModeAll)
	require.NoError(t, err)
	assert.False(t, res.Flag)
}

// count == len(which), any == (count > 0), all == (count == len(points)).
func TestModeConsistency(t *testing.T) {
	c := mustCorridor(t, [][2]float64{{0, 0}, {10, 0}}, 1)
	r := rand.New(rand.NewSource(42))

	for run := 0; run < 5; run++ {
		pts := make([]geom.Point, 200)
		for i := range pts {
			pts[i] = geom.Point{X: r.Float64()*14 - 2, Y: r.Float64()*6 - 3}
		}
		count := Count(c, pts)
		which := Which(c, pts)
		assert.Equal(t, count, len(which))
		assert.Equal(t, count > 0, Any(c, pts))
		assert.Equal(t, count == len(pts), All(c, pts))
	}
}

// Large batches are evaluated in parallel; the result vector must still
// match a serial evaluation point for point.
func TestContainsPreservesOrder(t *testing.T) {
	c := mustCorridor(t, [][2]float64{{0, 0}, {10, 0}}, 1)
	r := rand.New(rand.NewSource(7))

	pts := make([]geom.Point, 5000)
	for i := range pts {
		pts[i] = geom.Point{X: r.Float64()*14 - 2, Y: r.Float64()*6 - 3}
	}
	flags := Contains(c, pts)
	require.Len(t, flags, len(pts))
	for i, pt := range pts {
		assert.Equal(t, c.Contains(pt), flags[i], "point %d", i)
	}
}

func TestDetails(t *testing.T) {
	c := mustCorridor(t, [][2]float64{{0, 0}, {10, 0}}, 1)
	pts := []geom.Point{{X: 5, Y: 0.5}, {X: 5, Y: 5}, {X: 0, Y: 0}}

	res, err := Check(c, pts, ModeDetails)
	require.NoError(t, err)
	d := res.Details
	require.NotNil(t, d)

	assert.Equal(t, 3, d.Total)
	assert.Equal(t, 2, d.Count)
	assert.Equal(t, []int{0, 2}, d.Indices)
	assert.Equal(t, []bool{true, false, true}, d.Contains)
	require.Len(t, d.Distances, 3)
	assert.LessOrEqual(t, d.MinDistance, d.MeanDistance)
	assert.LessOrEqual(t, d.MeanDistance, d.MaxDistance)
	// (5, 5) is four units above the y=1 boundary edge.
	assert.InDelta(t, 4.0, d.Distances[1], 0.01)
}

func TestCheckRejectsBatchModes(t *testing.T) {
	c := mustCorridor(t, [][2]float64{{0, 0}, {10, 0}}, 1)
	for _, mode := range []Mode{ModeMatrix, ModeSummary, Mode(99)} {
		_, err := Check(c, []geom.Point{{X: 0, Y: 0}}, mode)
		assert.ErrorIs(t, err, ErrUnknownMode, "mode %v", mode)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeContains, ModeAny, ModeAll, ModeCount, ModeWhich, ModeDetails, ModeMatrix, ModeSummary} {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	_, err := ParseMode("bogus")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, "Mode(99)", Mode(99).String())
}

func BenchmarkContains(b *testing.B) {
	c := mustCorridor(b, [][2]float64{{0, 0}, {10, 0}}, 1)
	r := rand.New(rand.NewSource(1))
	pts := make([]geom.Point, 10000)
	for i := range pts {
		pts[i] = geom.Point{X: r.Float64() * 12, Y: r.Float64()*4 - 2}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Contains(c, pts)
	}
}
