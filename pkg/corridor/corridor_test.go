package corridor

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/go-corridor/pkg/path"
)

func mustPath(t testing.TB, pairs [][2]float64) *path.Path {
	t.Helper()
	p, err := path.FromPairs(pairs)
	require.NoError(t, err)
	return p
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Width: 1, Resolution: 16}, false},
		{"minimal resolution", Config{Width: 0.5, Resolution: 1}, false},
		{"zero width", Config{Width: 0, Resolution: 16}, true},
		{"negative width", Config{Width: -2, Resolution: 16}, true},
		{"zero resolution", Config{Width: 1, Resolution: 0}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrDegenerateBuffer)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildRejectsDegenerateConfig(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {10, 0}})
	_, err := Build(p, Config{Width: 0, Resolution: 16})
	assert.ErrorIs(t, err, ErrDegenerateBuffer)
}

// A straight two-point path buffered by w is a stadium: a 2w-wide
// rectangle plus two half disks. Area = length*2w + pi*w^2, up to the
// resolution-dependent arc approximation.
func TestBuildStadiumArea(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {10, 0}})
	c, err := Build(p, Config{Width: 1, Resolution: 16})
	require.NoError(t, err)

	assert.InDelta(t, 10*2+math.Pi, c.Area(), 0.05)
	assert.InDelta(t, 2*10+2*math.Pi, c.Perimeter(), 0.1)
}

func TestBuildTwoPointPathCloses(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {10, 0}})
	c, err := Build(p, Config{Width: 1, Resolution: 4})
	require.NoError(t, err)

	ring := c.Ring()
	require.Greater(t, len(ring), 3)
	assert.Equal(t, ring[0], ring[len(ring)-1], "boundary ring must be closed")
	assert.Greater(t, c.Area(), 0.0)
}

func TestBuildVertexContainment(t *testing.T) {
	testCases := []struct {
		name  string
		pairs [][2]float64
	}{
		{"straight", [][2]float64{{0, 0}, {10, 0}}},
		{"zigzag", [][2]float64{{0, 0}, {2, 3}, {4, -1}, {7, 2}, {10, 0}}},
		{"sharp turn", [][2]float64{{0, 0}, {5, 0}, {0, 0.5}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustPath(t, tc.pairs)
			c, err := Build(p, Config{Width: 0.8, Resolution: 8})
			require.NoError(t, err)
			for i, pt := range p.Points() {
				assert.True(t, c.Contains(pt), "vertex %d must be inside the corridor", i)
			}
		})
	}
}

func TestContainsScenario(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {10, 0}})
	c, err := Build(p, Config{Width: 1, Resolution: 16})
	require.NoError(t, err)

	assert.True(t, c.Contains(geom.Point{X: 5, Y: 0.5}))
	assert.False(t, c.Contains(geom.Point{X: 5, Y: 5}))
}

// Boundary policy: points exactly on the corridor boundary count as
// contained (closed-set semantics).
func TestContainsBoundaryClosedSet(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {10, 0}})
	c, err := Build(p, Config{Width: 1, Resolution: 16})
	require.NoError(t, err)

	for _, i := range []int{0, 1, len(c.Ring()) / 2} {
		pt := c.Ring()[i]
		assert.True(t, c.Contains(pt), "ring vertex %d must count as contained", i)
		assert.InDelta(t, 0, c.BoundaryDistance(pt), 1e-12)
	}
}

// A closed square loop buffered with a small width encloses a hole. The
// clipper may keep a single ring for the union yet hand back the hole
// itself, with every source vertex outside; the builder must report the
// geometry as invalid instead of returning that ring.
func TestBuildSelfIntersectingLoop(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}})
	c, err := Build(p, Config{Width: 0.5, Resolution: 8})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	assert.Nil(t, c)
}

func TestBoundaryDistance(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {10, 0}})
	c, err := Build(p, Config{Width: 1, Resolution: 16})
	require.NoError(t, err)

	// The path centerline is one width away from the boundary.
	assert.InDelta(t, 1.0, c.BoundaryDistance(geom.Point{X: 5, Y: 0}), 0.01)
	// A point two widths out is one width from the boundary.
	assert.InDelta(t, 1.0, c.BoundaryDistance(geom.Point{X: 5, Y: 2}), 0.01)
}

func TestScaledArea(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {10, 0}})
	c, err := Build(p, Config{Width: 1, Resolution: 16})
	require.NoError(t, err)
	assert.InDelta(t, c.Area()*12345.6, c.ScaledArea(12345.6), 1e-9)
}

func TestAccessors(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {10, 0}})
	cfg := Config{Width: 1, Resolution: 16}
	c, err := Build(p, cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg, c.Config())
	assert.Same(t, p, c.Source())

	b := c.Bounds()
	assert.InDelta(t, -1, b.Min.X, 0.01)
	assert.InDelta(t, 11, b.Max.X, 0.01)
	assert.InDelta(t, -1, b.Min.Y, 0.01)
	assert.InDelta(t, 1, b.Max.Y, 0.01)

	centroid := c.Centroid()
	assert.InDelta(t, 5, centroid.X, 0.01)
	assert.InDelta(t, 0, centroid.Y, 0.01)

	g, err := c.Geometry()
	require.NoError(t, err)
	assert.Equal(t, "Polygon", g.Type)
}

func TestRingReturnsCopy(t *testing.T) {
	p := mustPath(t, [][2]float64{{0, 0}, {10, 0}})
	c, err := Build(p, Config{Width: 1, Resolution: 4})
	require.NoError(t, err)

	ring := c.Ring()
	ring[0] = geom.Point{X: 1e9, Y: 1e9}
	assert.NotEqual(t, ring[0], c.Ring()[0])
}

func BenchmarkBuild(b *testing.B) {
	pairs := make([][2]float64, 100)
	for i := range pairs {
		pairs[i] = [2]float64{float64(i), math.Sin(float64(i) / 5)}
	}
	p := mustPath(b, pairs)
	cfg := Config{Width: 0.5, Resolution: 8}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Build(p, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
