package path

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
)

// ErrUnparsable reports input that could not be normalized into a
// canonical point sequence.
var ErrUnparsable = errors.New("unparsable coordinates")

// The canonicalization boundary: heterogeneous input encodings are
// normalized here into the one Path type the core consumes. The core
// packages never branch on input shape.

var (
	bracketPairRe = regexp.MustCompile(`\[\s*(-?\d+\.?\d*)\s*,\s*(-?\d+\.?\d*)\s*\]`)
	barePairRe    = regexp.MustCompile(`(-?\d+\.?\d*)\s*,\s*(-?\d+\.?\d*)`)
)

// FromPairs builds a Path from (x, y) coordinate pairs.
func FromPairs(pairs [][2]float64) (*Path, error) {
	pts := make([]geom.Point, len(pairs))
	for i, c := range pairs {
		pts[i] = geom.Point{X: c[0], Y: c[1]}
	}
	return New(pts)
}

// FromFlat builds a Path from a flat [x0, y0, x1, y1, ...] slice.
func FromFlat(flat []float64) (*Path, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("%w: flat coordinate slice has odd length %d", ErrUnparsable, len(flat))
	}
	pts := make([]geom.Point, len(flat)/2)
	for i := range pts {
		pts[i] = geom.Point{X: flat[2*i], Y: flat[2*i+1]}
	}
	return New(pts)
}

// FromLineString builds a Path from a pre-built linear geometry.
func FromLineString(ls geom.LineString) (*Path, error) {
	return New([]geom.Point(ls))
}

// FromText extracts coordinate pairs from free-form text. Bracketed
// "[x, y]" pairs are preferred; otherwise any "x, y" number pairs are
// taken in order of appearance.
func FromText(s string) (*Path, error) {
	pts, err := PointsFromText(s)
	if err != nil {
		return nil, err
	}
	return New(pts)
}

// PointsFromText extracts coordinate pairs from free-form text without
// requiring enough of them to form a path. Query tooling uses it to read
// point batches.
func PointsFromText(s string) ([]geom.Point, error) {
	matches := bracketPairRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		matches = barePairRe.FindAllStringSubmatch(s, -1)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no coordinate pairs found in %q", ErrUnparsable, s)
	}
	pts := make([]geom.Point, len(matches))
	for i, m := range matches {
		x, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: pair %d: %v", ErrUnparsable, i, err)
		}
		y, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: pair %d: %v", ErrUnparsable, i, err)
		}
		pts[i] = geom.Point{X: x, Y: y}
	}
	return pts, nil
}

// FromGeoJSON builds a Path from GeoJSON text. Accepted shapes: a bare
// LineString or MultiPoint geometry, a Feature wrapping one, or a
// FeatureCollection whose features carry Point or LineString geometries
// (their coordinates are concatenated in feature order).
func FromGeoJSON(data []byte) (*Path, error) {
	var probe struct {
		Type     string            `json:"type"`
		Geometry *geojson.Geometry `json:"geometry"`
		Features []struct {
			Geometry *geojson.Geometry `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	switch probe.Type {
	case "Feature":
		if probe.Geometry == nil {
			return nil, fmt.Errorf("%w: feature has no geometry", ErrUnparsable)
		}
		return fromGeometry(probe.Geometry)
	case "FeatureCollection":
		var pts []geom.Point
		for i, f := range probe.Features {
			if f.Geometry == nil {
				return nil, fmt.Errorf("%w: feature %d has no geometry", ErrUnparsable, i)
			}
			g, err := geojson.FromGeoJSON(f.Geometry)
			if err != nil {
				return nil, fmt.Errorf("%w: feature %d: %v", ErrUnparsable, i, err)
			}
			switch t := g.(type) {
			case geom.Point:
				pts = append(pts, t)
			case geom.LineString:
				pts = append(pts, t...)
			default:
				return nil, fmt.Errorf("%w: feature %d has unsupported geometry type %q",
					ErrUnparsable, i, f.Geometry.Type)
			}
		}
		return New(pts)
	default:
		g, err := geojson.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
		}
		return fromGeom(g)
	}
}

func fromGeometry(g *geojson.Geometry) (*Path, error) {
	decoded, err := geojson.FromGeoJSON(g)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	return fromGeom(decoded)
}

func fromGeom(g geom.Geom) (*Path, error) {
	switch t := g.(type) {
	case geom.LineString:
		return New(t)
	case geom.MultiPoint:
		return New(t)
	default:
		return nil, fmt.Errorf("%w: unsupported geometry type %T", ErrUnparsable, g)
	}
}
