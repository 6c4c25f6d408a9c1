package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ctessum/geom/encoding/geojson"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kass/go-corridor/pkg/algebra"
	"github.com/kass/go-corridor/pkg/analyze"
	"github.com/kass/go-corridor/pkg/corridor"
	"github.com/kass/go-corridor/pkg/path"
	"github.com/kass/go-corridor/pkg/query"
)

var (
	verbose    bool
	width      float64
	resolution int

	inputArg    string
	outputArg   string
	checkInputs []string
	pointsArg   string
	modeArg     string

	compareA        string
	compareB        string
	compareDetailed bool
)

var rootCmd = &cobra.Command{
	Use:   "go-corridor",
	Short: "Corridor geometry engine for geospatial paths",
	Long: `Build smoothed buffer corridors around geospatial paths and run
containment, comparison, and statistics queries against them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a corridor and emit it as GeoJSON",
	Run:   runBuild,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check points against one or more corridors",
	Long: `Evaluate a point batch against the corridors of one or more paths.
Single-corridor modes: contains, any, all, count, which, details.
Multi-corridor modes (repeat --input): matrix, summary.`,
	Run: runCheck,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print path and corridor statistics",
	Run:   runStats,
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two paths structurally",
	Run:   runCompare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Float64VarP(&width, "width", "w", 0.02, "Buffer width in coordinate units")
	rootCmd.PersistentFlags().IntVarP(&resolution, "resolution", "r", 16, "Arc samples per quarter circle")

	buildCmd.Flags().StringVarP(&inputArg, "input", "i", "", "Path input: file or inline coordinates (GeoJSON or text)")
	buildCmd.Flags().StringVarP(&outputArg, "output", "o", "", "Output file (default stdout)")

	checkCmd.Flags().StringArrayVarP(&checkInputs, "input", "i", nil, "Path input, repeatable: file or inline coordinates")
	checkCmd.Flags().StringVarP(&pointsArg, "points", "p", "", "Points to check, e.g. \"5,0.5; 5,5\" or a file")
	checkCmd.Flags().StringVarP(&modeArg, "mode", "m", "contains", "Aggregation mode")

	statsCmd.Flags().StringVarP(&inputArg, "input", "i", "", "Path input: file or inline coordinates")

	compareCmd.Flags().StringVarP(&compareA, "first", "a", "", "First path input")
	compareCmd.Flags().StringVarP(&compareB, "second", "b", "", "Second path input")
	compareCmd.Flags().BoolVarP(&compareDetailed, "detailed", "d", false, "Include corridor area comparison")

	rootCmd.AddCommand(buildCmd, checkCmd, statsCmd, compareCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readPath resolves an --input value: a file path is read first, then the
// content (or the inline value itself) is parsed as GeoJSON when it looks
// like JSON and as coordinate text otherwise.
func readPath(input string) (*path.Path, error) {
	if input == "" {
		return nil, fmt.Errorf("no path input given")
	}
	text := input
	if data, err := os.ReadFile(input); err == nil {
		logrus.Debugf("read %d bytes from %s", len(data), input)
		text = string(data)
	}
	if strings.HasPrefix(strings.TrimSpace(text), "{") {
		return path.FromGeoJSON([]byte(text))
	}
	return path.FromText(text)
}

func buildCorridor(p *path.Path) (*corridor.Corridor, error) {
	cfg := corridor.Config{Width: width, Resolution: resolution}
	return corridor.Build(p, cfg)
}

type feature struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties map[string]any    `json:"properties"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

func runBuild(cmd *cobra.Command, args []string) {
	p, err := readPath(inputArg)
	if err != nil {
		logrus.Fatalf("parse path: %v", err)
	}
	c, err := buildCorridor(p)
	if err != nil {
		logrus.Fatalf("build corridor: %v", err)
	}
	logrus.Debugf("corridor: %d boundary vertices, area %g", len(c.Ring()), c.Area())

	corridorGeom, err := c.Geometry()
	if err != nil {
		logrus.Fatalf("encode corridor: %v", err)
	}
	pathGeom, err := p.Geometry()
	if err != nil {
		logrus.Fatalf("encode path: %v", err)
	}
	fc := featureCollection{
		Type: "FeatureCollection",
		Features: []feature{
			{
				Type:     "Feature",
				Geometry: corridorGeom,
				Properties: map[string]any{
					"kind":       "corridor",
					"width":      width,
					"resolution": resolution,
					"area":       c.Area(),
				},
			},
			{
				Type:     "Feature",
				Geometry: pathGeom,
				Properties: map[string]any{
					"kind":     "path",
					"vertices": p.Len(),
					"length":   p.Length(),
				},
			},
		},
	}
	out, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		logrus.Fatalf("marshal: %v", err)
	}
	if outputArg == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(outputArg, out, 0o644); err != nil {
		logrus.Fatalf("write %s: %v", outputArg, err)
	}
	logrus.Infof("wrote %s", outputArg)
}

func runCheck(cmd *cobra.Command, args []string) {
	out, err := checkPoints(checkInputs, pointsArg, modeArg)
	if err != nil {
		logrus.Fatalf("check: %v", err)
	}
	printJSON(out)
}

// checkPoints evaluates a point batch against the corridors of the given
// path inputs. A single input uses the single-corridor aggregation modes;
// more than one dispatches to the multi-corridor matrix/summary modes.
func checkPoints(inputs []string, pointsInput, modeName string) (map[string]any, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no path input given")
	}
	corridors := make([]*corridor.Corridor, len(inputs))
	for i, in := range inputs {
		p, err := readPath(in)
		if err != nil {
			return nil, fmt.Errorf("parse path %d: %w", i, err)
		}
		if corridors[i], err = buildCorridor(p); err != nil {
			return nil, fmt.Errorf("build corridor %d: %w", i, err)
		}
	}

	pointsText := pointsInput
	if data, err := os.ReadFile(pointsInput); err == nil {
		pointsText = string(data)
	}
	pts, err := path.PointsFromText(pointsText)
	if err != nil {
		return nil, fmt.Errorf("parse points: %w", err)
	}
	mode, err := query.ParseMode(modeName)
	if err != nil {
		return nil, err
	}

	if len(corridors) > 1 {
		res, err := query.CheckPointsInBuffers(pts, corridors, mode)
		if err != nil {
			return nil, err
		}
		out := map[string]any{"mode": res.Mode.String()}
		switch res.Mode {
		case query.ModeMatrix:
			out["matrix"] = res.Matrix
		case query.ModeSummary:
			out["summary"] = res.Summary
		}
		return out, nil
	}

	res, err := query.Check(corridors[0], pts, mode)
	if err != nil {
		return nil, err
	}
	return resultMap(res), nil
}

func resultMap(res query.Result) map[string]any {
	out := map[string]any{"mode": res.Mode.String()}
	switch res.Mode {
	case query.ModeContains:
		out["contains"] = res.Contains
	case query.ModeAny, query.ModeAll:
		out["result"] = res.Flag
	case query.ModeCount:
		out["count"] = res.Count
	case query.ModeWhich:
		out["indices"] = res.Indices
	case query.ModeDetails:
		out["details"] = res.Details
	}
	return out
}

func printJSON(v any) {
	enc, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logrus.Fatalf("marshal: %v", err)
	}
	fmt.Println(string(enc))
}

func runStats(cmd *cobra.Command, args []string) {
	p, err := readPath(inputArg)
	if err != nil {
		logrus.Fatalf("parse path: %v", err)
	}
	c, err := buildCorridor(p)
	if err != nil {
		logrus.Fatalf("build corridor: %v", err)
	}
	s := analyze.Statistics(p, c)

	fmt.Printf("Vertices:        %d\n", s.VertexCount)
	fmt.Printf("Path length:     %.6f\n", s.Length)
	fmt.Printf("Corridor area:   %.6f\n", s.Area)
	fmt.Printf("Perimeter:       %.6f\n", s.Perimeter)
	fmt.Printf("Bounds:          (%.6f, %.6f) - (%.6f, %.6f)\n",
		s.Bounds.Min.X, s.Bounds.Min.Y, s.Bounds.Max.X, s.Bounds.Max.Y)
	fmt.Printf("Centroid:        (%.6f, %.6f)\n", s.Centroid.X, s.Centroid.Y)
	if verbose {
		fmt.Printf("Gradient:        %v\n", analyze.Gradient(p))
		fmt.Printf("Bearing:         %v\n", analyze.Bearing(p))
	}
}

func runCompare(cmd *cobra.Command, args []string) {
	a, err := readPath(compareA)
	if err != nil {
		logrus.Fatalf("parse first path: %v", err)
	}
	b, err := readPath(compareB)
	if err != nil {
		logrus.Fatalf("parse second path: %v", err)
	}

	var out any
	if compareDetailed {
		cfg := corridor.Config{Width: width, Resolution: resolution}
		detailed, err := algebra.CompareDetailed(a, b, cfg)
		if err != nil {
			logrus.Fatalf("compare: %v", err)
		}
		out = detailed
	} else {
		out = algebra.Compare(a, b)
	}
	printJSON(out)
}
