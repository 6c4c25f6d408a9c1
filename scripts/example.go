package main

import (
	"fmt"
	"log"

	"github.com/ctessum/geom"

	"github.com/kass/go-corridor/pkg/algebra"
	"github.com/kass/go-corridor/pkg/analyze"
	"github.com/kass/go-corridor/pkg/corridor"
	"github.com/kass/go-corridor/pkg/path"
	"github.com/kass/go-corridor/pkg/query"
)

func main() {
	// A route through a few points, in longitude/latitude order.
	route, err := path.FromPairs([][2]float64{
		{-3.7038, 40.4168}, // Madrid
		{-3.6800, 40.4300},
		{-3.6500, 40.4500},
		{-3.6000, 40.4700},
	})
	if err != nil {
		log.Fatal(err)
	}

	// Build a corridor 0.02 degrees wide around it.
	cfg := corridor.Config{Width: 0.02, Resolution: 16}
	c, err := corridor.Build(route, cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Corridor area: %.6f deg², boundary vertices: %d\n\n", c.Area(), len(c.Ring()))

	// Example 1: which probe points fall inside the corridor?
	probes := []geom.Point{
		{X: -3.69, Y: 40.425}, // near the route
		{X: -3.50, Y: 40.50},  // far away
	}
	res, err := query.Check(c, probes, query.ModeDetails)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Contained: %d of %d, indices %v\n", res.Details.Count, res.Details.Total, res.Details.Indices)
	fmt.Printf("Boundary distances: %v\n\n", res.Details.Distances)

	// Example 2: simplify the route and compare corridors.
	simplified, err := algebra.Simplify(route, 0.01)
	if err != nil {
		log.Fatal(err)
	}
	detailed, err := algebra.CompareDetailed(route, simplified, cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Simplified %d -> %d vertices, Jaccard overlap %.4f\n\n",
		route.Len(), simplified.Len(), detailed.Jaccard)

	// Example 3: statistics.
	stats := analyze.Statistics(route, c)
	fmt.Printf("Length %.6f, area %.6f, perimeter %.6f\n", stats.Length, stats.Area, stats.Perimeter)
	fmt.Printf("Bearings: %v\n", analyze.Bearing(route))
}
