package main

import (
	"fmt"
	"log"

	"github.com/geoanchor/rubbersheet"
	"github.com/geoanchor/rubbersheet/tin"
	"github.com/go-gl/mathgl/mgl64"
)

// SetupJob builds a small survey scenario: four control points measured in a
// drifted local frame (target) and re-surveyed in the trusted frame
// (standard), plus a handful of feature vertices to correct.
func SetupJob() (target, standard, features []tin.Point) {
	target = []tin.Point{
		{ID: 1, Coords: mgl64.Vec3{0, 0, 10.0}},
		{ID: 2, Coords: mgl64.Vec3{40, 5, 10.5}},
		{ID: 3, Coords: mgl64.Vec3{35, 42, 11.2}},
		{ID: 4, Coords: mgl64.Vec3{-3, 38, 10.8}},
	}
	// Same physical points, trusted positions: shifted, slightly rotated
	// and lifted.
	standard = []tin.Point{
		{ID: 1, Coords: mgl64.Vec3{100.0, 200.0, 12.0}},
		{ID: 2, Coords: mgl64.Vec3{139.8, 206.1, 12.4}},
		{ID: 3, Coords: mgl64.Vec3{133.9, 248.0, 13.3}},
		{ID: 4, Coords: mgl64.Vec3{96.6, 243.2, 12.9}},
	}
	features = []tin.Point{
		{ID: 100, Coords: mgl64.Vec3{10, 10, 10.2}},
		{ID: 101, Coords: mgl64.Vec3{20, 20, 10.6}},
		{ID: 102, Coords: mgl64.Vec3{30, 30, 11.0}},
		{ID: 103, Coords: mgl64.Vec3{500, 500, 0}}, // outside the TIN, stays put
	}
	return target, standard, features
}

func main() {
	target, standard, features := SetupJob()

	fmt.Println("Feature vertices before correction:")
	for _, f := range features {
		fmt.Printf("  #%d: %v\n", f.ID, f.Coords)
	}

	report, err := rubbersheet.Correct3D(target, standard, features, rubbersheet.Config{
		SplitUnitNumber: 2,
		Workers:         4,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Feature vertices after correction:")
	for _, f := range features {
		fmt.Printf("  #%d: %v\n", f.ID, f.Coords)
	}
	fmt.Printf("unlocated=%d degenerate=%d identical=%d\n",
		report.Unlocated, report.Degenerate, report.IdenticalTriangles)
}
