// Package rubbersheet implements TIN-based piecewise rubber-sheeting for
// georeferencing correction.
//
// Given two index-aligned ground-control-point sets (the correction
// targets in the frame to be fixed, the position standards in the trusted
// frame), a job triangulates the standard points once, locates
// every feature vertex inside a triangle, derives a per-triangle transform
// that maps the target triangle exactly onto the standard triangle, and
// applies it to the vertices assigned to that triangle. The 3D path adds a
// separate piecewise-linear vertical pass (see the zcorrect package for why
// the general transform is not reused there).
//
// All stages are pure, CPU-bound and in-memory; the job either runs to
// completion or fails as a whole. Feature vertices outside every triangle
// pass through untouched and are only counted.
package rubbersheet

import (
	"errors"
	"fmt"

	"github.com/geoanchor/rubbersheet/formula"
	"github.com/geoanchor/rubbersheet/locate"
	"github.com/geoanchor/rubbersheet/tin"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrConfig is returned when a correction job is started with an invalid
// configuration.
var ErrConfig = errors.New("rubbersheet: invalid configuration")

const DEFAULT_WORKERS = 1

// DEFAULT_SPLIT_UNIT is the locate-stage chunk size used when the
// configuration leaves it unset.
const DEFAULT_SPLIT_UNIT = 100

// Plane selects the coordinate pair the triangle transform operates on.
type Plane int

const (
	// PlaneXY corrects the horizontal coordinates.
	PlaneXY Plane = iota
	// PlaneXZ corrects the vertical plane; containment is still judged on
	// XY, only the transformed pair changes.
	PlaneXZ
)

// project extracts the plane's coordinate pair from a point.
func (pl Plane) project(p tin.Point) mgl64.Vec2 {
	if pl == PlaneXZ {
		return p.XZ()
	}
	return p.XY()
}

// update writes the plane's coordinate pair back into a point.
func (pl Plane) update(p *tin.Point, v mgl64.Vec2) {
	p.Coords[0] = v[0]
	if pl == PlaneXZ {
		p.Coords[2] = v[1]
	} else {
		p.Coords[1] = v[1]
	}
}

// Config tunes a correction job. The zero value is usable: XY plane,
// default chunk size, one worker.
type Config struct {
	// SplitUnitNumber is the chunk size of the locate fan-out. Zero falls
	// back to DEFAULT_SPLIT_UNIT, negative values are rejected. The result
	// never depends on it.
	SplitUnitNumber int
	// Workers bounds the goroutines of every parallel stage. Zero falls
	// back to DEFAULT_WORKERS, negative values are rejected.
	Workers int
	// Plane selects the coordinate pair Correct2D transforms. Correct3D
	// ignores it: its horizontal pass is always XY, followed by the
	// dedicated vertical correction.
	Plane Plane
}

func (c Config) withDefaults() (Config, error) {
	if c.SplitUnitNumber < 0 {
		return c, fmt.Errorf("%w: split unit number %d", ErrConfig, c.SplitUnitNumber)
	}
	if c.Workers < 0 {
		return c, fmt.Errorf("%w: workers %d", ErrConfig, c.Workers)
	}
	if c.SplitUnitNumber == 0 {
		c.SplitUnitNumber = DEFAULT_SPLIT_UNIT
	}
	if c.Workers == 0 {
		c.Workers = DEFAULT_WORKERS
	}
	return c, nil
}

// Report surfaces the conditions the correction deliberately tolerates.
// None of them abort the job; callers decide whether the counts are
// acceptable for their data.
type Report struct {
	// Unlocated counts feature vertices outside every triangle, passed
	// through unchanged.
	Unlocated int
	// Degenerate counts triangles whose transform involved a collapsed
	// edge or zero scale denominator; their transform is applied as-is.
	Degenerate int
	// IdenticalTriangles counts triangles skipped because target and
	// standard coordinates were bitwise equal on the working plane.
	IdenticalTriangles int
}

// Correct2D warps the features' coordinates on the configured plane so the
// target GCPs land on the standard GCPs. Containment is always judged on
// XY, whichever plane is being transformed. Features are mutated in place;
// ids and row order are preserved.
func Correct2D(target, standard, features []tin.Point, cfg Config) (Report, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return Report{}, err
	}

	t, err := tin.Build(target, standard)
	if err != nil {
		return Report{}, err
	}

	assigned := locateFeatures(t, features, cfg)
	report := applyPlane(t, features, assigned, cfg.Plane, cfg)
	return report, nil
}

// Correct3D runs the horizontal XY pass, then shifts z with the
// per-triangle piecewise-linear correction. The triangle assignment from
// the locate stage is reused unchanged for the vertical pass.
func Correct3D(target, standard, features []tin.Point, cfg Config) (Report, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return Report{}, err
	}

	t, err := tin.Build(target, standard)
	if err != nil {
		return Report{}, err
	}

	assigned := locateFeatures(t, features, cfg)
	report := applyPlane(t, features, assigned, PlaneXY, cfg)

	if err := applyZ(t, features, assigned, cfg); err != nil {
		return report, err
	}
	return report, nil
}

// locateFeatures builds the candidate index over the target triangles'
// XY projections and runs the chunked locate stage.
func locateFeatures(t *tin.Tin, features []tin.Point, cfg Config) []int {
	triangles := make([][3]mgl64.Vec2, len(t.Triangles))
	for i := range t.Triangles {
		tri := t.TargetOf(i)
		triangles[i] = [3]mgl64.Vec2{tri[0].XY(), tri[1].XY(), tri[2].XY()}
	}
	index := locate.NewIndex(triangles)
	return locateAll(features, index, cfg.SplitUnitNumber, cfg.Workers)
}

// applyPlane solves one formula per triangle and applies it to every
// assigned vertex on the selected plane. Formulas are solved in parallel
// into pre-sized slots; vertex updates are row-local, so both stages run
// without locking.
func applyPlane(t *tin.Tin, features []tin.Point, assigned []int, plane Plane, cfg Config) Report {
	formulas := make([]formula.Formula, len(t.Triangles))
	skip := make([]bool, len(t.Triangles))

	task(cfg.Workers, len(t.Triangles), func(i int) {
		tgt := projectTriangle(t.TargetOf(i), plane)
		std := projectTriangle(t.StandardOf(i), plane)
		if formula.Identical(tgt, std) {
			skip[i] = true
			return
		}
		formulas[i] = formula.Solve(tgt, std)
	})

	task(cfg.Workers, len(features), func(i int) {
		ti := assigned[i]
		if ti == locate.NotFound || skip[ti] {
			return
		}
		plane.update(&features[i], formulas[ti].Apply(plane.project(features[i])))
	})

	var report Report
	for _, ti := range assigned {
		if ti == locate.NotFound {
			report.Unlocated++
		}
	}
	for i := range formulas {
		if skip[i] {
			report.IdenticalTriangles++
		} else if formulas[i].Degenerate {
			report.Degenerate++
		}
	}
	return report
}

// projectTriangle extracts a triangle's coordinate pairs for the plane.
func projectTriangle(tri [3]tin.Point, plane Plane) [3]mgl64.Vec2 {
	return [3]mgl64.Vec2{plane.project(tri[0]), plane.project(tri[1]), plane.project(tri[2])}
}
