// Package tin builds the triangulated irregular network shared by both
// ground-control-point (GCP) sets of a rubber-sheeting job.
//
// The triangulation is computed once, from the XY coordinates of the
// position-standard GCPs, and the resulting vertex-index triples are applied
// to the correction-target GCPs as well. Both views therefore have identical
// triangle count and per-triangle vertex order; every later stage of the
// correction relies on that shared topology.
package tin

import (
	"errors"
	"fmt"

	"github.com/fogleman/delaunay"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrConstruction is returned when no triangulation can be built from the
// control points: mismatched set lengths, fewer than 3 points, or all
// standard points collinear. It aborts the whole correction job.
var ErrConstruction = errors.New("tin: construction failed")

// Point is a control point or feature vertex. ID is caller-supplied
// bookkeeping and never influences geometry. Two-dimensional inputs carry
// a zero Z.
type Point struct {
	ID     int64
	Coords mgl64.Vec3
}

// XY returns the point projected on the horizontal plane.
func (p Point) XY() mgl64.Vec2 {
	return mgl64.Vec2{p.Coords[0], p.Coords[1]}
}

// XZ returns the point projected on the vertical plane.
func (p Point) XZ() mgl64.Vec2 {
	return mgl64.Vec2{p.Coords[0], p.Coords[2]}
}

// Triangle references three GCPs by index into the point sets.
type Triangle struct {
	A, B, C int
}

// Tin holds the two index-aligned GCP sets and their shared triangulation.
// Row i of Target and row i of Standard denote the same physical point
// before and after correction.
type Tin struct {
	Target    []Point
	Standard  []Point
	Triangles []Triangle
}

// Build triangulates the standard GCPs on the XY plane and applies the
// simplex indices to both point sets.
func Build(target, standard []Point) (*Tin, error) {
	if len(target) != len(standard) {
		return nil, fmt.Errorf("%w: %d target points vs %d standard points", ErrConstruction, len(target), len(standard))
	}
	if len(standard) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 control points, got %d", ErrConstruction, len(standard))
	}

	points := make([]delaunay.Point, len(standard))
	for i, p := range standard {
		points[i] = delaunay.Point{X: p.Coords[0], Y: p.Coords[1]}
	}

	triangulation, err := delaunay.Triangulate(points)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConstruction, err)
	}
	if len(triangulation.Triangles) == 0 {
		// All standard points collinear.
		return nil, fmt.Errorf("%w: control points do not span a triangle", ErrConstruction)
	}

	triangles := make([]Triangle, 0, len(triangulation.Triangles)/3)
	for i := 0; i+2 < len(triangulation.Triangles); i += 3 {
		triangles = append(triangles, Triangle{
			A: triangulation.Triangles[i],
			B: triangulation.Triangles[i+1],
			C: triangulation.Triangles[i+2],
		})
	}

	return &Tin{Target: target, Standard: standard, Triangles: triangles}, nil
}

// TargetOf returns the vertices of triangle i from the correction-target set.
func (t *Tin) TargetOf(i int) [3]Point {
	tri := t.Triangles[i]
	return [3]Point{t.Target[tri.A], t.Target[tri.B], t.Target[tri.C]}
}

// StandardOf returns the vertices of triangle i from the position-standard set.
func (t *Tin) StandardOf(i int) [3]Point {
	tri := t.Triangles[i]
	return [3]Point{t.Standard[tri.A], t.Standard[tri.B], t.Standard[tri.C]}
}
