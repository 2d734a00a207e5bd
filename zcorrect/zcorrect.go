// Package zcorrect implements the piecewise-linear vertical correction used
// by the 3D rubber-sheeting path.
//
// Control points are typically surveyed on manholes and road edges, so the
// general triangle transform applied on the XZ plane can flip near-vertical
// triangles and produce wild z values. Instead, the vertical move is taken
// from two exact line fits per triangle: with the vertices sorted by
// ascending x as A, B, C, one line covers A-B and one covers B-C, fitted
// once in the target frame and once in the standard frame, and stored as
// their coefficient-wise difference. A vertex then gets its z shifted by
// the delta line of its x range. The blend is continuous at B (both deltas
// pass through it) but not C¹-smooth, and a vertex sitting exactly on A, B
// or C receives exactly the standard triangle's z there.
//
// Both fits run over the standard-frame x axis, the axis the features live
// on after the horizontal pass, with the target line keeping the target z.
// That pairing is what makes the vertex exactness hold.
package zcorrect

import (
	"errors"
	"fmt"

	"github.com/geoanchor/rubbersheet/tin"
	"gonum.org/v1/gonum/mat"
)

// ErrZCorrection is returned when a segment line fit is singular, i.e. two
// triangle vertices share an x coordinate and no z = a*x + b line exists.
var ErrZCorrection = errors.New("zcorrect: line fit failed")

// Line is z = A*x + B.
type Line struct {
	A, B float64
}

// eval returns the line's z at x.
func (l Line) eval(x float64) float64 {
	return l.A*x + l.B
}

// Correction holds one triangle's vertical delta: the standard-minus-target
// difference of the two segment lines, split at the middle vertex's x.
type Correction struct {
	// BX is the x coordinate of vertex B, the boundary between the two
	// ranges. Points with x <= BX take Left, the rest take Right.
	BX    float64
	Left  Line
	Right Line
}

// fit solves the 2x2 system putting z = a*x + b through two points.
func fit(x1, z1, x2, z2 float64) (Line, error) {
	lhs := mat.NewDense(2, 2, []float64{
		x1, 1,
		x2, 1,
	})
	rhs := mat.NewVecDense(2, []float64{z1, z2})

	var coef mat.VecDense
	if err := coef.SolveVec(lhs, rhs); err != nil {
		return Line{}, fmt.Errorf("%w: segment x=%v..%v: %v", ErrZCorrection, x1, x2, err)
	}
	return Line{A: coef.AtVec(0), B: coef.AtVec(1)}, nil
}

// Solve builds the correction for one triangle pair. The two point triples
// must be index-aligned (same GCP order), as produced by the shared
// triangulation.
func Solve(target, standard [3]tin.Point) (Correction, error) {
	// Order all three vertices by ascending standard x. The same order
	// applies to the target triple: row i of both triples is the same GCP.
	order := [3]int{0, 1, 2}
	for i := 1; i < 3; i++ {
		for j := i; j > 0 && standard[order[j]].Coords[0] < standard[order[j-1]].Coords[0]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	x := [3]float64{}
	targetZ := [3]float64{}
	standardZ := [3]float64{}
	for i, o := range order {
		x[i] = standard[o].Coords[0]
		targetZ[i] = target[o].Coords[2]
		standardZ[i] = standard[o].Coords[2]
	}

	targetLeft, err := fit(x[0], targetZ[0], x[1], targetZ[1])
	if err != nil {
		return Correction{}, err
	}
	targetRight, err := fit(x[1], targetZ[1], x[2], targetZ[2])
	if err != nil {
		return Correction{}, err
	}
	standardLeft, err := fit(x[0], standardZ[0], x[1], standardZ[1])
	if err != nil {
		return Correction{}, err
	}
	standardRight, err := fit(x[1], standardZ[1], x[2], standardZ[2])
	if err != nil {
		return Correction{}, err
	}

	return Correction{
		BX:    x[1],
		Left:  Line{A: standardLeft.A - targetLeft.A, B: standardLeft.B - targetLeft.B},
		Right: Line{A: standardRight.A - targetRight.A, B: standardRight.B - targetRight.B},
	}, nil
}

// Shift returns the z displacement for a vertex at x.
func (c Correction) Shift(x float64) float64 {
	if x <= c.BX {
		return c.Left.eval(x)
	}
	return c.Right.eval(x)
}
