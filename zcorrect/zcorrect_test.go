package zcorrect

import (
	"errors"
	"math"
	"testing"

	"github.com/geoanchor/rubbersheet/tin"
	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

// Test helper functions
func pt(x, y, z float64) tin.Point {
	return tin.Point{Coords: mgl64.Vec3{x, y, z}}
}

// testPair returns an index-aligned triangle pair with distinct standard x
// coordinates. Sorted by standard x the vertex order is 0, 2, 1.
func testPair() (target, standard [3]tin.Point) {
	target = [3]tin.Point{
		pt(0, 0, 10),
		pt(4, 1, 20),
		pt(2, 3, 30),
	}
	standard = [3]tin.Point{
		pt(5, 5, 12),
		pt(9, 6, 26),
		pt(7, 8, 31),
	}
	return target, standard
}

func TestSolveShiftIsExactAtVertices(t *testing.T) {
	target, standard := testPair()

	corr, err := Solve(target, standard)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	// A vertex that landed on a standard GCP after the horizontal pass must
	// be lifted from the target z exactly onto the standard z.
	for i := range target {
		x := standard[i].Coords[0]
		want := standard[i].Coords[2] - target[i].Coords[2]
		if got := corr.Shift(x); math.Abs(got-want) > epsilon {
			t.Errorf("vertex %d (x=%v): Shift = %v, want %v", i, x, got, want)
		}
	}
}

func TestSolveBoundaryIsMiddleStandardX(t *testing.T) {
	target, standard := testPair()

	corr, err := Solve(target, standard)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if corr.BX != 7 {
		t.Errorf("BX = %v, want 7 (middle vertex by standard x)", corr.BX)
	}
}

func TestShiftIsContinuousAtB(t *testing.T) {
	target, standard := testPair()

	corr, err := Solve(target, standard)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	left := corr.Left.eval(corr.BX)
	right := corr.Right.eval(corr.BX)
	if math.Abs(left-right) > epsilon {
		t.Errorf("delta discontinuous at B: left %v, right %v", left, right)
	}
}

func TestShiftSelectsSegmentByX(t *testing.T) {
	target, standard := testPair()

	corr, err := Solve(target, standard)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if got, want := corr.Shift(6), corr.Left.eval(6); got != want {
		t.Errorf("Shift(6) = %v, want left segment value %v", got, want)
	}
	if got, want := corr.Shift(corr.BX), corr.Left.eval(corr.BX); got != want {
		t.Errorf("Shift at B = %v, want left segment value %v (boundary belongs left)", got, want)
	}
	if got, want := corr.Shift(8), corr.Right.eval(8); got != want {
		t.Errorf("Shift(8) = %v, want right segment value %v", got, want)
	}
}

func TestConstantOffsetGivesConstantShift(t *testing.T) {
	target, _ := testPair()
	var standard [3]tin.Point
	for i, p := range target {
		standard[i] = pt(p.Coords[0]+5, p.Coords[1]+5, p.Coords[2]+2)
	}

	corr, err := Solve(target, standard)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	for _, x := range []float64{5, 6.5, 7, 8.2, 9} {
		if got := corr.Shift(x); math.Abs(got-2) > epsilon {
			t.Errorf("Shift(%v) = %v, want 2", x, got)
		}
	}
}

func TestSolveSharedXIsSingular(t *testing.T) {
	target, standard := testPair()
	standard[1].Coords[0] = standard[0].Coords[0] // two GCPs on one vertical

	_, err := Solve(target, standard)
	if !errors.Is(err, ErrZCorrection) {
		t.Errorf("shared x: err = %v, want ErrZCorrection", err)
	}
}
