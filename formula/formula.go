// Package formula derives and applies the per-triangle transform of the
// rubber-sheeting correction.
//
// Solve pins the correction-target triangle onto the position-standard
// triangle in three closed-form stages, each aligning one more vertex:
//
//  1. Translation: vertex 0 of the target is moved onto vertex 0 of the
//     standard; the landing point becomes the pivot of every later step.
//  2. Rotation and scale about the pivot: edge 0-1 of the target is rotated
//     onto the direction of the standard's edge 0-1 and stretched to its
//     length.
//  3. Independent y-scale and x-shear: both triangles are rotated so the
//     standard's edge 0-1 lies on the x axis; the remaining mismatch of
//     vertex 2 is removed by scaling the y axis and shearing x by the
//     difference of the two shear angles.
//
// Apply replays the same composition on an arbitrary point, so the three
// target vertices land exactly on the standard vertices (to floating-point
// precision) and interior points are warped by the same non-affine,
// independent-axis-scaled map. The composition is not guarded against
// NaN/Inf beyond the Scale2 special case; a degenerate target triangle
// produces a degenerate transform, flagged but not rejected.
package formula

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Formula is the per-triangle transform. Zero value is not a valid
// transform; triangles whose target and standard coordinates are identical
// are skipped instead of solved.
type Formula struct {
	// Translation moves target vertex 0 onto standard vertex 0.
	Translation mgl64.Vec2
	// Pivot is the translated vertex 0, the origin of every rotation below.
	Pivot mgl64.Vec2
	// Rotation aligns target edge 0-1 with standard edge 0-1.
	Rotation mgl64.Mat2
	// Scale1 stretches target edge 0-1 to the standard edge's length.
	Scale1 float64
	// StandardAngle is the standard edge 0-1 angle (radians); rotating by
	// its negation puts that edge on the x axis for the third stage.
	StandardAngle float64
	// Scale2 aligns the y coordinate of vertex 2. Forced to 0 when the
	// aligned target vertex 2 has exactly zero height.
	Scale2 float64
	// ShearTarget and ShearStandard are the x-shear angles of vertex 2 in
	// the axis-aligned frame, for the target and standard triangle.
	ShearTarget   float64
	ShearStandard float64

	// Degenerate marks a target triangle with a zero-length edge 0-1 or a
	// zero Scale2 denominator. The transform is still produced and applied;
	// callers surface the count.
	Degenerate bool
}

// Identical reports whether the two triangles have bitwise-equal
// coordinates. Such triangles bypass both Solve and Apply: there is nothing
// to move, and skipping avoids a spurious zero division.
func Identical(target, standard [3]mgl64.Vec2) bool {
	return target == standard
}

// Solve derives the transform mapping the target triangle exactly onto the
// standard triangle. Pure and deterministic.
func Solve(target, standard [3]mgl64.Vec2) Formula {
	var f Formula

	// Stage 1: align vertex 0.
	f.Translation = standard[0].Sub(target[0])

	var work [3]mgl64.Vec2
	for i := range work {
		work[i] = target[i].Add(f.Translation)
	}
	f.Pivot = work[0]

	// Stage 2: align vertex 1 by rotating and scaling edge 0-1 about the pivot.
	targetEdge := target[1].Sub(target[0])
	standardEdge := standard[1].Sub(standard[0])
	targetAngle := math.Atan2(targetEdge[1], targetEdge[0])
	f.StandardAngle = math.Atan2(standardEdge[1], standardEdge[0])

	f.Rotation = mgl64.Rotate2D(f.StandardAngle - targetAngle)
	targetLen := targetEdge.Len()
	if targetLen == 0 {
		f.Degenerate = true
	}
	f.Scale1 = standardEdge.Len() / targetLen

	for i := range work {
		work[i] = f.Rotation.Mul2x1(work[i].Sub(f.Pivot)).Mul(f.Scale1)
	}

	// Stage 3: align vertex 2. Rotate both triangles so the standard edge
	// 0-1 lies on the x axis, then match vertex 2's y by scaling and its x
	// by shearing.
	standardV2 := standard[2].Sub(f.Pivot)

	align := mgl64.Rotate2D(-f.StandardAngle)
	for i := range work {
		work[i] = align.Mul2x1(work[i])
	}
	standardV2 = align.Mul2x1(standardV2)

	if work[2][1] == 0 {
		// Target triangle collapsed to a line; cannot scale into shape.
		f.Scale2 = 0
		f.Degenerate = true
	} else {
		f.Scale2 = standardV2[1] / work[2][1]
	}
	work[2][1] *= f.Scale2

	f.ShearTarget = math.Atan2(work[2][0], work[2][1])
	f.ShearStandard = math.Atan2(standardV2[0], standardV2[1])

	return f
}

// Apply maps a point through the solved transform: the exact composition
// Solve derived, replayed in order, then undone back into world placement.
func (f Formula) Apply(p mgl64.Vec2) mgl64.Vec2 {
	g := p.Add(f.Translation)
	g = f.Rotation.Mul2x1(g.Sub(f.Pivot)).Mul(f.Scale1)
	g = mgl64.Rotate2D(-f.StandardAngle).Mul2x1(g)
	g[1] *= f.Scale2
	g[0] += g[1] * (math.Tan(f.ShearStandard) - math.Tan(f.ShearTarget))
	g = mgl64.Rotate2D(f.StandardAngle).Mul2x1(g)
	return g.Add(f.Pivot)
}
