// Package locate answers point-in-triangle containment queries over a TIN.
//
// Containment uses the sign-consistent cross-product test: the point is
// inside (or on the boundary of) a triangle exactly when the cross products
// of each edge vector with the vector from that edge's end to the point all
// share a sign. When several triangles contain a point, such as a vertex
// shared by neighbours or a point exactly on a shared edge, the triangle with the
// smallest index wins, so repeated runs always produce the same assignment.
package locate

import "github.com/go-gl/mathgl/mgl64"

// NotFound is the assignment sentinel for a point outside every triangle.
// Such points pass through the correction untouched; they are counted, not
// treated as errors.
const NotFound = -1

// Inside reports whether p lies inside triangle abc, boundary inclusive.
func Inside(p, a, b, c mgl64.Vec2) bool {
	ab := b.Sub(a)
	bp := p.Sub(b)
	bc := c.Sub(b)
	cp := p.Sub(c)
	ca := a.Sub(c)
	ap := p.Sub(a)

	crossABBP := ab[0]*bp[1] - ab[1]*bp[0]
	crossBCCP := bc[0]*cp[1] - bc[1]*cp[0]
	crossCAAP := ca[0]*ap[1] - ca[1]*ap[0]

	return (crossABBP >= 0 && crossBCCP >= 0 && crossCAAP >= 0) ||
		(crossABBP <= 0 && crossBCCP <= 0 && crossCAAP <= 0)
}

// Scan returns the index of the first triangle containing p, in array order,
// or NotFound. This is the reference O(n) lookup; Index gives the same
// answer with candidate pruning.
func Scan(p mgl64.Vec2, triangles [][3]mgl64.Vec2) int {
	for i, tri := range triangles {
		if Inside(p, tri[0], tri[1], tri[2]) {
			return i
		}
	}
	return NotFound
}
