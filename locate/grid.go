package locate

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// cellKey - coordinates of a cell on the XY plane
type cellKey struct {
	X, Y int
}

// Index is a uniform hashed grid over triangle bounding boxes. It prunes
// the candidate set for containment queries without changing the answer:
// every triangle whose bounding box covers the query point's cell lands in
// that cell's bucket, buckets are kept sorted, and candidates are tested in
// ascending triangle order. Hash collisions only ever add candidates, which
// the containment test rejects.
type Index struct {
	triangles [][3]mgl64.Vec2
	cellSize  float64
	cells     [][]int
	cellMask  int
}

// NewIndex builds the lookup grid for a fixed triangle array. The cell size
// is the mean bounding-box extent of the triangles, so a triangle covers a
// handful of cells on average.
func NewIndex(triangles [][3]mgl64.Vec2) *Index {
	idx := &Index{triangles: triangles}

	var extentSum float64
	boxes := make([][2]mgl64.Vec2, len(triangles))
	for i, tri := range triangles {
		lo := mgl64.Vec2{
			math.Min(tri[0][0], math.Min(tri[1][0], tri[2][0])),
			math.Min(tri[0][1], math.Min(tri[1][1], tri[2][1])),
		}
		hi := mgl64.Vec2{
			math.Max(tri[0][0], math.Max(tri[1][0], tri[2][0])),
			math.Max(tri[0][1], math.Max(tri[1][1], tri[2][1])),
		}
		boxes[i] = [2]mgl64.Vec2{lo, hi}
		extentSum += math.Max(hi[0]-lo[0], hi[1]-lo[1])
	}

	idx.cellSize = 1
	if len(triangles) > 0 {
		if mean := extentSum / float64(len(triangles)); mean > 0 {
			idx.cellSize = mean
		}
	}

	numCells := nextPowerOfTwo(4 * len(triangles))
	idx.cells = make([][]int, numCells)
	idx.cellMask = numCells - 1

	for i, box := range boxes {
		minCell := idx.worldToCell(box[0])
		maxCell := idx.worldToCell(box[1])
		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				ci := idx.hashCell(cellKey{x, y})
				idx.cells[ci] = append(idx.cells[ci], i)
			}
		}
	}
	for i := range idx.cells {
		if len(idx.cells[i]) > 1 {
			sort.Ints(idx.cells[i])
		}
	}

	return idx
}

// Query returns the index of the first containing triangle in array order,
// or NotFound. Equivalent to Scan over the full triangle array.
func (idx *Index) Query(p mgl64.Vec2) int {
	ci := idx.hashCell(idx.worldToCell(p))

	previous := NotFound
	for _, ti := range idx.cells[ci] {
		if ti == previous { // duplicate from multi-cell insertion
			continue
		}
		previous = ti

		tri := idx.triangles[ti]
		if Inside(p, tri[0], tri[1], tri[2]) {
			return ti
		}
	}
	return NotFound
}

// nextPowerOfTwo - rounds up to the next power of 2
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// worldToCell - converts a plane position into cell coordinates
func (idx *Index) worldToCell(p mgl64.Vec2) cellKey {
	return cellKey{
		X: int(math.Floor(p[0] / idx.cellSize)),
		Y: int(math.Floor(p[1] / idx.cellSize)),
	}
}

// hashCell - hashes a cell into an index in the bucket array
func (idx *Index) hashCell(key cellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663)
	return h & idx.cellMask
}
