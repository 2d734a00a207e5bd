package rubbersheet

import (
	"sort"
	"sync"

	"github.com/geoanchor/rubbersheet/locate"
	"github.com/geoanchor/rubbersheet/tin"
)

// task runs fn over the index range [0, n) split evenly across
// workersCount goroutines. Used for the row-local stages (formula solving,
// in-place vertex updates), where every index writes only its own slot and
// no ordering is needed.
func task(workersCount, n int, fn func(i int)) {
	var wg sync.WaitGroup
	chunkSize := (n + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, n))
	}
	wg.Wait()
}

// chunk is one locate work unit: a window of the feature sequence plus the
// sequence id of its first vertex.
type chunk struct {
	start    int
	vertices []tin.Point
}

// assignment pairs a feature vertex's sequence id with the index of its
// containing triangle (locate.NotFound if outside the TIN).
type assignment struct {
	seq int
	tri int
}

// locateAll assigns every feature vertex to its containing triangle on the
// XY plane.
//
// The sequence is cut into splitUnit-sized chunks fanned out to a bounded
// worker pool; each chunk is located independently against the read-only
// index. Chunk results arrive in completion order, so the fan-in
// concatenates them and re-sorts by sequence id before scattering into the
// positional result. The output is therefore independent of splitUnit and
// workers.
func locateAll(features []tin.Point, index *locate.Index, splitUnit, workers int) []int {
	chunks := make(chan chunk, workers)
	results := make(chan []assignment, workers)

	go func() {
		defer close(chunks)
		for start := 0; start < len(features); start += splitUnit {
			end := min(start+splitUnit, len(features))
			chunks <- chunk{start: start, vertices: features[start:end]}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range chunks {
				located := make([]assignment, len(c.vertices))
				for i, v := range c.vertices {
					located[i] = assignment{seq: c.start + i, tri: index.Query(v.XY())}
				}
				results <- located
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	merged := make([]assignment, 0, len(features))
	for located := range results {
		merged = append(merged, located...)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].seq < merged[j].seq })

	assigned := make([]int, len(features))
	for i, a := range merged {
		assigned[i] = a.tri
	}
	return assigned
}
