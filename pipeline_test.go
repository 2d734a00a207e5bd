package rubbersheet

import (
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/geoanchor/rubbersheet/locate"
	"github.com/geoanchor/rubbersheet/tin"
	"github.com/go-gl/mathgl/mgl64"
)

func TestTaskVisitsEveryIndex(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 8} {
		visited := make([]int32, 103)

		task(workers, len(visited), func(i int) {
			atomic.AddInt32(&visited[i], 1)
		})

		for i, n := range visited {
			if n != 1 {
				t.Fatalf("workers=%d: index %d visited %d times, want 1", workers, i, n)
			}
		}
	}
}

func TestTaskMoreWorkersThanIndices(t *testing.T) {
	var count int32
	task(16, 3, func(int) {
		atomic.AddInt32(&count, 1)
	})
	if count != 3 {
		t.Fatalf("visited %d indices, want 3", count)
	}
}

func TestTaskEmptyRange(t *testing.T) {
	var count int32
	task(4, 0, func(int) {
		atomic.AddInt32(&count, 1)
	})
	if count != 0 {
		t.Fatalf("visited %d indices, want 0", count)
	}
}

func TestLocateAllMatchesScan(t *testing.T) {
	// A strip of triangles over [0,10]x[0,1].
	var triangles [][3]mgl64.Vec2
	for i := 0; i < 10; i++ {
		x := float64(i)
		triangles = append(triangles,
			[3]mgl64.Vec2{{x, 0}, {x + 1, 0}, {x, 1}},
			[3]mgl64.Vec2{{x + 1, 0}, {x + 1, 1}, {x, 1}},
		)
	}
	index := locate.NewIndex(triangles)

	rng := rand.New(rand.NewSource(42))
	features := make([]tin.Point, 251)
	for i := range features {
		features[i] = tin.Point{Coords: mgl64.Vec3{rng.Float64()*12 - 1, rng.Float64()*3 - 1, 0}}
	}

	want := make([]int, len(features))
	for i, f := range features {
		want[i] = locate.Scan(f.XY(), triangles)
	}

	for _, cfg := range []struct{ splitUnit, workers int }{
		{1, 1}, {1, 4}, {10, 3}, {97, 2}, {1000, 8},
	} {
		got := locateAll(features, index, cfg.splitUnit, cfg.workers)
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("splitUnit=%d workers=%d: feature %d assigned %d, want %d",
					cfg.splitUnit, cfg.workers, i, got[i], want[i])
			}
		}
	}
}

func TestLocateAllEmptyFeatures(t *testing.T) {
	index := locate.NewIndex([][3]mgl64.Vec2{{{0, 0}, {1, 0}, {0, 1}}})
	if got := locateAll(nil, index, 10, 4); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}
