package rubbersheet

import (
	"github.com/geoanchor/rubbersheet/locate"
	"github.com/geoanchor/rubbersheet/tin"
	"github.com/geoanchor/rubbersheet/zcorrect"
)

// applyZ solves one vertical correction per triangle and shifts the z of
// every assigned vertex. It runs after the horizontal pass, so vertex x
// coordinates are already in the standard frame — the frame the correction
// lines are parameterized over.
//
// A singular line fit (two GCPs of a triangle sharing an x coordinate)
// fails the whole job, whether or not any vertex is assigned to that
// triangle.
func applyZ(t *tin.Tin, features []tin.Point, assigned []int, cfg Config) error {
	corrections := make([]zcorrect.Correction, len(t.Triangles))
	errs := make([]error, len(t.Triangles))

	task(cfg.Workers, len(t.Triangles), func(i int) {
		corrections[i], errs[i] = zcorrect.Solve(t.TargetOf(i), t.StandardOf(i))
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	task(cfg.Workers, len(features), func(i int) {
		ti := assigned[i]
		if ti == locate.NotFound {
			return
		}
		features[i].Coords[2] += corrections[ti].Shift(features[i].Coords[0])
	})
	return nil
}
