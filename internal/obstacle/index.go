package obstacle

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// rectTol pads degenerate footprint extents so every R-tree entry has a
// positive area.
const rectTol = 0.0001

type slEntry struct {
	poly *SLPolygon
	rect rtreego.Rect
}

func (e *slEntry) Bounds() rtreego.Rect {
	return e.rect
}

// Index is an R-tree over SL footprints, keyed by their station/lateral
// bounding rectangles. It keeps the sweep-line's obstacle filtering cheap
// when the snapshot is large.
type Index struct {
	tree *rtreego.Rtree
}

// NewIndex builds an index over the given footprints.
func NewIndex(polys []*SLPolygon) *Index {
	tree := rtreego.NewTree(2, 25, 50)
	for _, p := range polys {
		if p == nil {
			continue
		}
		lengths := []float64{p.MaxS() - p.MinS(), p.MaxL() - p.MinL()}
		for i := range lengths {
			if lengths[i] < rectTol {
				lengths[i] = rectTol
			}
		}
		rect, err := rtreego.NewRect(rtreego.Point{p.MinS(), p.MinL()}, lengths)
		if err != nil {
			continue
		}
		tree.Insert(&slEntry{poly: p, rect: rect})
	}
	return &Index{tree: tree}
}

// SearchRange returns all footprints whose SL bounding rectangle intersects
// the query rectangle, sorted by obstacle id for deterministic iteration.
func (ix *Index) SearchRange(minS, maxS, minL, maxL float64) []*SLPolygon {
	lengths := []float64{maxS - minS, maxL - minL}
	for i := range lengths {
		if lengths[i] < rectTol {
			lengths[i] = rectTol
		}
	}
	rect, err := rtreego.NewRect(rtreego.Point{minS, minL}, lengths)
	if err != nil {
		return nil
	}
	hits := ix.tree.SearchIntersect(rect)
	out := make([]*SLPolygon, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*slEntry).poly)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
