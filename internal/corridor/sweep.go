package corridor

import (
	"math"
	"sort"

	"github.com/banshee-data/corridor/internal/frenet"
	"github.com/banshee-data/corridor/internal/obstacle"
)

// IsWithinPathDeciderScopeObstacle reports whether an obstacle constrains
// the lateral corridor at all. Moving obstacles are handled by speed
// planning, and virtual fences carry no physical footprint.
func IsWithinPathDeciderScopeObstacle(obs *obstacle.Obstacle) bool {
	return obs != nil && obs.IsStatic && !obs.IsVirtual
}

// SortObstaclesForSweepLine converts footprints into start/end sweep events
// along the station axis, padded laterally by lBuffer. Events are sorted by
// station; at equal stations start events come before end events so the
// active set stays correct.
func SortObstaclesForSweepLine(polys []*obstacle.SLPolygon, lBuffer float64) []ObstacleEdge {
	edges := make([]ObstacleEdge, 0, 2*len(polys))
	for _, p := range polys {
		if p == nil {
			continue
		}
		edges = append(edges,
			ObstacleEdge{IsStart: true, S: p.MinS(), LMin: p.MinL() - lBuffer, LMax: p.MaxL() + lBuffer, ID: p.ID},
			ObstacleEdge{IsStart: false, S: p.MaxS(), LMin: p.MinL() - lBuffer, LMax: p.MaxL() + lBuffer, ID: p.ID},
		)
	}
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].S != edges[j].S {
			return edges[i].S < edges[j].S
		}
		if edges[i].IsStart != edges[j].IsStart {
			return edges[i].IsStart
		}
		return edges[i].ID < edges[j].ID
	})
	return edges
}

// lGap is a candidate free sub-interval at one station. loID/hiID name the
// obstacles whose padded footprints form the gap edges; empty when the edge
// is the existing corridor bound.
type lGap struct {
	lo, hi     float64
	loID, hiID string
}

// freeGaps subtracts the padded obstacle intervals from [lMin, lMax] and
// returns the remaining sub-intervals in ascending order.
func freeGaps(lMin, lMax float64, occupied []lGap) []lGap {
	sort.Slice(occupied, func(i, j int) bool { return occupied[i].lo < occupied[j].lo })

	gaps := []lGap{}
	curLo := lMin
	curLoID := ""
	for _, occ := range occupied {
		if occ.hi < lMin || occ.lo > lMax {
			continue
		}
		if occ.lo > curLo {
			gaps = append(gaps, lGap{lo: curLo, hi: math.Min(occ.lo, lMax), loID: curLoID, hiID: occ.loID})
		}
		if occ.hi > curLo {
			curLo = occ.hi
			curLoID = occ.hiID
		}
		if curLo >= lMax {
			break
		}
	}
	if curLo < lMax {
		gaps = append(gaps, lGap{lo: curLo, hi: lMax, loID: curLoID})
	}
	return gaps
}

// chooseGap picks the corridor's surviving sub-interval: the gap containing
// the running center line, else the widest gap; an exact width tie goes to
// the left (positive l) side.
func chooseGap(gaps []lGap, centerLine float64) (lGap, bool) {
	if len(gaps) == 0 {
		return lGap{}, false
	}
	for _, g := range gaps {
		if centerLine >= g.lo && centerLine <= g.hi {
			return g, true
		}
	}
	best := gaps[0]
	for _, g := range gaps[1:] {
		w, bw := g.hi-g.lo, best.hi-best.lo
		if w > bw || (w == bw && g.lo > best.lo) {
			best = g
		}
	}
	return best, true
}

// UpdatePathBoundaryAndCenterLineWithBuffer narrows the boundary point at
// idx to the chosen gap, keeping the vehicle's edge buffer away from any
// obstacle-owned gap edge, and nudges the running center line toward the
// midpoint of the surviving interval. Returns false when the interval
// becomes empty at idx.
func (d *Decider) UpdatePathBoundaryAndCenterLineWithBuffer(idx int, leftBound, rightBound float64,
	leftID, rightID string, bound *PathBoundary, centerLine *float64) bool {
	pt := &bound.Points[idx]
	buffer := d.GetBufferBetweenADCCenterAndEdge()

	if leftID != "" {
		if !UpdateLeftPathBoundaryWithBuffer(leftBound, BoundObstacle, leftID, buffer, pt) {
			return false
		}
	}
	if rightID != "" {
		if !UpdateRightPathBoundaryWithBuffer(rightBound, BoundObstacle, rightID, buffer, pt) {
			return false
		}
	}

	mid := (pt.LMin + pt.LMax) / 2
	blend := d.cfg.GetCenterLineBlend()
	*centerLine += blend * (mid - *centerLine)
	pt.CenterL = *centerLine
	return true
}

// GetBoundaryFromStaticObstacles sweeps the obstacle events along the
// station axis, intersecting the corridor at every station with the
// complement of the active footprints. On collapse the boundary is
// truncated and the farthest responsible obstacle reported through
// blockingID. Returns false only when the corridor collapses at the
// vehicle's own station, leaving no usable boundary.
func (d *Decider) GetBoundaryFromStaticObstacles(polys []*obstacle.SLPolygon, initSL frenet.SLState,
	bound *PathBoundary, blockingID *string, narrowestWidth *float64) bool {
	if bound == nil || len(bound.Points) == 0 {
		return false
	}
	if len(polys) == 0 {
		return true
	}

	lBuffer := d.cfg.GetObstacleLBuffer()
	edges := SortObstaclesForSweepLine(polys, lBuffer)
	polyByID := make(map[string]*obstacle.SLPolygon, len(polys))
	for _, p := range polys {
		polyByID[p.ID] = p
	}

	active := make(map[string]struct{})
	centerLine := initSL.L[0]
	eventIdx := 0
	blockedIdx := -1
	obsIDToBlockedS := make(map[string]float64)

	for i := range bound.Points {
		pt := &bound.Points[i]

		// apply events up to this station; end events exactly at the
		// station stay active so the footprint still occupies it
		for eventIdx < len(edges) &&
			(edges[eventIdx].S < pt.S || (edges[eventIdx].S == pt.S && edges[eventIdx].IsStart)) {
			e := edges[eventIdx]
			if e.IsStart {
				active[e.ID] = struct{}{}
			} else {
				delete(active, e.ID)
			}
			eventIdx++
		}
		if len(active) == 0 {
			continue
		}

		occupied := make([]lGap, 0, len(active))
		for id := range active {
			poly := polyByID[id]
			oLMin, oLMax, ok := poly.Interval(pt.S)
			if !ok {
				continue
			}
			occupied = append(occupied, lGap{lo: oLMin - lBuffer, hi: oLMax + lBuffer, loID: id, hiID: id})
		}
		if len(occupied) == 0 {
			continue
		}

		gaps := freeGaps(pt.LMin, pt.LMax, occupied)
		gap, ok := chooseGap(gaps, centerLine)
		if ok && (gap.loID != "" || gap.hiID != "") {
			// a gap edge owned by an obstacle keeps the vehicle buffer;
			// an edge coming from the corridor bound stays as-is
			ok = d.UpdatePathBoundaryAndCenterLineWithBuffer(i, gap.hi, gap.lo,
				gap.hiID, gap.loID, bound, &centerLine)
		}
		if !ok {
			for id := range active {
				obsIDToBlockedS[id] = polyByID[id].MinS()
			}
			blockedIdx = i
			break
		}
		if !unboundedWidth(*pt) {
			*narrowestWidth = math.Min(*narrowestWidth, pt.Width())
		}
	}

	if blockedIdx >= 0 {
		*blockingID = FindFarthestBlockObstaclesId(obsIDToBlockedS)
		TrimPathBounds(blockedIdx, bound)
	}
	return len(bound.Points) > 0
}
