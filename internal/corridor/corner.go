package corridor

import (
	"math"
	"sort"

	"github.com/banshee-data/corridor/internal/obstacle"
)

// AddCornerPoint builds a boundary sample at the exact station s by linear
// interpolation of the bracketing regular samples. Returns ok=false when s
// coincides with an existing station or lies outside the boundary's station
// range; inserted points therefore never reorder existing stations.
func AddCornerPoint(s float64, bound *PathBoundary) (PathBoundPoint, int, bool) {
	if bound == nil || len(bound.Points) < 2 {
		return PathBoundPoint{}, 0, false
	}
	if s <= bound.StartS() || s >= bound.EndS() {
		return PathBoundPoint{}, 0, false
	}
	// index of the first sample strictly beyond s
	hi := sort.Search(len(bound.Points), func(i int) bool { return bound.Points[i].S >= s })
	if bound.Points[hi].S == s {
		return PathBoundPoint{}, 0, false
	}
	a, b := bound.Points[hi-1], bound.Points[hi]
	t := (s - a.S) / (b.S - a.S)
	lerp := func(x, y float64) float64 { return x + t*(y-x) }
	pt := PathBoundPoint{
		S:         s,
		LMin:      lerp(a.LMin, b.LMin),
		LMax:      lerp(a.LMax, b.LMax),
		LowerType: a.LowerType,
		UpperType: a.UpperType,
		LowerID:   a.LowerID,
		UpperID:   a.UpperID,
		CenterL:   lerp(a.CenterL, b.CenterL),
	}
	return pt, hi, true
}

// AddCornerBounds splices exact samples into the boundary at every corner
// vertex of the polygon that falls between regular stations, applying the
// footprint's true lateral extent there. The pass side follows the side the
// sweep already chose at the bracketing samples; when neither sample
// references the polygon the side with the wider remaining gap wins.
// Returns the index of the first sample the corner bounds collapsed, or -1.
func (d *Decider) AddCornerBounds(poly *obstacle.SLPolygon, bound *PathBoundary) int {
	if poly == nil || bound == nil || len(bound.Points) < 2 {
		return -1
	}
	buffer := d.GetBufferBetweenADCCenterAndEdge()
	lBuffer := d.cfg.GetObstacleLBuffer()

	corners := append([]obstacle.SLPoint(nil), poly.Corners()...)
	sort.Slice(corners, func(i, j int) bool { return corners[i].S < corners[j].S })

	for _, c := range corners {
		pt, insertAt, ok := AddCornerPoint(c.S, bound)
		if !ok {
			continue
		}
		oLMin, oLMax, ok := poly.Interval(c.S)
		if !ok {
			continue
		}
		oLMin -= lBuffer
		oLMax += lBuffer
		if oLMax <= pt.LMin || oLMin >= pt.LMax {
			continue
		}

		prev, next := bound.Points[insertAt-1], bound.Points[insertAt]
		passBelow := prev.UpperID == poly.ID || next.UpperID == poly.ID
		passAbove := prev.LowerID == poly.ID || next.LowerID == poly.ID
		if !passBelow && !passAbove {
			// footprint narrower than the sampling step: pick the wider gap
			passBelow = (oLMin - pt.LMin) >= (pt.LMax - oLMax)
			passAbove = !passBelow
		}

		blocked := false
		if passBelow {
			blocked = !UpdateLeftPathBoundaryWithBuffer(oLMin, BoundObstacle, poly.ID, buffer, &pt)
		} else {
			blocked = !UpdateRightPathBoundaryWithBuffer(oLMax, BoundObstacle, poly.ID, buffer, &pt)
		}

		if blocked {
			return insertAt
		}
		bound.Points = append(bound.Points, PathBoundPoint{})
		copy(bound.Points[insertAt+1:], bound.Points[insertAt:])
		bound.Points[insertAt] = pt
	}
	return -1
}

// UpdatePathBoundaryBySLPolygon refines the boundary against every polygon's
// exact corner geometry, tracking the narrowest width encountered and the
// obstacle responsible for it. A collapse truncates the boundary and
// reports the blocker through blockedID. Returns false only when nothing of
// the boundary survives.
func (d *Decider) UpdatePathBoundaryBySLPolygon(bound *PathBoundary, polys []*obstacle.SLPolygon,
	blockedID *string, narrowestWidth *float64) bool {
	if bound == nil {
		return false
	}
	for _, poly := range polys {
		blockedIdx := d.AddCornerBounds(poly, bound)
		if blockedIdx >= 0 {
			*blockedID = poly.ID
			TrimPathBounds(blockedIdx, bound)
			break
		}
	}
	for _, pt := range bound.Points {
		if unboundedWidth(pt) {
			continue
		}
		*narrowestWidth = math.Min(*narrowestWidth, pt.Width())
	}
	return len(bound.Points) > 0
}

// NarrowestSpot returns the width and obstacle owner of the tightest
// surviving station; owner is empty when the tightest bound is not
// obstacle-sourced.
func (b *PathBoundary) NarrowestSpot() (width float64, owner string) {
	width = math.Inf(1)
	for _, pt := range b.Points {
		if unboundedWidth(pt) || pt.Width() >= width {
			continue
		}
		width = pt.Width()
		owner = ""
		if pt.UpperType == BoundObstacle {
			owner = pt.UpperID
		} else if pt.LowerType == BoundObstacle {
			owner = pt.LowerID
		}
	}
	return width, owner
}
