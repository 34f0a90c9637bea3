package obstacle

import (
	"math"

	"github.com/banshee-data/corridor/internal/frenet"
)

// SLPoint is a point in station/lateral space.
type SLPoint struct {
	S, L float64
}

// SLBoundary is the SL-space bounding description of an obstacle footprint:
// the axis-aligned extent plus the projected polygon corners.
type SLBoundary struct {
	StartS, EndS float64
	StartL, EndL float64
	Points       []SLPoint
}

// SLPolygon is an obstacle footprint in SL space. It answers, for any
// station within its span, the lateral interval the footprint occupies.
type SLPolygon struct {
	ID     string
	points []SLPoint

	minS, maxS float64
	minL, maxL float64
}

// NewSLPolygon builds an SLPolygon from ordered corners. Returns nil for
// fewer than 3 corners.
func NewSLPolygon(id string, points []SLPoint) *SLPolygon {
	if len(points) < 3 {
		return nil
	}
	p := &SLPolygon{
		ID:     id,
		points: append([]SLPoint(nil), points...),
		minS:   math.Inf(1), maxS: math.Inf(-1),
		minL: math.Inf(1), maxL: math.Inf(-1),
	}
	for _, pt := range p.points {
		p.minS = math.Min(p.minS, pt.S)
		p.maxS = math.Max(p.maxS, pt.S)
		p.minL = math.Min(p.minL, pt.L)
		p.maxL = math.Max(p.maxL, pt.L)
	}
	return p
}

// MinS returns the smallest station the footprint touches.
func (p *SLPolygon) MinS() float64 { return p.minS }

// MaxS returns the largest station the footprint touches.
func (p *SLPolygon) MaxS() float64 { return p.maxS }

// MinL returns the smallest lateral offset the footprint touches.
func (p *SLPolygon) MinL() float64 { return p.minL }

// MaxL returns the largest lateral offset the footprint touches.
func (p *SLPolygon) MaxL() float64 { return p.maxL }

// Corners returns the polygon's corner vertices.
func (p *SLPolygon) Corners() []SLPoint { return p.points }

// Boundary returns the SLBoundary form of the footprint.
func (p *SLPolygon) Boundary() SLBoundary {
	return SLBoundary{
		StartS: p.minS, EndS: p.maxS,
		StartL: p.minL, EndL: p.maxL,
		Points: append([]SLPoint(nil), p.points...),
	}
}

// Interval returns the lateral interval the footprint occupies at station
// s, or ok=false when s lies outside the polygon's station span.
func (p *SLPolygon) Interval(s float64) (lMin, lMax float64, ok bool) {
	if s < p.minS || s > p.maxS {
		return 0, 0, false
	}
	lMin, lMax = math.Inf(1), math.Inf(-1)
	n := len(p.points)
	for i := 0; i < n; i++ {
		a := p.points[i]
		b := p.points[(i+1)%n]
		lo, hi := a.S, b.S
		if lo > hi {
			lo, hi = hi, lo
		}
		if s < lo || s > hi {
			continue
		}
		if a.S == b.S {
			// edge runs along the station; both ends bound the interval
			lMin = math.Min(lMin, math.Min(a.L, b.L))
			lMax = math.Max(lMax, math.Max(a.L, b.L))
			continue
		}
		t := (s - a.S) / (b.S - a.S)
		l := a.L + t*(b.L-a.L)
		lMin = math.Min(lMin, l)
		lMax = math.Max(lMax, l)
	}
	if lMin > lMax {
		return 0, 0, false
	}
	return lMin, lMax, true
}

// ComputeSLBoundaryIntersection computes the lateral slice of slBoundary at
// station s and writes it through the out pointers. It returns false, with
// the out pointers untouched, when s lies outside the boundary's station
// span.
func ComputeSLBoundaryIntersection(slBoundary SLBoundary, s float64, ptrLMin, ptrLMax *float64) bool {
	if s < slBoundary.StartS || s > slBoundary.EndS {
		return false
	}
	if len(slBoundary.Points) >= 3 {
		poly := NewSLPolygon("", slBoundary.Points)
		if lMin, lMax, ok := poly.Interval(s); ok {
			*ptrLMin = lMin
			*ptrLMax = lMax
			return true
		}
		return false
	}
	*ptrLMin = slBoundary.StartL
	*ptrLMax = slBoundary.EndL
	return true
}

// ProjectToSL projects an obstacle's Cartesian footprint onto the reference
// line. Returns ok=false when the footprint cannot be projected (degenerate
// polygon or reference line).
func ProjectToSL(obs *Obstacle, ref *frenet.ReferenceLine) (*SLPolygon, bool) {
	if obs == nil || len(obs.Polygon) < 3 || ref == nil {
		return nil, false
	}
	pts := make([]SLPoint, 0, len(obs.Polygon))
	for _, c := range obs.Polygon {
		s, l, ok := ref.XYToSL(c.X, c.Y)
		if !ok {
			return nil, false
		}
		pts = append(pts, SLPoint{S: s, L: l})
	}
	poly := NewSLPolygon(obs.ID, pts)
	if poly == nil {
		return nil, false
	}
	return poly, true
}
