package frenet

import (
	"fmt"
	"math"
	"sort"
)

// ReferencePoint is one sample of the reference curve. S is the arc-length
// station of the sample; widths describe the lane and road extent on each
// side of the curve at that station. AdjLeftLaneWidth/AdjRightLaneWidth are
// zero when there is no neighbouring lane to borrow from.
type ReferencePoint struct {
	S       float64
	X, Y    float64
	Heading float64 // radians, world frame
	Kappa   float64 // curvature (1/m), positive turning left

	LaneLeftWidth  float64
	LaneRightWidth float64
	RoadLeftWidth  float64
	RoadRightWidth float64

	AdjLeftLaneWidth  float64
	AdjRightLaneWidth float64

	// OffsetToLaneCenter is the lateral offset of the reference line from
	// the lane-center curve at this station (positive left). Non-zero when
	// boundaries are built against the lane center and re-based afterwards.
	OffsetToLaneCenter float64
}

// ReferenceLine is a station-indexed reference curve. It is a read-only
// collaborator: the planning pipeline queries it but never mutates it.
type ReferenceLine struct {
	points []ReferencePoint
}

// NewReferenceLine builds a reference line from ordered samples. If the
// samples carry no station values, stations are derived from cumulative
// Euclidean distance. Station values must be strictly increasing.
func NewReferenceLine(points []ReferencePoint) (*ReferenceLine, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("reference line needs at least 2 points, got %d", len(points))
	}

	pts := make([]ReferencePoint, len(points))
	copy(pts, points)

	allZero := true
	for _, p := range pts {
		if p.S != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		for i := 1; i < len(pts); i++ {
			pts[i].S = pts[i-1].S + math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
		}
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].S <= pts[i-1].S {
			return nil, fmt.Errorf("reference line stations not strictly increasing at index %d", i)
		}
	}
	return &ReferenceLine{points: pts}, nil
}

// Length returns the station of the final sample.
func (r *ReferenceLine) Length() float64 {
	return r.points[len(r.points)-1].S
}

// StartS returns the station of the first sample.
func (r *ReferenceLine) StartS() float64 {
	return r.points[0].S
}

// segmentIndex returns the index i such that points[i].S <= s < points[i+1].S,
// clamped to the valid segment range.
func (r *ReferenceLine) segmentIndex(s float64) int {
	i := sort.Search(len(r.points), func(i int) bool { return r.points[i].S > s }) - 1
	if i < 0 {
		i = 0
	}
	if i > len(r.points)-2 {
		i = len(r.points) - 2
	}
	return i
}

// PointAt returns the linearly interpolated reference point at station s.
// The second return is false when s lies outside the curve's station domain.
func (r *ReferenceLine) PointAt(s float64) (ReferencePoint, bool) {
	if s < r.StartS() || s > r.Length() {
		return ReferencePoint{}, false
	}
	i := r.segmentIndex(s)
	a, b := r.points[i], r.points[i+1]
	t := (s - a.S) / (b.S - a.S)
	lerp := func(x, y float64) float64 { return x + t*(y-x) }
	return ReferencePoint{
		S:                  s,
		X:                  lerp(a.X, b.X),
		Y:                  lerp(a.Y, b.Y),
		Heading:            interpolateAngle(a.Heading, b.Heading, t),
		Kappa:              lerp(a.Kappa, b.Kappa),
		LaneLeftWidth:      lerp(a.LaneLeftWidth, b.LaneLeftWidth),
		LaneRightWidth:     lerp(a.LaneRightWidth, b.LaneRightWidth),
		RoadLeftWidth:      lerp(a.RoadLeftWidth, b.RoadLeftWidth),
		RoadRightWidth:     lerp(a.RoadRightWidth, b.RoadRightWidth),
		AdjLeftLaneWidth:   lerp(a.AdjLeftLaneWidth, b.AdjLeftLaneWidth),
		AdjRightLaneWidth:  lerp(a.AdjRightLaneWidth, b.AdjRightLaneWidth),
		OffsetToLaneCenter: lerp(a.OffsetToLaneCenter, b.OffsetToLaneCenter),
	}, true
}

// LaneWidth returns the left/right lane half-widths at station s.
func (r *ReferenceLine) LaneWidth(s float64) (left, right float64, ok bool) {
	p, ok := r.PointAt(s)
	if !ok {
		return 0, 0, false
	}
	return p.LaneLeftWidth, p.LaneRightWidth, true
}

// RoadWidth returns the left/right road half-widths at station s.
func (r *ReferenceLine) RoadWidth(s float64) (left, right float64, ok bool) {
	p, ok := r.PointAt(s)
	if !ok {
		return 0, 0, false
	}
	return p.RoadLeftWidth, p.RoadRightWidth, true
}

// AdjacentLaneWidth returns the widths of the neighbouring lanes at station
// s; zero on a side means there is no lane to borrow there.
func (r *ReferenceLine) AdjacentLaneWidth(s float64) (left, right float64) {
	p, ok := r.PointAt(s)
	if !ok {
		return 0, 0
	}
	return p.AdjLeftLaneWidth, p.AdjRightLaneWidth
}

// OffsetToLaneCenter returns the reference line's lateral offset from the
// lane-center curve at station s, zero outside the domain.
func (r *ReferenceLine) OffsetToLaneCenter(s float64) float64 {
	p, ok := r.PointAt(s)
	if !ok {
		return 0
	}
	return p.OffsetToLaneCenter
}

// XYToSL projects a Cartesian point onto the reference line. The lateral
// offset is positive to the left of the curve's direction of travel. The
// projection clamps to the curve ends; ok is false only for a degenerate
// curve.
func (r *ReferenceLine) XYToSL(x, y float64) (s, l float64, ok bool) {
	bestDist := math.Inf(1)
	for i := 0; i+1 < len(r.points); i++ {
		a, b := r.points[i], r.points[i+1]
		dx, dy := b.X-a.X, b.Y-a.Y
		segLenSq := dx*dx + dy*dy
		if segLenSq == 0 {
			continue
		}
		t := ((x-a.X)*dx + (y-a.Y)*dy) / segLenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		px, py := a.X+t*dx, a.Y+t*dy
		dist := math.Hypot(x-px, y-py)
		if dist < bestDist {
			bestDist = dist
			// cross product sign decides the side
			cross := dx*(y-a.Y) - dy*(x-a.X)
			s = a.S + t*(b.S-a.S)
			if cross >= 0 {
				l = dist
			} else {
				l = -dist
			}
			ok = true
		}
	}
	return s, l, ok
}

// SLToXY converts a station/lateral pair back to Cartesian coordinates.
func (r *ReferenceLine) SLToXY(s, l float64) (x, y float64, ok bool) {
	p, ok := r.PointAt(s)
	if !ok {
		return 0, 0, false
	}
	// unit normal pointing left of the heading
	nx, ny := -math.Sin(p.Heading), math.Cos(p.Heading)
	return p.X + l*nx, p.Y + l*ny, true
}

// interpolateAngle interpolates between two angles along the shorter arc.
func interpolateAngle(a, b, t float64) float64 {
	return NormalizeAngle(a + t*NormalizeAngle(b-a))
}

// NormalizeAngle wraps an angle to [-pi, pi).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
