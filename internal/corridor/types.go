package corridor

import "math"

// UnboundedL is the sentinel magnitude for an unconstrained lateral bound.
const UnboundedL = 1e10

// BoundType tags the provenance of a bound value.
type BoundType int

const (
	BoundUnknown BoundType = iota
	BoundLane
	BoundRoad
	BoundObstacle
	BoundADC
)

func (t BoundType) String() string {
	switch t {
	case BoundLane:
		return "lane"
	case BoundRoad:
		return "road"
	case BoundObstacle:
		return "obstacle"
	case BoundADC:
		return "adc"
	default:
		return "unknown"
	}
}

// LaneBorrowInfo is the maneuver decision dictating whether the corridor may
// cross into an adjacent lane.
type LaneBorrowInfo int

const (
	NoBorrow LaneBorrowInfo = iota
	LeftBorrow
	RightBorrow
)

func (b LaneBorrowInfo) String() string {
	switch b {
	case LeftBorrow:
		return "left_borrow"
	case RightBorrow:
		return "right_borrow"
	default:
		return "no_borrow"
	}
}

// PathBoundPoint is one sample of the boundary: the admissible lateral
// interval [LMin, LMax] at station S, the provenance of each bound, and the
// running center-line estimate.
type PathBoundPoint struct {
	S    float64
	LMin float64
	LMax float64

	LowerType BoundType
	UpperType BoundType
	LowerID   string
	UpperID   string

	CenterL float64
}

// Width returns the lateral extent of the interval.
func (p PathBoundPoint) Width() float64 {
	return p.LMax - p.LMin
}

// PathBoundary is the in-progress corridor for one planning cycle. It is
// constructed fresh every cycle, mutated in place by each pipeline stage,
// and never shared across cycles.
type PathBoundary struct {
	Points []PathBoundPoint

	// BlockingObstacleID names the obstacle responsible for truncation,
	// empty when the corridor reaches the full horizon.
	BlockingObstacleID string

	// NarrowestWidth is the smallest interval width encountered across the
	// surviving stations.
	NarrowestWidth float64
}

// Len returns the number of boundary samples.
func (b *PathBoundary) Len() int {
	return len(b.Points)
}

// StartS returns the station of the first sample, NaN when empty.
func (b *PathBoundary) StartS() float64 {
	if len(b.Points) == 0 {
		return math.NaN()
	}
	return b.Points[0].S
}

// EndS returns the station of the last sample, NaN when empty.
func (b *PathBoundary) EndS() float64 {
	if len(b.Points) == 0 {
		return math.NaN()
	}
	return b.Points[len(b.Points)-1].S
}

// ObstacleEdge is one sweep event: the station where an obstacle's
// projected footprint begins or ends, together with its padded lateral
// extent.
type ObstacleEdge struct {
	IsStart bool
	S       float64
	LMin    float64
	LMax    float64
	ID      string
}

// PointBoundCheck is the result of testing a Cartesian point against the
// finished boundary.
type PointBoundCheck int

const (
	PointWithinBound PointBoundCheck = iota
	PointOutsideLeft
	PointOutsideRight
	PointOutOfRange
)

func (c PointBoundCheck) String() string {
	switch c {
	case PointWithinBound:
		return "within"
	case PointOutsideLeft:
		return "outside_left"
	case PointOutsideRight:
		return "outside_right"
	default:
		return "out_of_range"
	}
}
