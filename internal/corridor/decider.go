package corridor

import (
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/corridor/internal/config"
	"github.com/banshee-data/corridor/internal/frenet"
	"github.com/banshee-data/corridor/internal/monitoring"
	"github.com/banshee-data/corridor/internal/obstacle"
)

// BoundaryMode selects which geometry source seeds the corridor.
type BoundaryMode int

const (
	// ModeLanesAndADC narrows to lane markings, honouring the lane-borrow
	// directive and the vehicle's own footprint. Default.
	ModeLanesAndADC BoundaryMode = iota
	// ModeSelfLane narrows to the current lane only.
	ModeSelfLane
	// ModeRoad narrows to the road edges.
	ModeRoad
)

// Request carries the read-only inputs of one planning cycle.
type Request struct {
	Ref       *frenet.ReferenceLine
	Obstacles *obstacle.Set
	Start     frenet.TrajectoryPoint

	Mode               BoundaryMode
	Borrow             LaneBorrowInfo
	ExtendADC          bool
	FallbackLaneChange bool
}

// Result is the output of one planning cycle.
type Result struct {
	Boundary       *PathBoundary
	InitSL         frenet.SLState
	BorrowLaneType string
}

// Decider runs the path-boundary pipeline. One Decider may be reused across
// cycles; all per-cycle state lives in the PathBoundary it produces.
type Decider struct {
	cfg *config.Tuning
	tf  *frenet.Transform
}

// NewDecider returns a Decider using cfg for all calibration values. A nil
// cfg uses defaults throughout.
func NewDecider(cfg *config.Tuning) *Decider {
	if cfg == nil {
		cfg = &config.Tuning{}
	}
	return &Decider{cfg: cfg, tf: frenet.NewTransform(cfg)}
}

// GetBufferBetweenADCCenterAndEdge returns the fixed lateral margin between
// the vehicle's center and the corridor edge: the half-width plus the
// configured edge buffer.
func (d *Decider) GetBufferBetweenADCCenterAndEdge() float64 {
	return d.cfg.GetVehicleWidth()/2 + d.cfg.GetADCEdgeBuffer()
}

// Decide runs the full pipeline for one cycle. Soft conditions (a corridor
// truncated by a blocking obstacle) are reported as data on the returned
// boundary; an error means the cycle produced no usable corridor and the
// caller must skip path planning this cycle.
func (d *Decider) Decide(req Request) (*Result, error) {
	if req.Ref == nil {
		return nil, fmt.Errorf("decide: nil reference line")
	}
	obstacles := req.Obstacles
	if obstacles == nil {
		obstacles = obstacle.NewSet()
	}

	initSL, err := d.tf.GetStartPoint(req.Start, req.Ref)
	if err != nil {
		return nil, fmt.Errorf("decide: project start point: %w", err)
	}

	bound, ok := d.InitPathBoundary(req.Ref, initSL)
	if !ok {
		return nil, fmt.Errorf("decide: cannot initialize path boundary at s=%.2f", initSL.S[0])
	}

	var borrowLaneType string
	switch req.Mode {
	case ModeSelfLane:
		ok = d.GetBoundaryFromSelfLane(req.Ref, initSL, bound)
	case ModeRoad:
		ok = d.GetBoundaryFromRoad(req.Ref, initSL, bound)
	default:
		ok = d.GetBoundaryFromLanesAndADC(req.Ref, req.Borrow, req.ExtendADC,
			d.cfg.GetADCEdgeBuffer(), bound, &borrowLaneType,
			req.FallbackLaneChange, initSL)
	}
	if !ok {
		return nil, fmt.Errorf("decide: vehicle blocked at its own station by lane/road geometry")
	}
	ConvertBoundarySAxisFromLaneCenterToRefLine(req.Ref, bound)

	polys := d.GetSLPolygons(req.Ref, obstacles, initSL)

	blockingID := ""
	narrowest := math.Inf(1)
	if !d.GetBoundaryFromStaticObstacles(polys, initSL, bound, &blockingID, &narrowest) {
		return nil, fmt.Errorf("decide: corridor collapsed at the vehicle's station (blocking obstacle %q)", blockingID)
	}
	if !d.UpdatePathBoundaryBySLPolygon(bound, polys, &blockingID, &narrowest) {
		return nil, fmt.Errorf("decide: corner refinement collapsed the corridor at the vehicle's station (blocking obstacle %q)", blockingID)
	}

	if !d.RelaxEgoLateralBoundary(bound, initSL) {
		return nil, fmt.Errorf("decide: vehicle's lateral state %.3f cannot be included in the corridor", initSL.L[0])
	}

	bound.BlockingObstacleID = blockingID
	if !math.IsInf(narrowest, 1) {
		bound.NarrowestWidth = narrowest
	} else if len(bound.Points) > 0 {
		w := math.Inf(1)
		for _, p := range bound.Points {
			w = math.Min(w, p.Width())
		}
		bound.NarrowestWidth = w
	}

	if blockingID != "" {
		monitoring.Logf("corridor: boundary truncated at s=%.2f by obstacle %s", bound.EndS(), blockingID)
	}

	return &Result{Boundary: bound, InitSL: initSL, BorrowLaneType: borrowLaneType}, nil
}

// GetSLPolygons projects every path-decision-scope obstacle into SL space
// and returns the footprints intersecting the cycle's station range, sorted
// by start station.
func (d *Decider) GetSLPolygons(ref *frenet.ReferenceLine, obstacles *obstacle.Set, initSL frenet.SLState) []*obstacle.SLPolygon {
	var projected []*obstacle.SLPolygon
	for _, obs := range obstacles.Items() {
		if !IsWithinPathDeciderScopeObstacle(obs) {
			continue
		}
		poly, ok := obstacle.ProjectToSL(obs, ref)
		if !ok {
			monitoring.Logf("corridor: skipping obstacle %s: cannot project footprint", obs.ID)
			continue
		}
		projected = append(projected, poly)
	}
	if len(projected) == 0 {
		return nil
	}

	ix := obstacle.NewIndex(projected)
	scope := d.cfg.GetObstacleLatScope()
	startS := initSL.S[0]
	polys := ix.SearchRange(startS, startS+d.cfg.GetHorizon(), -scope, scope)

	// drop footprints entirely behind the vehicle
	kept := polys[:0]
	for _, p := range polys {
		if p.MaxS() > startS {
			kept = append(kept, p)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].MinS() != kept[j].MinS() {
			return kept[i].MinS() < kept[j].MinS()
		}
		return kept[i].ID < kept[j].ID
	})
	return kept
}

// IsPointWithinPathBound tests a Cartesian point against the finished
// boundary.
func (d *Decider) IsPointWithinPathBound(ref *frenet.ReferenceLine, x, y float64, bound *PathBoundary) PointBoundCheck {
	if ref == nil || bound == nil || len(bound.Points) == 0 {
		return PointOutOfRange
	}
	s, l, ok := ref.XYToSL(x, y)
	if !ok || s < bound.StartS() || s > bound.EndS() {
		return PointOutOfRange
	}
	if len(bound.Points) == 1 {
		// a trimmed boundary can be left with a single sample
		pt := bound.Points[0]
		switch {
		case l > pt.LMax:
			return PointOutsideLeft
		case l < pt.LMin:
			return PointOutsideRight
		default:
			return PointWithinBound
		}
	}
	i := sort.Search(len(bound.Points), func(i int) bool { return bound.Points[i].S > s }) - 1
	if i < 0 {
		i = 0
	}
	if i > len(bound.Points)-2 {
		i = len(bound.Points) - 2
	}
	a, b := bound.Points[i], bound.Points[i+1]
	t := 0.0
	if b.S > a.S {
		t = (s - a.S) / (b.S - a.S)
	}
	lMin := a.LMin + t*(b.LMin-a.LMin)
	lMax := a.LMax + t*(b.LMax-a.LMax)
	switch {
	case l > lMax:
		return PointOutsideLeft
	case l < lMin:
		return PointOutsideRight
	default:
		return PointWithinBound
	}
}
