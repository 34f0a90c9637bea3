package corridor

import (
	"github.com/banshee-data/corridor/internal/frenet"
)

// InitPathBoundary builds the initial unconstrained boundary: one sample
// per station increment from the vehicle's current station to the planning
// horizon (clipped to the reference line's end), every lateral bound set to
// the maximal representable interval with type unknown. Returns ok=false
// when no boundary can be built this cycle, e.g. the vehicle is already at
// or past the curve's end.
func (d *Decider) InitPathBoundary(ref *frenet.ReferenceLine, initSL frenet.SLState) (*PathBoundary, bool) {
	if ref == nil {
		return nil, false
	}
	startS := initSL.S[0]
	if startS < ref.StartS() || startS >= ref.Length() {
		return nil, false
	}

	step := d.cfg.GetStationResolution()
	endS := startS + d.cfg.GetHorizon()
	if endS > ref.Length() {
		endS = ref.Length()
	}

	bound := &PathBoundary{}
	for i := 0; ; i++ {
		s := startS + float64(i)*step
		if s > endS {
			break
		}
		bound.Points = append(bound.Points, PathBoundPoint{
			S:         s,
			LMin:      -UnboundedL,
			LMax:      UnboundedL,
			LowerType: BoundUnknown,
			UpperType: BoundUnknown,
			CenterL:   initSL.L[0],
		})
	}
	if len(bound.Points) < 2 {
		return nil, false
	}
	return bound, true
}
