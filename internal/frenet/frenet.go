// Package frenet converts Cartesian vehicle states into the station/lateral
// frame of a reference curve. It owns the SLState produced once per planning
// cycle and the ReferenceLine collaborator type the rest of the pipeline
// queries for lane and road geometry.
package frenet

import (
	"fmt"
	"math"

	"github.com/banshee-data/corridor/internal/config"
)

// TrajectoryPoint is the vehicle's Cartesian planning start pose plus its
// kinematic state.
type TrajectoryPoint struct {
	X, Y    float64
	Heading float64 // radians
	Kappa   float64 // path curvature at the pose (1/m)
	V       float64 // speed (m/s)
	A       float64 // acceleration (m/s^2)
}

// SLState is the vehicle state in the reference-curve frame: station and
// lateral position with first and second derivatives. S derivatives are with
// respect to time; L derivatives are with respect to station.
type SLState struct {
	S [3]float64 // s, ds/dt, d2s/dt2
	L [3]float64 // l, dl/ds, d2l/ds2
}

// Transform projects Cartesian states onto a reference line using the
// vehicle geometry from the tuning config.
type Transform struct {
	cfg *config.Tuning
}

// NewTransform returns a Transform using cfg for vehicle geometry. A nil cfg
// uses all defaults.
func NewTransform(cfg *config.Tuning) *Transform {
	if cfg == nil {
		cfg = &config.Tuning{}
	}
	return &Transform{cfg: cfg}
}

// InferFrontAxleCenterFromRearAxleCenter shifts a rear-axle pose forward by
// the wheel base along the heading. Localization poses reference the rear
// axle; matching against the reference line with the rear-axle point biases
// the lateral estimate on curved roads.
func InferFrontAxleCenterFromRearAxleCenter(tp TrajectoryPoint, wheelBase float64) TrajectoryPoint {
	out := tp
	out.X = tp.X + wheelBase*math.Cos(tp.Heading)
	out.Y = tp.Y + wheelBase*math.Sin(tp.Heading)
	return out
}

// GetStartPoint projects the planning start pose onto the reference line and
// returns the initial SLState for the cycle.
func (t *Transform) GetStartPoint(tp TrajectoryPoint, ref *ReferenceLine) (SLState, error) {
	var state SLState
	if ref == nil {
		return state, fmt.Errorf("nil reference line")
	}

	matchPoint := tp
	if t.cfg.GetRearAxleRefPose() {
		matchPoint = InferFrontAxleCenterFromRearAxleCenter(tp, t.cfg.GetWheelBase())
	}

	s, l, ok := ref.XYToSL(matchPoint.X, matchPoint.Y)
	if !ok {
		return state, fmt.Errorf("cannot project start pose (%.3f, %.3f) onto reference line", tp.X, tp.Y)
	}
	rp, ok := ref.PointAt(clamp(s, ref.StartS(), ref.Length()))
	if !ok {
		return state, fmt.Errorf("station %.3f outside reference line domain", s)
	}

	dTheta := NormalizeAngle(tp.Heading - rp.Heading)
	cosDT := math.Cos(dTheta)
	tanDT := math.Tan(dTheta)
	oneMinusKL := 1 - rp.Kappa*l
	if oneMinusKL <= 1e-6 {
		return state, fmt.Errorf("start pose beyond curvature center of reference line (1-kappa*l = %.6f)", oneMinusKL)
	}

	lPrime := oneMinusKL * tanDT
	kappaRLPrime := rp.Kappa * lPrime
	dThetaPrime := oneMinusKL/cosDT*tp.Kappa - rp.Kappa
	lPPrime := -kappaRLPrime*tanDT + oneMinusKL/(cosDT*cosDT)*dThetaPrime

	sDot := tp.V * cosDT / oneMinusKL
	sDDot := (tp.A*cosDT - sDot*sDot*(lPrime*dThetaPrime-kappaRLPrime)) / oneMinusKL

	state.S = [3]float64{s, sDot, sDDot}
	state.L = [3]float64{l, lPrime, lPPrime}
	return state, nil
}

// GetADCLaneWidth returns the lane half-widths at station s. Outside the
// reference line's domain it falls back to a symmetric default width so
// boundary seeding can proceed conservatively.
func (t *Transform) GetADCLaneWidth(ref *ReferenceLine, s float64) (left, right float64) {
	if ref != nil {
		if l, r, ok := ref.LaneWidth(s); ok {
			return l, r
		}
	}
	half := t.cfg.GetDefaultLaneWidth() / 2
	return half, half
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
