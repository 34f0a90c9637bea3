package frenet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/corridor/internal/config"
)

// straightLine returns a reference line along the +x axis with 3.6 m lanes.
func straightLine(t *testing.T, length float64) *ReferenceLine {
	t.Helper()
	var pts []ReferencePoint
	for s := 0.0; s <= length; s += 10.0 {
		pts = append(pts, ReferencePoint{
			S: s, X: s, Y: 0, Heading: 0,
			LaneLeftWidth: 1.8, LaneRightWidth: 1.8,
			RoadLeftWidth: 4.0, RoadRightWidth: 4.0,
		})
	}
	ref, err := NewReferenceLine(pts)
	require.NoError(t, err)
	return ref
}

func TestNewReferenceLineValidation(t *testing.T) {
	_, err := NewReferenceLine([]ReferencePoint{{X: 0}})
	assert.Error(t, err, "single point is not a curve")

	_, err = NewReferenceLine([]ReferencePoint{{S: 5, X: 0}, {S: 5, X: 1}})
	assert.Error(t, err, "stations must strictly increase")
}

func TestNewReferenceLineDerivesStations(t *testing.T) {
	ref, err := NewReferenceLine([]ReferencePoint{
		{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 6, Y: 8},
	})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, ref.Length(), 1e-9)
}

func TestXYToSL(t *testing.T) {
	ref := straightLine(t, 100)

	s, l, ok := ref.XYToSL(25.0, 1.5)
	require.True(t, ok)
	assert.InDelta(t, 25.0, s, 1e-9)
	assert.InDelta(t, 1.5, l, 1e-9, "left of travel direction is positive l")

	s, l, ok = ref.XYToSL(40.0, -2.0)
	require.True(t, ok)
	assert.InDelta(t, 40.0, s, 1e-9)
	assert.InDelta(t, -2.0, l, 1e-9)
}

func TestSLToXYRoundTrip(t *testing.T) {
	ref := straightLine(t, 100)
	x, y, ok := ref.SLToXY(33.0, -1.2)
	require.True(t, ok)
	s, l, ok := ref.XYToSL(x, y)
	require.True(t, ok)
	assert.InDelta(t, 33.0, s, 1e-9)
	assert.InDelta(t, -1.2, l, 1e-9)
}

func TestGetStartPointStraightRoad(t *testing.T) {
	ref := straightLine(t, 100)
	rearAxle := false
	tf := NewTransform(&config.Tuning{RearAxleRefPose: &rearAxle})

	state, err := tf.GetStartPoint(TrajectoryPoint{X: 20, Y: 0.5, Heading: 0, V: 10, A: 0.5}, ref)
	require.NoError(t, err)

	assert.InDelta(t, 20.0, state.S[0], 1e-9)
	assert.InDelta(t, 10.0, state.S[1], 1e-9, "aligned heading: s_dot equals speed")
	assert.InDelta(t, 0.5, state.S[2], 1e-9)
	assert.InDelta(t, 0.5, state.L[0], 1e-9)
	assert.InDelta(t, 0.0, state.L[1], 1e-9, "aligned heading: no lateral drift")
}

func TestGetStartPointHeadingOffset(t *testing.T) {
	ref := straightLine(t, 100)
	rearAxle := false
	tf := NewTransform(&config.Tuning{RearAxleRefPose: &rearAxle})

	heading := 0.1
	state, err := tf.GetStartPoint(TrajectoryPoint{X: 20, Y: 0, Heading: heading, V: 10}, ref)
	require.NoError(t, err)

	assert.InDelta(t, 10*math.Cos(heading), state.S[1], 1e-9)
	assert.InDelta(t, math.Tan(heading), state.L[1], 1e-9)
}

func TestGetStartPointRearAxleCorrection(t *testing.T) {
	// On a straight road pointing +x, shifting the match point forward by
	// the wheel base changes the station but not the lateral estimate.
	ref := straightLine(t, 100)
	tf := NewTransform(&config.Tuning{})

	state, err := tf.GetStartPoint(TrajectoryPoint{X: 20, Y: 0.3, Heading: 0, V: 5}, ref)
	require.NoError(t, err)
	assert.InDelta(t, 20.0+(&config.Tuning{}).GetWheelBase(), state.S[0], 1e-9)
	assert.InDelta(t, 0.3, state.L[0], 1e-9)
}

func TestInferFrontAxleCenterFromRearAxleCenter(t *testing.T) {
	tp := TrajectoryPoint{X: 1, Y: 2, Heading: math.Pi / 2}
	front := InferFrontAxleCenterFromRearAxleCenter(tp, 2.8)
	assert.InDelta(t, 1.0, front.X, 1e-9)
	assert.InDelta(t, 4.8, front.Y, 1e-9)
}

func TestGetADCLaneWidthFallback(t *testing.T) {
	ref := straightLine(t, 100)
	tf := NewTransform(&config.Tuning{})

	left, right := tf.GetADCLaneWidth(ref, 50)
	assert.InDelta(t, 1.8, left, 1e-9)
	assert.InDelta(t, 1.8, right, 1e-9)

	// outside the domain: conservative symmetric default
	left, right = tf.GetADCLaneWidth(ref, 500)
	assert.InDelta(t, 1.8, left, 1e-9)
	assert.InDelta(t, 1.8, right, 1e-9)
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 0.0, NormalizeAngle(2*math.Pi), 1e-9)
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2), 1e-9)
	assert.InDelta(t, -math.Pi, NormalizeAngle(math.Pi), 1e-9)
}
