package corridor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/corridor/internal/frenet"
)

func TestUpdatePathBoundaryWithBuffer(t *testing.T) {
	pt := PathBoundPoint{S: 5, LMin: -UnboundedL, LMax: UnboundedL}

	ok := UpdatePathBoundaryWithBuffer(1.8, -1.8, BoundLane, BoundLane, "lane-1", "lane-1", 1.5, &pt)
	require.True(t, ok)
	assert.InDelta(t, 0.3, pt.LMax, 1e-9)
	assert.InDelta(t, -0.3, pt.LMin, 1e-9)
	assert.Equal(t, BoundLane, pt.UpperType)
	assert.Equal(t, "lane-1", pt.UpperID)

	// a looser update must not widen the interval
	ok = UpdatePathBoundaryWithBuffer(10, -10, BoundRoad, BoundRoad, "", "", 1.5, &pt)
	require.True(t, ok)
	assert.InDelta(t, 0.3, pt.LMax, 1e-9)
	assert.Equal(t, BoundLane, pt.UpperType, "untouched side keeps its provenance")
}

func TestUpdatePathBoundaryWithBufferBlocked(t *testing.T) {
	pt := PathBoundPoint{S: 5, LMin: -0.3, LMax: 0.3}
	ok := UpdatePathBoundaryWithBuffer(1.0, -1.0, BoundObstacle, BoundObstacle, "o1", "o1", 1.5, &pt)
	assert.False(t, ok, "buffered bounds cross: station is blocked")
	assert.Greater(t, pt.LMin, pt.LMax)
}

func TestUpdateSingleSided(t *testing.T) {
	pt := PathBoundPoint{LMin: -3, LMax: 3}

	require.True(t, UpdateLeftPathBoundaryWithBuffer(2.0, BoundObstacle, "o1", 0.5, &pt))
	assert.InDelta(t, 1.5, pt.LMax, 1e-9)
	assert.Equal(t, "o1", pt.UpperID)
	assert.InDelta(t, -3.0, pt.LMin, 1e-9, "right side untouched")

	require.True(t, UpdateRightPathBoundaryWithBuffer(-2.0, BoundObstacle, "o2", 0.5, &pt))
	assert.InDelta(t, -1.5, pt.LMin, 1e-9)
	assert.Equal(t, "o2", pt.LowerID)
}

func TestGetBoundaryFromLanesAndADC(t *testing.T) {
	d := NewDecider(testTuning())
	ref := testRefLine(t, 100)

	var initSL frenet.SLState
	initSL.S[0] = 0
	initSL.L[0] = 0

	bound, ok := d.InitPathBoundary(ref, initSL)
	require.True(t, ok)

	var borrowType string
	require.True(t, d.GetBoundaryFromLanesAndADC(ref, NoBorrow, false, 0, bound, &borrowType, false, initSL))
	requireOpenIntervals(t, bound)

	// lane half-width 1.8 minus 1.5 buffer
	for _, pt := range bound.Points {
		assert.InDelta(t, 0.3, pt.LMax, 1e-9)
		assert.InDelta(t, -0.3, pt.LMin, 1e-9)
		assert.Equal(t, BoundLane, pt.UpperType)
	}
	assert.Empty(t, borrowType)
}

func TestGetBoundaryFromLanesAndADCLeftBorrow(t *testing.T) {
	d := NewDecider(testTuning())
	ref := testRefLine(t, 100)

	var initSL frenet.SLState
	bound, ok := d.InitPathBoundary(ref, initSL)
	require.True(t, ok)

	var borrowType string
	require.True(t, d.GetBoundaryFromLanesAndADC(ref, LeftBorrow, false, 0, bound, &borrowType, false, initSL))
	assert.Equal(t, "left", borrowType)

	// left bound shifted out by the adjacent lane's 3.6 m width
	for _, pt := range bound.Points {
		assert.InDelta(t, 1.8+3.6-1.5, pt.LMax, 1e-9)
		assert.InDelta(t, -0.3, pt.LMin, 1e-9, "right side unaffected by a left borrow")
	}
}

func TestGetBoundaryFromLanesAndADCExtendsToVehicle(t *testing.T) {
	d := NewDecider(testTuning())
	ref := testRefLine(t, 100)

	// vehicle 0.2 m beyond the nominal left lane edge
	var initSL frenet.SLState
	initSL.L[0] = 2.0

	bound, ok := d.InitPathBoundary(ref, initSL)
	require.True(t, ok)

	require.True(t, d.GetBoundaryFromLanesAndADC(ref, NoBorrow, true, 0.5, bound, nil, false, initSL))

	first := bound.Points[0]
	assert.GreaterOrEqual(t, first.LMax, initSL.L[0], "bound must include the vehicle's position")
	assert.Equal(t, BoundADC, first.UpperType)
	assert.Equal(t, "adc", first.UpperID)
}

func TestGetBoundaryFromLanesAndADCBlockedWithoutExtension(t *testing.T) {
	// narrow lane plus a wide vehicle: the buffered interval is empty at
	// every station, so nothing of the boundary survives
	cfg := testTuning()
	wide := 5.0
	cfg.VehicleWidth = &wide
	d := NewDecider(cfg)
	ref := testRefLine(t, 100)

	var initSL frenet.SLState
	bound, ok := d.InitPathBoundary(ref, initSL)
	require.True(t, ok)

	assert.False(t, d.GetBoundaryFromLanesAndADC(ref, NoBorrow, false, 0, bound, nil, false, initSL))
}

func TestGetBoundaryFromSelfLane(t *testing.T) {
	d := NewDecider(testTuning())
	ref := testRefLine(t, 100)

	var initSL frenet.SLState
	initSL.L[0] = 2.2 // outside the nominal lane

	bound, ok := d.InitPathBoundary(ref, initSL)
	require.True(t, ok)

	require.True(t, d.GetBoundaryFromSelfLane(ref, initSL, bound))
	requireOpenIntervals(t, bound)
	assert.GreaterOrEqual(t, bound.Points[0].LMax, initSL.L[0])
	assert.Equal(t, BoundADC, bound.Points[0].UpperType)
}

func TestGetBoundaryFromRoad(t *testing.T) {
	d := NewDecider(testTuning())
	ref := testRefLine(t, 100)

	var initSL frenet.SLState
	bound, ok := d.InitPathBoundary(ref, initSL)
	require.True(t, ok)

	require.True(t, d.GetBoundaryFromRoad(ref, initSL, bound))
	// road half-width 4.0 minus 1.5 buffer
	for _, pt := range bound.Points {
		assert.InDelta(t, 2.5, pt.LMax, 1e-9)
		assert.InDelta(t, -2.5, pt.LMin, 1e-9)
		assert.Equal(t, BoundRoad, pt.UpperType)
	}
}

func TestExtendBoundaryByADC(t *testing.T) {
	d := NewDecider(testTuning())
	ref := testRefLine(t, 100)

	var initSL frenet.SLState
	initSL.L[0] = 2.0 // 0.2 beyond the 1.8 lane edge

	bound := wideBoundary(10, -0.3, 0.3)
	require.True(t, d.ExtendBoundaryByADC(ref, initSL, 0.5, bound))

	// 2.0 + half width 1.0 + 0.5 extend buffer
	for _, pt := range bound.Points {
		assert.InDelta(t, 3.5, pt.LMax, 1e-9)
		assert.GreaterOrEqual(t, pt.LMax, initSL.L[0])
		assert.Equal(t, BoundADC, pt.UpperType)
		assert.InDelta(t, -0.3, pt.LMin, 1e-9, "opposite side untouched")
	}
}

func TestConvertBoundarySAxisFromLaneCenterToRefLine(t *testing.T) {
	var pts []frenet.ReferencePoint
	for s := 0.0; s <= 100; s += 10 {
		pts = append(pts, frenet.ReferencePoint{
			S: s, X: s, Y: 0,
			LaneLeftWidth: 1.8, LaneRightWidth: 1.8,
			OffsetToLaneCenter: 0.5,
		})
	}
	ref, err := frenet.NewReferenceLine(pts)
	require.NoError(t, err)

	bound := wideBoundary(10, -0.3, 0.3)
	ConvertBoundarySAxisFromLaneCenterToRefLine(ref, bound)
	for _, pt := range bound.Points {
		assert.InDelta(t, -0.8, pt.LMin, 1e-9)
		assert.InDelta(t, -0.2, pt.LMax, 1e-9)
	}
}
