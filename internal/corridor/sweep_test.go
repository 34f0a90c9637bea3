package corridor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/corridor/internal/frenet"
	"github.com/banshee-data/corridor/internal/obstacle"
)

func TestIsWithinPathDeciderScopeObstacle(t *testing.T) {
	assert.True(t, IsWithinPathDeciderScopeObstacle(&obstacle.Obstacle{ID: "o", IsStatic: true}))
	assert.False(t, IsWithinPathDeciderScopeObstacle(&obstacle.Obstacle{ID: "o", IsStatic: false}),
		"moving obstacles belong to speed planning")
	assert.False(t, IsWithinPathDeciderScopeObstacle(&obstacle.Obstacle{ID: "o", IsStatic: true, IsVirtual: true}))
	assert.False(t, IsWithinPathDeciderScopeObstacle(nil))
}

func TestSortObstaclesForSweepLine(t *testing.T) {
	polys := []*obstacle.SLPolygon{
		rectObstacle("b", 15, 25, -1, 1),
		rectObstacle("a", 10, 15, 0, 2),
	}
	edges := SortObstaclesForSweepLine(polys, 0.4)
	require.Len(t, edges, 4)

	assert.Equal(t, "a", edges[0].ID)
	assert.True(t, edges[0].IsStart)
	assert.Equal(t, 10.0, edges[0].S)

	// at s=15 obstacle b starts and obstacle a ends: start first
	assert.Equal(t, "b", edges[1].ID)
	assert.True(t, edges[1].IsStart)
	assert.Equal(t, "a", edges[2].ID)
	assert.False(t, edges[2].IsStart)

	assert.InDelta(t, -1.4, edges[1].LMin, 1e-9, "lateral extent padded by the buffer")
	assert.InDelta(t, 1.4, edges[1].LMax, 1e-9)
}

func TestFreeGaps(t *testing.T) {
	gaps := freeGaps(-3, 3, []lGap{{lo: -1, hi: 1, loID: "o", hiID: "o"}})
	require.Len(t, gaps, 2)
	assert.Equal(t, lGap{lo: -3, hi: -1, hiID: "o"}, gaps[0])
	assert.Equal(t, lGap{lo: 1, hi: 3, loID: "o"}, gaps[1])

	// overlapping footprints merge
	gaps = freeGaps(-3, 3, []lGap{
		{lo: -1, hi: 1, loID: "a", hiID: "a"},
		{lo: 0.5, hi: 2, loID: "b", hiID: "b"},
	})
	require.Len(t, gaps, 2)
	assert.Equal(t, lGap{lo: -3, hi: -1, hiID: "a"}, gaps[0])
	assert.Equal(t, lGap{lo: 2, hi: 3, loID: "b"}, gaps[1])

	// fully covered corridor leaves no gap
	gaps = freeGaps(-1, 1, []lGap{{lo: -2, hi: 2, loID: "a", hiID: "a"}})
	assert.Empty(t, gaps)
}

func TestChooseGap(t *testing.T) {
	left := lGap{lo: 1, hi: 3, loID: "o"}
	right := lGap{lo: -3, hi: -1, hiID: "o"}

	g, ok := chooseGap([]lGap{right, left}, 2.0)
	require.True(t, ok)
	assert.Equal(t, left, g, "gap containing the center line wins")

	g, ok = chooseGap([]lGap{right, left}, 0.0)
	require.True(t, ok)
	assert.Equal(t, left, g, "center inside the obstacle: equal widths tie to the left")

	wider := lGap{lo: -5, hi: -1, hiID: "o"}
	g, ok = chooseGap([]lGap{wider, left}, 0.0)
	require.True(t, ok)
	assert.Equal(t, wider, g, "wider gap wins when the center is occupied")

	_, ok = chooseGap(nil, 0)
	assert.False(t, ok)
}

// Sweep-line correctness over a single rectangular obstacle: stations
// outside its span keep the unconstrained bounds, stations inside keep the
// wider free side, and no covered station retains the default interval.
func TestGetBoundaryFromStaticObstaclesSingleRect(t *testing.T) {
	d := NewDecider(testTuning())

	bound := wideBoundary(30, -3, 3)
	polys := []*obstacle.SLPolygon{rectObstacle("obs-1", 10, 20, -1, 1)}

	var initSL frenet.SLState // center starts at l=0, inside the obstacle
	blockingID := ""
	narrowest := math.Inf(1)
	require.True(t, d.GetBoundaryFromStaticObstacles(polys, initSL, bound, &blockingID, &narrowest))

	assert.Empty(t, blockingID)
	requireOpenIntervals(t, bound)
	requireStrictlyIncreasing(t, bound)

	for _, pt := range bound.Points {
		if pt.S < 10 || pt.S > 20 {
			assert.InDelta(t, -3.0, pt.LMin, 1e-9, "untouched outside the span (s=%.1f)", pt.S)
			assert.InDelta(t, 3.0, pt.LMax, 1e-9)
			continue
		}
		// covered stations must not keep the default interval
		assert.False(t, pt.LMin == -3 && pt.LMax == 3, "station %.1f kept the unconstrained default", pt.S)
		// the tie breaks left: the surviving side is above the obstacle
		assert.Greater(t, pt.LMin, 1.0)
		assert.Equal(t, BoundObstacle, pt.LowerType)
		assert.Equal(t, "obs-1", pt.LowerID)
	}
	assert.False(t, math.IsInf(narrowest, 1))
}

func TestGetBoundaryFromStaticObstaclesKeepsCenterSide(t *testing.T) {
	d := NewDecider(testTuning())

	bound := wideBoundary(30, -3, 3)
	// off-center obstacle hugging the left: the free right side contains
	// the vehicle's lateral position
	polys := []*obstacle.SLPolygon{rectObstacle("obs-1", 10, 20, 0.5, 3)}

	var initSL frenet.SLState
	initSL.L[0] = -1.0

	blockingID := ""
	narrowest := math.Inf(1)
	require.True(t, d.GetBoundaryFromStaticObstacles(polys, initSL, bound, &blockingID, &narrowest))

	for _, pt := range bound.Points {
		if pt.S >= 10 && pt.S <= 20 {
			assert.Less(t, pt.LMax, 0.5, "corridor stays below the obstacle")
			assert.Equal(t, "obs-1", pt.UpperID)
			assert.InDelta(t, -3.0, pt.LMin, 1e-9)
		}
	}
}

func TestGetBoundaryFromStaticObstaclesBlocked(t *testing.T) {
	d := NewDecider(testTuning())

	bound := wideBoundary(30, -3, 3)
	// footprint spans the full corridor width from s=12 on
	polys := []*obstacle.SLPolygon{rectObstacle("wall", 12, 14, -4, 4)}

	var initSL frenet.SLState
	blockingID := ""
	narrowest := math.Inf(1)
	require.True(t, d.GetBoundaryFromStaticObstacles(polys, initSL, bound, &blockingID, &narrowest),
		"a truncated boundary is still usable")

	assert.Equal(t, "wall", blockingID)
	assert.Less(t, bound.EndS(), 12.0, "boundary ends before the wall")
	requireOpenIntervals(t, bound)
}

func TestGetBoundaryFromStaticObstaclesBlockedAtStart(t *testing.T) {
	d := NewDecider(testTuning())

	bound := wideBoundary(30, -3, 3)
	polys := []*obstacle.SLPolygon{rectObstacle("wall", 0, 5, -4, 4)}

	var initSL frenet.SLState
	blockingID := ""
	narrowest := math.Inf(1)
	assert.False(t, d.GetBoundaryFromStaticObstacles(polys, initSL, bound, &blockingID, &narrowest),
		"collapse at the vehicle's own station leaves no boundary")
	assert.Equal(t, "wall", blockingID)
}

func TestGetBoundaryFromStaticObstaclesTwoObstaclesGapBetween(t *testing.T) {
	cfg := testTuning()
	narrowVehicle := 0.8
	edge := 0.1
	obsBuf := 0.1
	cfg.VehicleWidth = &narrowVehicle
	cfg.ADCEdgeBuffer = &edge
	cfg.ObstacleLBuffer = &obsBuf
	d := NewDecider(cfg)

	bound := wideBoundary(30, -3, 3)
	polys := []*obstacle.SLPolygon{
		rectObstacle("left", 10, 20, 1.0, 3.0),
		rectObstacle("right", 10, 20, -3.0, -1.0),
	}

	var initSL frenet.SLState // center at 0, inside the gap between both
	blockingID := ""
	narrowest := math.Inf(1)
	require.True(t, d.GetBoundaryFromStaticObstacles(polys, initSL, bound, &blockingID, &narrowest))

	for _, pt := range bound.Points {
		if pt.S >= 10 && pt.S <= 20 {
			assert.Equal(t, "left", pt.UpperID)
			assert.Equal(t, "right", pt.LowerID)
			assert.Less(t, pt.LMax, 1.0)
			assert.Greater(t, pt.LMin, -1.0)
		}
	}
	// gap 2.0 wide minus two pads (0.1) and two vehicle buffers (0.5)
	assert.InDelta(t, 0.8, narrowest, 1e-9)
}

func TestUpdatePathBoundaryAndCenterLineWithBuffer(t *testing.T) {
	d := NewDecider(testTuning())
	bound := wideBoundary(5, -3, 3)

	centerLine := 0.0
	require.True(t, d.UpdatePathBoundaryAndCenterLineWithBuffer(0, UnboundedL, -1.0, "", "obs-1", bound, &centerLine))

	pt := bound.Points[0]
	assert.InDelta(t, 0.5, pt.LMin, 1e-9, "gap edge plus 1.5 buffer")
	assert.InDelta(t, 3.0, pt.LMax, 1e-9)
	// midpoint 1.75, blend 0.5: center nudged halfway toward it
	assert.InDelta(t, 0.875, centerLine, 1e-9)
	assert.InDelta(t, 0.875, pt.CenterL, 1e-9)
}

func TestBoundaryDeterminism(t *testing.T) {
	d := NewDecider(testTuning())
	polys := []*obstacle.SLPolygon{
		rectObstacle("a", 5, 9, -2, 0),
		rectObstacle("b", 8, 14, 0.5, 2.5),
	}
	run := func() *PathBoundary {
		bound := wideBoundary(30, -3, 3)
		var initSL frenet.SLState
		blockingID := ""
		narrowest := math.Inf(1)
		require.True(t, d.GetBoundaryFromStaticObstacles(polys, initSL, bound, &blockingID, &narrowest))
		return bound
	}
	first := run()
	second := run()
	require.Equal(t, first, second, "identical inputs must produce identical boundaries")
}
