package corridor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banshee-data/corridor/internal/config"
	"github.com/banshee-data/corridor/internal/frenet"
	"github.com/banshee-data/corridor/internal/obstacle"
)

// testTuning pins the calibration values the geometry assertions depend on:
// a 2.0 m vehicle with a 0.5 m edge buffer gives a 1.5 m center-to-edge
// buffer, and obstacles are padded by 0.4 m.
func testTuning() *config.Tuning {
	res := 0.5
	horizon := 100.0
	width := 2.0
	edge := 0.5
	obsBuf := 0.4
	rearAxle := false
	return &config.Tuning{
		StationResolution: &res,
		Horizon:           &horizon,
		VehicleWidth:      &width,
		ADCEdgeBuffer:     &edge,
		ObstacleLBuffer:   &obsBuf,
		RearAxleRefPose:   &rearAxle,
	}
}

// testRefLine returns a straight reference line along +x with 1.8 m lane
// halves and 4.0 m road halves.
func testRefLine(t *testing.T, length float64) *frenet.ReferenceLine {
	t.Helper()
	var pts []frenet.ReferencePoint
	for s := 0.0; s <= length; s += 10.0 {
		pts = append(pts, frenet.ReferencePoint{
			S: s, X: s, Y: 0,
			LaneLeftWidth: 1.8, LaneRightWidth: 1.8,
			RoadLeftWidth: 4.0, RoadRightWidth: 4.0,
			AdjLeftLaneWidth: 3.6, AdjRightLaneWidth: 3.6,
		})
	}
	ref, err := frenet.NewReferenceLine(pts)
	require.NoError(t, err)
	return ref
}

// wideBoundary builds a boundary over [0, length] at 0.5 m steps with fixed
// lateral bounds, bypassing the lane stage for sweep-focused tests.
func wideBoundary(length, lMin, lMax float64) *PathBoundary {
	b := &PathBoundary{}
	for s := 0.0; s <= length; s += 0.5 {
		b.Points = append(b.Points, PathBoundPoint{
			S: s, LMin: lMin, LMax: lMax,
			LowerType: BoundLane, UpperType: BoundLane,
		})
	}
	return b
}

// rectObstacle returns an SL rectangle footprint.
func rectObstacle(id string, sMin, sMax, lMin, lMax float64) *obstacle.SLPolygon {
	return obstacle.NewSLPolygon(id, []obstacle.SLPoint{
		{S: sMin, L: lMin}, {S: sMax, L: lMin}, {S: sMax, L: lMax}, {S: sMin, L: lMax},
	})
}

// requireStrictlyIncreasing asserts the boundary station invariant.
func requireStrictlyIncreasing(t *testing.T, b *PathBoundary) {
	t.Helper()
	for i := 1; i < len(b.Points); i++ {
		require.Greater(t, b.Points[i].S, b.Points[i-1].S,
			"stations must strictly increase at index %d", i)
	}
}

// requireOpenIntervals asserts l_min <= l_max at every surviving station.
func requireOpenIntervals(t *testing.T, b *PathBoundary) {
	t.Helper()
	for i, pt := range b.Points {
		require.LessOrEqual(t, pt.LMin, pt.LMax, "interval collapsed at index %d (s=%.2f)", i, pt.S)
	}
}
