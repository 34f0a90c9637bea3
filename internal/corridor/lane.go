package corridor

import (
	"math"

	"github.com/banshee-data/corridor/internal/frenet"
)

// UpdatePathBoundaryWithBuffer narrows a boundary point on both sides:
// the new upper bound is leftBound minus buffer, the new lower bound is
// rightBound plus buffer, each applied only where it tightens the existing
// interval. Returns false exactly when the update empties the interval,
// meaning the vehicle is blocked at this station.
func UpdatePathBoundaryWithBuffer(leftBound, rightBound float64, leftType, rightType BoundType,
	leftID, rightID string, buffer float64, pt *PathBoundPoint) bool {
	okLeft := UpdateLeftPathBoundaryWithBuffer(leftBound, leftType, leftID, buffer, pt)
	okRight := UpdateRightPathBoundaryWithBuffer(rightBound, rightType, rightID, buffer, pt)
	return okLeft && okRight
}

// UpdateLeftPathBoundaryWithBuffer narrows the upper (left) bound of a
// boundary point to leftBound minus buffer, tagging provenance when it
// tightens. Returns false when the interval becomes empty.
func UpdateLeftPathBoundaryWithBuffer(leftBound float64, leftType BoundType, leftID string,
	buffer float64, pt *PathBoundPoint) bool {
	newLMax := leftBound - buffer
	if newLMax < pt.LMax {
		pt.LMax = newLMax
		pt.UpperType = leftType
		pt.UpperID = leftID
	}
	return pt.LMin <= pt.LMax
}

// UpdateRightPathBoundaryWithBuffer narrows the lower (right) bound of a
// boundary point to rightBound plus buffer, tagging provenance when it
// tightens. Returns false when the interval becomes empty.
func UpdateRightPathBoundaryWithBuffer(rightBound float64, rightType BoundType, rightID string,
	buffer float64, pt *PathBoundPoint) bool {
	newLMin := rightBound + buffer
	if newLMin > pt.LMin {
		pt.LMin = newLMin
		pt.LowerType = rightType
		pt.LowerID = rightID
	}
	return pt.LMin <= pt.LMax
}

// GetBoundaryFromLanesAndADC narrows every station to the lane extents,
// applying the lane-borrow directive and, when isExtendADC is set, widening
// the nominal bound just enough to include the vehicle's current footprint
// plus adcBuffer. isFallbackLaneChange relaxes the edge buffer for
// degraded-confidence lane changes. Returns false when the vehicle is
// blocked at its own station.
func (d *Decider) GetBoundaryFromLanesAndADC(ref *frenet.ReferenceLine, borrow LaneBorrowInfo,
	isExtendADC bool, adcBuffer float64, bound *PathBoundary, borrowLaneType *string,
	isFallbackLaneChange bool, initSL frenet.SLState) bool {
	if bound == nil || len(bound.Points) == 0 {
		return false
	}

	buffer := d.GetBufferBetweenADCCenterAndEdge()
	if isFallbackLaneChange {
		buffer *= d.cfg.GetFallbackBufferScale()
	}

	adcHalfWidth := d.cfg.GetVehicleWidth() / 2
	adcLMax := initSL.L[0] + adcHalfWidth + adcBuffer
	adcLMin := initSL.L[0] - adcHalfWidth - adcBuffer

	blockedIdx := -1
	for i := range bound.Points {
		pt := &bound.Points[i]
		laneLeft, laneRight := d.tf.GetADCLaneWidth(ref, pt.S)

		currLeft := laneLeft
		currRight := -laneRight
		leftType, rightType := BoundLane, BoundLane
		leftID, rightID := "", ""

		adjLeft, adjRight := ref.AdjacentLaneWidth(pt.S)
		switch borrow {
		case LeftBorrow:
			if adjLeft > 0 {
				currLeft += adjLeft
				if borrowLaneType != nil {
					*borrowLaneType = "left"
				}
			}
		case RightBorrow:
			if adjRight > 0 {
				currRight -= adjRight
				if borrowLaneType != nil {
					*borrowLaneType = "right"
				}
			}
		}

		if isExtendADC {
			if adcLMax > currLeft {
				currLeft = adcLMax
				leftType = BoundADC
				leftID = "adc"
			}
			if adcLMin < currRight {
				currRight = adcLMin
				rightType = BoundADC
				rightID = "adc"
			}
		}

		if !UpdatePathBoundaryWithBuffer(currLeft, currRight, leftType, rightType,
			leftID, rightID, buffer, pt) {
			blockedIdx = i
			break
		}
	}

	if blockedIdx >= 0 {
		TrimPathBounds(blockedIdx, bound)
	}
	return len(bound.Points) > 0
}

// GetBoundaryFromSelfLane narrows every station to the current lane and
// extends the result to include the vehicle's own footprint.
func (d *Decider) GetBoundaryFromSelfLane(ref *frenet.ReferenceLine, initSL frenet.SLState, bound *PathBoundary) bool {
	if !d.GetBoundaryFromLanesAndADC(ref, NoBorrow, false, 0, bound, nil, false, initSL) {
		return false
	}
	return d.ExtendBoundaryByADC(ref, initSL, d.cfg.GetADCEdgeBuffer(), bound)
}

// GetBoundaryFromRoad narrows every station to the road edges.
func (d *Decider) GetBoundaryFromRoad(ref *frenet.ReferenceLine, initSL frenet.SLState, bound *PathBoundary) bool {
	if bound == nil || len(bound.Points) == 0 {
		return false
	}
	buffer := d.GetBufferBetweenADCCenterAndEdge()
	defaultHalf := d.cfg.GetDefaultLaneWidth() / 2

	blockedIdx := -1
	for i := range bound.Points {
		pt := &bound.Points[i]
		roadLeft, roadRight, ok := ref.RoadWidth(pt.S)
		if !ok {
			roadLeft, roadRight = defaultHalf, defaultHalf
		}
		if !UpdatePathBoundaryWithBuffer(roadLeft, -roadRight, BoundRoad, BoundRoad,
			"", "", buffer, pt) {
			blockedIdx = i
			break
		}
	}
	if blockedIdx >= 0 {
		TrimPathBounds(blockedIdx, bound)
	}
	if len(bound.Points) == 0 {
		return false
	}
	return d.ExtendBoundaryByADC(ref, initSL, d.cfg.GetADCEdgeBuffer(), bound)
}

// ExtendBoundaryByADC widens each station's bound by the minimal amount
// needed to include the vehicle's current lateral footprint plus
// extendBuffer, tagging the widened side as ADC-sourced. It never narrows.
func (d *Decider) ExtendBoundaryByADC(ref *frenet.ReferenceLine, initSL frenet.SLState,
	extendBuffer float64, bound *PathBoundary) bool {
	if bound == nil || len(bound.Points) == 0 {
		return false
	}
	adcHalfWidth := d.cfg.GetVehicleWidth() / 2
	adcLMax := initSL.L[0] + adcHalfWidth + extendBuffer
	adcLMin := initSL.L[0] - adcHalfWidth - extendBuffer

	for i := range bound.Points {
		pt := &bound.Points[i]
		if adcLMax > pt.LMax {
			pt.LMax = adcLMax
			pt.UpperType = BoundADC
			pt.UpperID = "adc"
		}
		if adcLMin < pt.LMin {
			pt.LMin = adcLMin
			pt.LowerType = BoundADC
			pt.LowerID = "adc"
		}
	}
	return true
}

// ConvertBoundarySAxisFromLaneCenterToRefLine re-bases lateral values from
// the lane-center curve to the reference line. A no-op when the two curves
// coincide.
func ConvertBoundarySAxisFromLaneCenterToRefLine(ref *frenet.ReferenceLine, bound *PathBoundary) {
	if ref == nil || bound == nil {
		return
	}
	for i := range bound.Points {
		pt := &bound.Points[i]
		off := ref.OffsetToLaneCenter(pt.S)
		if off == 0 {
			continue
		}
		pt.LMin -= off
		pt.LMax -= off
		pt.CenterL -= off
	}
}

// unboundedWidth reports whether a point still carries the initializer's
// maximal interval on either side.
func unboundedWidth(pt PathBoundPoint) bool {
	return pt.LMax >= UnboundedL || pt.LMin <= -UnboundedL || math.IsInf(pt.Width(), 1)
}
