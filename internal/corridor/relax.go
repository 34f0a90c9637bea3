package corridor

import (
	"github.com/banshee-data/corridor/internal/frenet"
	"github.com/banshee-data/corridor/internal/monitoring"
)

// RelaxEgoLateralBoundary is the final feasibility guard: when the
// vehicle's current lateral position still lies outside the first station's
// interval after all prior stages, the violated side is widened just enough
// to include it over a short leading span, tagged as ADC-sourced. The
// widening stops at any obstacle-sourced bound; it never narrows, so
// applying it twice yields the same boundary as applying it once. Returns
// false when no geometrically sound relaxation exists: the very first
// station's violated bound is owned by an obstacle.
func (d *Decider) RelaxEgoLateralBoundary(bound *PathBoundary, initSL frenet.SLState) bool {
	if bound == nil || len(bound.Points) == 0 {
		return false
	}
	first := &bound.Points[0]
	l0 := initSL.L[0]
	if l0 >= first.LMin && l0 <= first.LMax {
		return true
	}

	relaxEnd := first.S + d.cfg.GetRelaxSpan()

	if l0 > first.LMax {
		if first.UpperType == BoundObstacle {
			monitoring.Logf("corridor: cannot relax upper bound at s=%.2f past obstacle %s", first.S, first.UpperID)
			return false
		}
		target := l0 + d.cfg.GetADCEdgeBuffer()
		for i := range bound.Points {
			pt := &bound.Points[i]
			if pt.S > relaxEnd || pt.UpperType == BoundObstacle {
				break
			}
			if target > pt.LMax {
				pt.LMax = target
				pt.UpperType = BoundADC
				pt.UpperID = "adc"
			}
		}
		return true
	}

	// l0 < first.LMin
	if first.LowerType == BoundObstacle {
		monitoring.Logf("corridor: cannot relax lower bound at s=%.2f past obstacle %s", first.S, first.LowerID)
		return false
	}
	target := l0 - d.cfg.GetADCEdgeBuffer()
	for i := range bound.Points {
		pt := &bound.Points[i]
		if pt.S > relaxEnd || pt.LowerType == BoundObstacle {
			break
		}
		if target < pt.LMin {
			pt.LMin = target
			pt.LowerType = BoundADC
			pt.LowerID = "adc"
		}
	}
	return true
}
