// Package corridor computes the lateral driving corridor for one planning
// cycle: a station-indexed sequence of admissible lateral intervals along a
// reference line, tightened by lane and road geometry and by static
// obstacle footprints.
//
// The pipeline is strictly sequential and owned by the calling cycle:
// InitPathBoundary seeds unconstrained bounds, the lane/road stage narrows
// them, a sweep line intersects them with obstacle footprints, corner
// refinement splices exact polygon-vertex stations into the sequence,
// trimming cuts the boundary at the first collapsed interval, and a final
// relaxation guarantees the vehicle's current lateral state fits at the
// start. The finished PathBoundary is handed read-only to the trajectory
// optimizer.
package corridor
