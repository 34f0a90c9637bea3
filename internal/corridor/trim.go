package corridor

// TrimPathBounds truncates the boundary at the first blocked index: every
// sample at or after pathBlockedIdx is discarded so the optimizer never
// sees an interval known to be empty. Negative indices are a no-op.
func TrimPathBounds(pathBlockedIdx int, bound *PathBoundary) {
	if bound == nil || pathBlockedIdx < 0 || pathBlockedIdx >= len(bound.Points) {
		return
	}
	bound.Points = bound.Points[:pathBlockedIdx]
}

// FindFarthestBlockObstaclesId returns the id of the blocking obstacle with
// the largest blocking station, or "" for an empty map. Nearer blockers are
// assumed already handled by upstream decisions, so the one the vehicle
// would reach last is reported. Ties resolve to the smaller id.
func FindFarthestBlockObstaclesId(obsIDToBlockedS map[string]float64) string {
	bestID := ""
	bestS := 0.0
	for id, s := range obsIDToBlockedS {
		if bestID == "" || s > bestS || (s == bestS && id < bestID) {
			bestID = id
			bestS = s
		}
	}
	return bestID
}
