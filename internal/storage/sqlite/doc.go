// Package sqlite persists planning-cycle results. Each computed boundary is
// stored as one cycle row with its summary columns plus the full point list
// as JSON, so regressions can be replayed and diffed against live output.
package sqlite
