// Package obstacle models the static-obstacle snapshot consumed by the
// path-boundary pipeline: Cartesian footprints supplied by perception, their
// projection into station/lateral (SL) space, and an id-keyed collection
// with a spatial index for station-range queries.
//
// Obstacles are read-only collaborators: the pipeline looks them up by id
// and never mutates them.
package obstacle

import "sort"

// Point is a Cartesian footprint corner.
type Point struct {
	X, Y float64
}

// Obstacle is one perceived object. Polygon corners are ordered along the
// footprint outline.
type Obstacle struct {
	ID        string
	Polygon   []Point
	IsStatic  bool
	IsVirtual bool // e.g. decision fences; never constrain the lateral corridor
}

// IndexedList is an id-keyed collection with deterministic iteration order.
// Iteration is sorted by id so identical snapshots always produce identical
// pipeline output.
type IndexedList[T any] struct {
	items map[string]T
}

// NewIndexedList returns an empty list.
func NewIndexedList[T any]() *IndexedList[T] {
	return &IndexedList[T]{items: make(map[string]T)}
}

// Add inserts or replaces the item stored under id.
func (l *IndexedList[T]) Add(id string, v T) {
	l.items[id] = v
}

// Get looks up an item by id.
func (l *IndexedList[T]) Get(id string) (T, bool) {
	v, ok := l.items[id]
	return v, ok
}

// Len returns the number of items.
func (l *IndexedList[T]) Len() int {
	return len(l.items)
}

// IDs returns all ids in sorted order.
func (l *IndexedList[T]) IDs() []string {
	ids := make([]string, 0, len(l.items))
	for id := range l.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Items returns all items in sorted-id order.
func (l *IndexedList[T]) Items() []T {
	ids := l.IDs()
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.items[id])
	}
	return out
}

// Set is the obstacle snapshot for one planning cycle.
type Set = IndexedList[*Obstacle]

// NewSet returns an empty obstacle snapshot.
func NewSet() *Set {
	return NewIndexedList[*Obstacle]()
}
