// Package occupancy derives how full a game is from its persisted state.
//
// The figure is always recomputed from the game's capacity settings and the
// count of accepted applications; there is no independently maintained
// counter anywhere in the system, so the reading cannot drift from the
// source of truth after a partial failure.
package occupancy

// Snapshot is an occupancy reading at a point in time.
type Snapshot struct {
	Occupied int `json:"occupied"`
	Capacity int `json:"capacity"`
}

// Compute derives a snapshot. creatorOccupiesSlot reflects whether the
// game's creator counts as one of the capacity slots.
func Compute(creatorOccupiesSlot bool, capacity, acceptedCount int) Snapshot {
	occupied := acceptedCount
	if creatorOccupiesSlot {
		occupied++
	}
	return Snapshot{Occupied: occupied, Capacity: capacity}
}

// Full reports whether no slot remains.
func (s Snapshot) Full() bool {
	return s.Occupied >= s.Capacity
}

// Remaining returns the number of free slots, never negative.
func (s Snapshot) Remaining() int {
	if s.Occupied >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Occupied
}
