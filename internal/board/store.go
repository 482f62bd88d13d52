package board

import (
	"sync"

	"github.com/tierlab/tierboard/internal/models"
)

// PlacementSnapshot captures the ranking state at a point in time
type PlacementSnapshot map[string]models.Placement

// Snapshot captures the full board, items and rankings both
type Snapshot struct {
	Items      []models.Item               `json:"items"`
	Placements map[string]models.Placement `json:"placements"`
}

// Store owns the authoritative board state: the ordered item list
// and each item's placement. It is the only mutable shared state in
// the system.
type Store struct {
	mu         sync.RWMutex
	items      []models.Item
	placements map[string]models.Placement
}

func New() *Store {
	return &Store{
		placements: make(map[string]models.Placement),
	}
}

// AddItems appends items to the board in order
func (s *Store) AddItems(items []models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
}

// RemoveByIDs removes every item whose id is in the given set, along
// with its placement. Ids with no matching item are ignored.
func (s *Store) RemoveByIDs(ids []string) {
	if len(ids) == 0 {
		return
	}

	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if doomed[item.ID] {
			delete(s.placements, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
}

// Place ranks an item into a tier. Returns false if no item with the
// given id is on the board.
func (s *Store) Place(id, tier string, position int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == id {
			s.placements[id] = models.Placement{Tier: tier, Position: position}
			return true
		}
	}
	return false
}

// ResetPlacements clears every ranking and returns a snapshot of the
// state being cleared, for undo.
func (s *Store) ResetPlacements() PlacementSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := make(PlacementSnapshot, len(s.placements))
	for id, p := range s.placements {
		snap[id] = p
	}
	s.placements = make(map[string]models.Placement)
	return snap
}

// RestorePlacements puts back a previously captured ranking state
func (s *Store) RestorePlacements(snap PlacementSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.placements = make(map[string]models.Placement, len(snap))
	for id, p := range snap {
		s.placements[id] = p
	}
}

// DeleteAll removes every item and placement, returning a snapshot
// of the full prior state for undo. The snapshot is a deep copy;
// later edits to board items never reach into it.
func (s *Store) DeleteAll() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Items:      copyItems(s.items),
		Placements: make(map[string]models.Placement, len(s.placements)),
	}
	for id, p := range s.placements {
		snap.Placements[id] = p
	}

	s.items = nil
	s.placements = make(map[string]models.Placement)
	return snap
}

// RestoreAll puts back a previously captured full board state
func (s *Store) RestoreAll(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = copyItems(snap.Items)
	s.placements = make(map[string]models.Placement, len(snap.Placements))
	for id, p := range snap.Placements {
		s.placements[id] = p
	}
}

// copyItems clones the item slice along with each item's tag slice,
// so snapshot and board never share a backing array.
func copyItems(items []models.Item) []models.Item {
	copied := append([]models.Item{}, items...)
	for i := range copied {
		if copied[i].Tags != nil {
			copied[i].Tags = append([]string{}, copied[i].Tags...)
		}
	}
	return copied
}

// Items returns a copy of the board's item list
func (s *Store) Items() []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Item{}, s.items...)
}

// Placements returns a copy of the current rankings
func (s *Store) Placements() map[string]models.Placement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]models.Placement, len(s.placements))
	for id, p := range s.placements {
		result[id] = p
	}
	return result
}

// Len returns the number of items on the board
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
