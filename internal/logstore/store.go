package logstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"bulb_meter/internal/model"
)

// Store holds registered bulbs and their event logs in memory, keyed by bulb
// ID. Logs are kept sorted by timestamp and exact duplicate events are
// dropped, so a stored log always replays cleanly through the estimator.
type Store struct {
	mu    sync.RWMutex
	bulbs map[string]model.Bulb
	logs  map[string][]model.Event
}

func New() *Store {
	return &Store{
		bulbs: make(map[string]model.Bulb),
		logs:  make(map[string][]model.Event),
	}
}

// AddBulb registers a bulb and assigns it an ID. Rated power must be positive.
func (s *Store) AddBulb(kind string, ratedPowerW float64) (model.Bulb, error) {
	if ratedPowerW <= 0 {
		return model.Bulb{}, fmt.Errorf("rated power must be positive, got %v", ratedPowerW)
	}

	bulb := model.Bulb{
		ID:          uuid.NewString(),
		Kind:        kind,
		RatedPowerW: ratedPowerW,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bulbs[bulb.ID] = bulb
	return bulb, nil
}

// Bulb returns a registered bulb by ID.
func (s *Store) Bulb(id string) (model.Bulb, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bulb, ok := s.bulbs[id]
	return bulb, ok
}

// Bulbs returns all registered bulbs.
func (s *Store) Bulbs() []model.Bulb {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bulbs := make([]model.Bulb, 0, len(s.bulbs))
	for _, bulb := range s.bulbs {
		bulbs = append(bulbs, bulb)
	}
	sort.Slice(bulbs, func(i, j int) bool { return bulbs[i].ID < bulbs[j].ID })
	return bulbs
}

// AddEvents appends events to a bulb's log, then re-sorts by timestamp and
// drops exact duplicates.
func (s *Store) AddEvents(bulbID string, events []model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bulbs[bulbID]; !ok {
		return fmt.Errorf("unknown bulb %q", bulbID)
	}
	if len(events) == 0 {
		return nil
	}

	merged := make([]model.Event, 0, len(s.logs[bulbID])+len(events))
	merged = append(merged, s.logs[bulbID]...)
	merged = append(merged, events...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})

	seen := make(map[model.Event]bool, len(merged))
	deduped := merged[:0]
	for _, ev := range merged {
		if seen[ev] {
			continue
		}
		seen[ev] = true
		deduped = append(deduped, ev)
	}

	s.logs[bulbID] = deduped
	return nil
}

// Events returns a copy of a bulb's log in chronological order.
func (s *Store) Events(bulbID string) []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[bulbID]
	if len(log) == 0 {
		return nil
	}
	out := make([]model.Event, len(log))
	copy(out, log)
	return out
}

// EventCount returns the number of stored events for a bulb.
func (s *Store) EventCount(bulbID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs[bulbID])
}

// TimeRange returns the span covered by a bulb's log.
func (s *Store) TimeRange(bulbID string) (model.TimeRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[bulbID]
	if len(log) == 0 {
		return model.TimeRange{}, false
	}
	return model.TimeRange{
		Start: log[0].Timestamp,
		End:   log[len(log)-1].Timestamp,
	}, true
}
