package estimator

import (
	"fmt"

	"bulb_meter/internal/model"
)

// DefaultRatedPowerW is the wattage one unit of brightness draws: a bulb held
// at brightness 1.0 for one hour consumes 5 Wh.
const DefaultRatedPowerW = 5.0

// BulbState is the accumulator state threaded through folds. The zero value
// is a fresh state: brightness 0, nothing accumulated, no event seen yet.
type BulbState struct {
	Brightness    float64
	LastTimestamp int64
	Started       bool // false until the first event is folded
	TotalWh       float64
}

// OrderingError reports an event whose timestamp precedes the last folded one.
// The log must be pre-sorted; the fold refuses to bill a negative interval.
type OrderingError struct {
	Timestamp     int64
	LastTimestamp int64
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("event at %d precedes last processed event at %d", e.Timestamp, e.LastTimestamp)
}

// Estimator integrates brightness over time to estimate energy in watt-hours.
type Estimator struct {
	RatedPowerW float64
}

// New returns an estimator at the default rated power.
func New() Estimator {
	return Estimator{RatedPowerW: DefaultRatedPowerW}
}

// Fold charges the interval since the previous event at the brightness that
// was in effect before ev, then applies ev to the brightness. It returns the
// updated state; on error the input state is returned unchanged.
//
// Uses backward-looking intervals: [LastTimestamp, ev.Timestamp) is billed at
// the level established by the PREVIOUS event, never by ev itself. The segment
// after the final event has no closing timestamp and contributes nothing.
func (e Estimator) Fold(s BulbState, ev model.Event) (BulbState, error) {
	if s.Started {
		elapsed := ev.Timestamp - s.LastTimestamp
		if elapsed < 0 {
			return s, &OrderingError{Timestamp: ev.Timestamp, LastTimestamp: s.LastTimestamp}
		}
		s.TotalWh += s.Brightness * (float64(elapsed) / 3600) * e.RatedPowerW
	}

	s.LastTimestamp = ev.Timestamp
	s.Started = true

	switch ev.Kind {
	case model.KindTurnOff:
		s.Brightness = 0
	case model.KindDelta:
		s.Brightness += ev.Magnitude
	}

	return s, nil
}

// Accumulate left-folds an ordered event log over a fresh state and returns
// the final energy total in watt-hours.
func (e Estimator) Accumulate(events []model.Event) (float64, error) {
	var s BulbState

	for i, ev := range events {
		next, err := e.Fold(s, ev)
		if err != nil {
			return s.TotalWh, fmt.Errorf("event %d: %w", i, err)
		}
		s = next
	}

	return s.TotalWh, nil
}
