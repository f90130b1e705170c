package estimator

import (
	"fmt"

	"bulb_meter/internal/model"
)

// Update is emitted for each event folded during a replay.
type Update struct {
	Timestamp  int64   // the event's timestamp
	Brightness float64 // brightness in effect after the event
	IntervalWh float64 // energy charged for the interval closed by the event
	TotalWh    float64 // running total after the event
}

// Callback receives replay events.
type Callback interface {
	OnEvent(u Update)
	OnTotal(totalWh float64)
}

// Replay folds an ordered event log like Accumulate, emitting one Update per
// event and a final total through cb. A nil cb makes it equivalent to
// Accumulate.
func (e Estimator) Replay(events []model.Event, cb Callback) (float64, error) {
	var s BulbState

	for i, ev := range events {
		next, err := e.Fold(s, ev)
		if err != nil {
			return s.TotalWh, fmt.Errorf("event %d: %w", i, err)
		}

		if cb != nil {
			cb.OnEvent(Update{
				Timestamp:  ev.Timestamp,
				Brightness: next.Brightness,
				IntervalWh: next.TotalWh - s.TotalWh,
				TotalWh:    next.TotalWh,
			})
		}

		s = next
	}

	if cb != nil {
		cb.OnTotal(s.TotalWh)
	}

	return s.TotalWh, nil
}
