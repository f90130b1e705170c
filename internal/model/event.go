package model

// EventKind discriminates the two state changes a bulb log can report.
type EventKind string

const (
	// KindTurnOff resets the bulb's brightness to zero.
	KindTurnOff EventKind = "TurnOff"
	// KindDelta adjusts the bulb's brightness by a signed amount.
	KindDelta EventKind = "Delta"
)

// Event is one parsed entry of a bulb's state-change log.
type Event struct {
	Timestamp int64 // seconds since the Unix epoch
	Kind      EventKind
	Magnitude float64 // brightness adjustment, set only for KindDelta
}

// Bulb describes a registered energy consumer.
type Bulb struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	RatedPowerW float64 `json:"rated_power_w"` // watts drawn per unit of brightness
}

// TimeRange is the span covered by a bulb's log, in epoch seconds.
type TimeRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}
