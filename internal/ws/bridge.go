package ws

import (
	"log"

	"bulb_meter/internal/billing"
	"bulb_meter/internal/estimator"
)

// Bridge implements estimator.Callback and broadcasts replay updates for one
// bulb to the WebSocket hub.
type Bridge struct {
	hub    *Hub
	bulbID string
}

func NewBridge(hub *Hub, bulbID string) *Bridge {
	return &Bridge{hub: hub, bulbID: bulbID}
}

func (b *Bridge) OnEvent(u estimator.Update) {
	msg, err := NewEnvelope(TypeReplayEvent, ReplayEventPayload{
		BulbID:     b.bulbID,
		Timestamp:  u.Timestamp,
		Brightness: u.Brightness,
		IntervalWh: u.IntervalWh,
		TotalWh:    u.TotalWh,
	})
	if err != nil {
		log.Printf("Error marshaling replay event: %v", err)
		return
	}
	b.hub.Broadcast(msg)
}

func (b *Bridge) OnTotal(totalWh float64) {
	msg, err := NewEnvelope(TypeReplayTotal, ReplayTotalPayload{
		BulbID:  b.bulbID,
		TotalWh: totalWh,
		Display: billing.FormatWh(totalWh, 1),
	})
	if err != nil {
		log.Printf("Error marshaling replay total: %v", err)
		return
	}
	b.hub.Broadcast(msg)
}
