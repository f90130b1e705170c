package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	payload := EstimateUpdatePayload{
		Timestamp:  1544210163,
		Brightness: 0,
		IntervalWh: 2.5,
		TotalWh:    2.5,
		Display:    "2.5",
	}

	msg, err := NewEnvelope(TypeEstimateUpdate, payload)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, TypeEstimateUpdate, env.Type)

	var parsed EstimateUpdatePayload
	require.NoError(t, json.Unmarshal(env.Payload, &parsed))
	assert.Equal(t, int64(1544210163), parsed.Timestamp)
	assert.InDelta(t, 2.5, parsed.TotalWh, 1e-9)
	assert.Equal(t, "2.5", parsed.Display)
}

func TestNewEnvelope_NoPayload(t *testing.T) {
	msg, err := NewEnvelope(TypeLogReset, nil)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, TypeLogReset, env.Type)
	assert.Nil(t, env.Payload)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	c := &Client{
		id:   "test-session",
		hub:  hub,
		send: make(chan []byte, 16),
	}

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()

	c1 := &Client{id: "a", hub: hub, send: make(chan []byte, 16)}
	c2 := &Client{id: "b", hub: hub, send: make(chan []byte, 16)}

	hub.Register(c1)
	hub.Register(c2)

	msg := []byte(`{"type":"test"}`)
	hub.Broadcast(msg)

	assert.Equal(t, msg, <-c1.send)
	assert.Equal(t, msg, <-c2.send)
}

func TestClient_SendDropsWhenFull(t *testing.T) {
	c := &Client{id: "full", send: make(chan []byte, 1)}

	c.Send([]byte("one"))
	c.Send([]byte("two")) // dropped, must not block

	assert.Equal(t, []byte("one"), <-c.send)
	assert.Empty(t, c.send)
}

func TestMessageTypes(t *testing.T) {
	assert.Equal(t, "log:line", TypeLogLine)
	assert.Equal(t, "log:reset", TypeLogReset)
	assert.Equal(t, "log:set_power", TypeSetPower)
	assert.Equal(t, "session:state", TypeSessionState)
	assert.Equal(t, "estimate:update", TypeEstimateUpdate)
	assert.Equal(t, "log:error", TypeLogError)
	assert.Equal(t, "replay:event", TypeReplayEvent)
	assert.Equal(t, "replay:total", TypeReplayTotal)
}
