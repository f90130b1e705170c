package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventKinds(t *testing.T) {
	// The kind strings double as log-line tokens.
	assert.Equal(t, EventKind("TurnOff"), KindTurnOff)
	assert.Equal(t, EventKind("Delta"), KindDelta)
}

func TestEventComparable(t *testing.T) {
	a := Event{Timestamp: 1544206563, Kind: KindDelta, Magnitude: 0.5}
	b := Event{Timestamp: 1544206563, Kind: KindDelta, Magnitude: 0.5}
	c := Event{Timestamp: 1544206563, Kind: KindDelta, Magnitude: -0.5}

	// Exact duplicates compare equal, which is what log deduplication relies on.
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
