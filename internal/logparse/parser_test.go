package logparse

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulb_meter/internal/model"
)

func TestParseEvent_Valid(t *testing.T) {
	tests := []struct {
		name string
		line string
		want model.Event
	}{
		{"turn off", "1544206562 TurnOff", model.Event{Timestamp: 1544206562, Kind: model.KindTurnOff}},
		{"delta positive", "1544206563 Delta +0.5", model.Event{Timestamp: 1544206563, Kind: model.KindDelta, Magnitude: 0.5}},
		{"delta negative", "1544210163 Delta -0.5123", model.Event{Timestamp: 1544210163, Kind: model.KindDelta, Magnitude: -0.5123}},
		{"delta unsigned", "1544210163 Delta 0.75", model.Event{Timestamp: 1544210163, Kind: model.KindDelta, Magnitude: 0.75}},
		{"delta integer magnitude", "1544210163      Delta     -05123", model.Event{Timestamp: 1544210163, Kind: model.KindDelta, Magnitude: -5123}},
		{"prompt prefix", "> 1544206563 Delta +0.5", model.Event{Timestamp: 1544206563, Kind: model.KindDelta, Magnitude: 0.5}},
		{"negative timestamp", "-3600 Delta +1.0", model.Event{Timestamp: -3600, Kind: model.KindDelta, Magnitude: 1.0}},
		{"surrounding whitespace", "  1544206562 TurnOff  ", model.Event{Timestamp: 1544206562, Kind: model.KindTurnOff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Timestamp, ev.Timestamp)
			assert.Equal(t, tt.want.Kind, ev.Kind)
			assert.InDelta(t, tt.want.Magnitude, ev.Magnitude, 1e-12)
		})
	}
}

func TestParseEvent_Invalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"bad timestamp", "not a number TurnOff"},
		{"unknown kind", "1544210163 TurnedOff"},
		{"lowercase kind", "1544213763 turnoff"},
		{"delta missing magnitude", "1544210163 Delta"},
		{"delta bad magnitude", "1544211963 Delta +0.5123====="},
		{"delta extra token", "1544210163 Delta +0.5 extra"},
		{"turnoff extra token", "1544210163 TurnOff +0.5"},
		{"swapped tokens", "turnoff 1544213763"},
		{"kind as magnitude", "1544213763 Delta TurnedOff"},
		{"empty", ""},
		{"single token", "1544206562"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent(tt.line)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.line, parseErr.Line)
		})
	}
}

func TestIsTerminator(t *testing.T) {
	assert.True(t, IsTerminator("EOF"))
	assert.True(t, IsTerminator("  EOF  "))
	assert.False(t, IsTerminator("eof"))
	assert.False(t, IsTerminator("1544206562 TurnOff"))
	assert.False(t, IsTerminator(""))
}

func TestLogReader_Parse(t *testing.T) {
	input := `1544206562 TurnOff

1544206563 Delta +0.5
1544210163 TurnOff
EOF
1544213763 Delta +1.0`

	reader := &LogReader{}
	events, err := reader.Parse(strings.NewReader(input))

	require.NoError(t, err)
	// Blank lines are skipped; everything after the terminator is ignored.
	require.Len(t, events, 3)
	assert.Equal(t, int64(1544206562), events[0].Timestamp)
	assert.Equal(t, model.KindDelta, events[1].Kind)
	assert.Equal(t, model.KindTurnOff, events[2].Kind)
}

func TestLogReader_StrictFailsWithLineNumber(t *testing.T) {
	input := `1544206562 TurnOff
1544206563 TurnedOff
1544210163 TurnOff`

	reader := &LogReader{}
	_, err := reader.Parse(strings.NewReader(input))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestLogReader_SkipInvalid(t *testing.T) {
	input := `1544206562 TurnOff
1544206563 TurnedOff
bogus line
1544210163 Delta +0.5`

	reader := &LogReader{SkipInvalid: true}
	events, err := reader.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.KindTurnOff, events[0].Kind)
	assert.InDelta(t, 0.5, events[1].Magnitude, 1e-12)
}

func TestLogReader_EmptyInput(t *testing.T) {
	reader := &LogReader{}
	events, err := reader.Parse(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, events)
}
