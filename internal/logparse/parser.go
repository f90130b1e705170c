package logparse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bulb_meter/internal/model"
)

// Terminator is the sentinel line that ends an interactive log.
const Terminator = "EOF"

// IsTerminator reports whether a raw line is the end-of-input marker.
func IsTerminator(line string) bool {
	return strings.TrimSpace(line) == Terminator
}

// ParseError reports a log line that does not match the event grammar.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid log line %q: %s", e.Line, e.Reason)
}

// ParseEvent parses one log line of the form
//
//	<timestamp> TurnOff
//	<timestamp> Delta <signed-magnitude>
//
// Tokens are whitespace separated. A leading "> " prompt prefix is stripped,
// so pasted interactive transcripts parse cleanly.
func ParseEvent(line string) (model.Event, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(line), "> ")

	fields := strings.Fields(trimmed)
	if len(fields) < 2 {
		return model.Event{}, &ParseError{Line: line, Reason: "expected <timestamp> <kind> [<magnitude>]"}
	}

	ts, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return model.Event{}, &ParseError{Line: line, Reason: fmt.Sprintf("timestamp %q is not an integer", fields[0])}
	}

	switch model.EventKind(fields[1]) {
	case model.KindTurnOff:
		if len(fields) != 2 {
			return model.Event{}, &ParseError{Line: line, Reason: "TurnOff takes no magnitude"}
		}
		return model.Event{Timestamp: ts, Kind: model.KindTurnOff}, nil

	case model.KindDelta:
		if len(fields) != 3 {
			return model.Event{}, &ParseError{Line: line, Reason: "Delta requires exactly one magnitude"}
		}
		mag, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return model.Event{}, &ParseError{Line: line, Reason: fmt.Sprintf("magnitude %q is not a signed decimal", fields[2])}
		}
		return model.Event{Timestamp: ts, Kind: model.KindDelta, Magnitude: mag}, nil

	default:
		return model.Event{}, &ParseError{Line: line, Reason: fmt.Sprintf("unknown event kind %q", fields[1])}
	}
}

// LogReader reads raw event lines from a source until the Terminator line
// or the end of the stream. Blank lines are ignored.
type LogReader struct {
	// SkipInvalid drops malformed lines instead of failing the whole read.
	SkipInvalid bool
}

func (lr *LogReader) Parse(r io.Reader) ([]model.Event, error) {
	sc := bufio.NewScanner(r)

	var events []model.Event
	lineNum := 0

	for sc.Scan() {
		lineNum++
		line := sc.Text()

		if strings.TrimSpace(line) == "" {
			continue
		}
		if IsTerminator(line) {
			break
		}

		ev, err := ParseEvent(line)
		if err != nil {
			if lr.SkipInvalid {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		events = append(events, ev)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}

	return events, nil
}
