package ws

import "encoding/json"

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeLogLine  = "log:line"
	TypeLogReset = "log:reset"
	TypeSetPower = "log:set_power"

	// Server -> Client
	TypeSessionState   = "session:state"
	TypeEstimateUpdate = "estimate:update"
	TypeLogError       = "log:error"
	TypeReplayEvent    = "replay:event"
	TypeReplayTotal    = "replay:total"
)

// Client -> Server payloads

type LogLinePayload struct {
	Line string `json:"line"`
}

type SetPowerPayload struct {
	RatedPowerW float64 `json:"rated_power_w"`
}

// Server -> Client payloads

type SessionStatePayload struct {
	SessionID   string  `json:"session_id"`
	RatedPowerW float64 `json:"rated_power_w"`
	Events      int     `json:"events"`
	Brightness  float64 `json:"brightness"`
	TotalWh     float64 `json:"total_wh"`
	Display     string  `json:"display"`
}

type EstimateUpdatePayload struct {
	Timestamp  int64   `json:"timestamp"`
	Brightness float64 `json:"brightness"`
	IntervalWh float64 `json:"interval_wh"`
	TotalWh    float64 `json:"total_wh"`
	Display    string  `json:"display"`
}

type LogErrorPayload struct {
	Line  string `json:"line,omitempty"`
	Error string `json:"error"`
}

type ReplayEventPayload struct {
	BulbID     string  `json:"bulb_id"`
	Timestamp  int64   `json:"timestamp"`
	Brightness float64 `json:"brightness"`
	IntervalWh float64 `json:"interval_wh"`
	TotalWh    float64 `json:"total_wh"`
}

type ReplayTotalPayload struct {
	BulbID  string  `json:"bulb_id"`
	TotalWh float64 `json:"total_wh"`
	Display string  `json:"display"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
