package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"bulb_meter/internal/billing"
	"bulb_meter/internal/estimator"
	"bulb_meter/internal/logparse"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var errMidRunPower = errors.New("cannot change rated power mid-run, reset the session first")

func errRatedPower(v float64) error {
	return fmt.Errorf("rated power must be positive, got %v", v)
}

// session is the per-connection accumulation run.
type session struct {
	est    estimator.Estimator
	state  estimator.BulbState
	events int
}

// Handler manages WebSocket connections. Each connection gets its own
// estimation session: log lines sent by the client are parsed and folded,
// and the running total is sent back after each event.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	go client.writePump()

	sess := &session{est: estimator.New()}
	h.sendSessionState(client, sess)

	h.readPump(client, sess)
}

func (h *Handler) readPump(c *Client, sess *session) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		h.handleMessage(c, sess, msg)
	}
}

func (h *Handler) handleMessage(c *Client, sess *session, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		log.Printf("Invalid message: %v", err)
		return
	}

	switch env.Type {
	case TypeLogLine:
		var p LogLinePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Invalid log line payload: %v", err)
			return
		}
		h.handleLogLine(c, sess, p.Line)

	case TypeLogReset:
		sess.state = estimator.BulbState{}
		sess.events = 0
		h.sendSessionState(c, sess)

	case TypeSetPower:
		var p SetPowerPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Invalid set power payload: %v", err)
			return
		}
		h.handleSetPower(c, sess, p.RatedPowerW)

	default:
		log.Printf("Unknown message type: %s", env.Type)
	}
}

func (h *Handler) handleLogLine(c *Client, sess *session, line string) {
	// The terminator ends a run at the prompt; over a socket it just asks for
	// the final state.
	if logparse.IsTerminator(line) {
		h.sendSessionState(c, sess)
		return
	}

	ev, err := logparse.ParseEvent(line)
	if err != nil {
		h.sendLogError(c, line, err)
		return
	}

	next, err := sess.est.Fold(sess.state, ev)
	if err != nil {
		h.sendLogError(c, line, err)
		return
	}

	update := EstimateUpdatePayload{
		Timestamp:  ev.Timestamp,
		Brightness: next.Brightness,
		IntervalWh: next.TotalWh - sess.state.TotalWh,
		TotalWh:    next.TotalWh,
		Display:    billing.FormatWh(next.TotalWh, 1),
	}
	sess.state = next
	sess.events++

	msg, err := NewEnvelope(TypeEstimateUpdate, update)
	if err != nil {
		log.Printf("Error marshaling estimate update: %v", err)
		return
	}
	c.Send(msg)
}

func (h *Handler) handleSetPower(c *Client, sess *session, ratedPowerW float64) {
	if ratedPowerW <= 0 {
		h.sendLogError(c, "", errRatedPower(ratedPowerW))
		return
	}
	// Changing the scale mid-run would retroactively misprice charged
	// intervals, so only a fresh session may be reconfigured.
	if sess.events > 0 {
		h.sendLogError(c, "", errMidRunPower)
		return
	}
	sess.est.RatedPowerW = ratedPowerW
	h.sendSessionState(c, sess)
}

func (h *Handler) sendSessionState(c *Client, sess *session) {
	msg, err := NewEnvelope(TypeSessionState, SessionStatePayload{
		SessionID:   c.ID(),
		RatedPowerW: sess.est.RatedPowerW,
		Events:      sess.events,
		Brightness:  sess.state.Brightness,
		TotalWh:     sess.state.TotalWh,
		Display:     billing.FormatWh(sess.state.TotalWh, 1),
	})
	if err != nil {
		log.Printf("Error marshaling session state: %v", err)
		return
	}
	c.Send(msg)
}

func (h *Handler) sendLogError(c *Client, line string, err error) {
	msg, merr := NewEnvelope(TypeLogError, LogErrorPayload{
		Line:  line,
		Error: err.Error(),
	})
	if merr != nil {
		log.Printf("Error marshaling log error: %v", merr)
		return
	}
	c.Send(msg)
}
