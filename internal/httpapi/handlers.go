package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"bulb_meter/internal/billing"
	"bulb_meter/internal/estimator"
	"bulb_meter/internal/logparse"
	"bulb_meter/internal/logstore"
	"bulb_meter/internal/model"
)

// BridgeFactory returns a replay callback for a bulb, or nil to replay
// silently. Lets the server broadcast REST-triggered estimates over
// WebSocket without this package depending on the transport.
type BridgeFactory func(bulbID string) estimator.Callback

// Handler serves the bulb registry and estimation API.
type Handler struct {
	store        *logstore.Store
	tariffPerKWh string // empty disables cost lines
	newBridge    BridgeFactory
}

func NewHandler(store *logstore.Store, tariffPerKWh string, newBridge BridgeFactory) *Handler {
	return &Handler{
		store:        store,
		tariffPerKWh: tariffPerKWh,
		newBridge:    newBridge,
	}
}

type createBulbRequest struct {
	Kind        string  `json:"kind"`
	RatedPowerW float64 `json:"rated_power_w"`
}

type appendLogResponse struct {
	BulbID   string `json:"bulb_id"`
	Accepted int    `json:"accepted"`
	Stored   int    `json:"stored"`
}

type estimateResponse struct {
	BulbID  string           `json:"bulb_id"`
	Events  int              `json:"events"`
	TotalWh float64          `json:"total_wh"`
	Display string           `json:"display"`
	Cost    *costBreakdown   `json:"cost,omitempty"`
	Range   *model.TimeRange `json:"time_range,omitempty"`
}

type costBreakdown struct {
	TariffPerKWh string `json:"tariff_per_kwh"`
	Cost         string `json:"cost"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) CreateBulb(w http.ResponseWriter, r *http.Request) {
	var req createBulbRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Kind == "" {
		req.Kind = "lightbulb"
	}
	if req.RatedPowerW == 0 {
		req.RatedPowerW = estimator.DefaultRatedPowerW
	}

	bulb, err := h.store.AddBulb(req.Kind, req.RatedPowerW)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, bulb)
}

func (h *Handler) ListBulbs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Bulbs())
}

// AppendLog accepts raw log lines (text/plain, one event per line) and stores
// the parsed events. The whole body is rejected on the first malformed line,
// so previously stored events are never mixed with a half-applied batch.
func (h *Handler) AppendLog(w http.ResponseWriter, r *http.Request) {
	bulbID := mux.Vars(r)["bulbId"]
	if _, ok := h.store.Bulb(bulbID); !ok {
		writeError(w, http.StatusNotFound, "unknown bulb")
		return
	}

	reader := &logparse.LogReader{}
	events, err := reader.Parse(r.Body)
	if err != nil {
		var parseErr *logparse.ParseError
		if errors.As(err, &parseErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "reading log body")
		return
	}

	if err := h.store.AddEvents(bulbID, events); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, appendLogResponse{
		BulbID:   bulbID,
		Accepted: len(events),
		Stored:   h.store.EventCount(bulbID),
	})
}

func (h *Handler) GetEstimate(w http.ResponseWriter, r *http.Request) {
	bulbID := mux.Vars(r)["bulbId"]
	bulb, ok := h.store.Bulb(bulbID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown bulb")
		return
	}

	events := h.store.Events(bulbID)

	var cb estimator.Callback
	if h.newBridge != nil {
		cb = h.newBridge(bulbID)
	}

	est := estimator.Estimator{RatedPowerW: bulb.RatedPowerW}
	total, err := est.Replay(events, cb)
	if err != nil {
		// The store keeps logs sorted, so this only fires on a caller feeding
		// the estimator directly with a corrupted log.
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := estimateResponse{
		BulbID:  bulbID,
		Events:  len(events),
		TotalWh: total,
		Display: billing.FormatWh(total, 1),
	}
	if tr, ok := h.store.TimeRange(bulbID); ok {
		resp.Range = &tr
	}
	if h.tariffPerKWh != "" {
		stmt, err := billing.NewStatement(total, h.tariffPerKWh)
		if err != nil {
			log.Printf("Invalid tariff %q: %v", h.tariffPerKWh, err)
		} else {
			resp.Cost = &costBreakdown{
				TariffPerKWh: stmt.TariffPerKWh.String(),
				Cost:         stmt.Cost.Round(4).String(),
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
