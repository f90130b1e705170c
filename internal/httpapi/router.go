package httpapi

import "github.com/gorilla/mux"

// NewRouter wires the API routes.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/v1/bulbs", h.CreateBulb).Methods("POST")
	r.HandleFunc("/api/v1/bulbs", h.ListBulbs).Methods("GET")
	r.HandleFunc("/api/v1/bulbs/{bulbId}/log", h.AppendLog).Methods("POST")
	r.HandleFunc("/api/v1/bulbs/{bulbId}/estimate", h.GetEstimate).Methods("GET")
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")

	return r
}
