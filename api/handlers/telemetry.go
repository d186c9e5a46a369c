package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dnatile/pimalign/api"
)

// LastRunHandler returns the most recently recorded balancer snapshot
// as JSON, or 404 if no run has completed yet — grounded on
// bioflow-go's api/handlers response-writing style (json.Encoder
// directly onto the ResponseWriter, no intermediate buffer).
func LastRunHandler(rec *api.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := rec.Current()
		if snap == nil {
			http.Error(w, `{"error": "no run recorded yet"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	}
}
