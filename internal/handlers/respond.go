package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lagkaka/internal/fault"
	"github.com/shrimpsizemoose/lagkaka/internal/metrics"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
	}
}

// writeFault renders the stable error envelope. Anything that is not a
// fault.Error is an internal error and gets an opaque code.
func writeFault(w http.ResponseWriter, err error) {
	fe, ok := fault.From(err)
	if !ok {
		logger.Error.Printf("Unclassified handler error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": map[string]string{"code": "INTERNAL"},
		})
		return
	}
	writeJSON(w, fault.HTTPStatus(fe), map[string]interface{}{
		"error": fe,
	})
}

// observe records the request duration the way every endpoint does it.
func observe(r *http.Request, start time.Time, status int) {
	metrics.APIRequestDuration.WithLabelValues(
		r.URL.Path,
		r.Method,
		strconv.Itoa(status),
	).Observe(time.Since(start).Seconds())
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
