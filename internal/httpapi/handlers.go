package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/DoyleJ11/radar-overlay/internal/calibration"
	"github.com/DoyleJ11/radar-overlay/internal/journal"
)

const (
	defaultDiagnosticsLimit = 50
	maxDiagnosticsLimit     = 500
)

type DiagnosticsReader interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Maps lists the registered calibrations and radar types so a page can offer
// only known values.
func Maps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Default    string                             `json:"default"`
		RadarTypes []calibration.RadarType            `json:"radar_types"`
		Maps       map[string]calibration.Calibration `json:"maps"`
	}{
		Default:    calibration.DefaultMap,
		RadarTypes: calibration.RadarTypes,
		Maps:       calibration.All(),
	})
}

func Diagnostics(j DiagnosticsReader, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if j == nil {
			http.Error(w, "journal disabled", http.StatusServiceUnavailable)
			return
		}

		limit := defaultDiagnosticsLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = min(n, maxDiagnosticsLimit)
		}

		entries, err := j.Recent(r.Context(), limit)
		if err != nil {
			log.Error("read journal", zap.Error(err))
			http.Error(w, "failed to read journal", http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []journal.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
