package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"gigscout/pkg/explore"
)

// ExploreHandler exposes the session phase machine over HTTP. Confirm and
// filter updates suspend the request until the discovery cycle completes,
// so the response always reflects the cycle it triggered.
type ExploreHandler struct {
	ctrl *explore.Controller
}

func NewExploreHandler(c *explore.Controller) *ExploreHandler {
	return &ExploreHandler{ctrl: c}
}

func (h *ExploreHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Start(); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeSnapshot(w, h.ctrl.Snapshot())
}

func (h *ExploreHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Confirm(r.Context()); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeSnapshot(w, h.ctrl.Snapshot())
}

func (h *ExploreHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Cancel(); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeSnapshot(w, h.ctrl.Snapshot())
}

func (h *ExploreHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Stop(); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeSnapshot(w, h.ctrl.Snapshot())
}

func (h *ExploreHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	var f explore.Filters
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.ctrl.SetFilters(r.Context(), f); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeSnapshot(w, h.ctrl.Snapshot())
}

func (h *ExploreHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeSnapshot(w, h.ctrl.Snapshot())
}

// HandleGeoJSON renders the current result list as a FeatureCollection,
// anchor included, for map overlays.
func (h *ExploreHandler) HandleGeoJSON(w http.ResponseWriter, r *http.Request) {
	snap := h.ctrl.Snapshot()
	fc := geojson.NewFeatureCollection()

	if snap.Anchor != nil {
		anchor := geojson.NewFeature(orb.Point{snap.Anchor.Lng, snap.Anchor.Lat})
		anchor.Properties["kind"] = "anchor"
		fc.Append(anchor)
	}

	for i := range snap.Results {
		job := &snap.Results[i]
		if !job.Coord.Valid() {
			continue
		}
		f := geojson.NewFeature(orb.Point{job.Coord.Lng, job.Coord.Lat})
		f.Properties["kind"] = "job"
		f.Properties["id"] = job.ID
		f.Properties["title"] = job.Title
		f.Properties["pay"] = job.Pay
		f.Properties["distance"] = job.Distance
		f.Properties["employer"] = job.Employer.Name
		fc.Append(f)
	}

	w.Header().Set("Content-Type", "application/geo+json")
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		slog.Error("Failed to encode geojson response", "error", err)
	}
}

func writeSnapshot(w http.ResponseWriter, snap explore.Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		slog.Error("Failed to encode snapshot response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
}
