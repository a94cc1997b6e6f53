package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"gigscout/pkg/apply"
	"gigscout/pkg/model"
)

// ListingSource resolves a job id to a tagged listing. Both the explore
// controller and the long-term manager implement it.
type ListingSource interface {
	Listing(id string) (model.Listing, bool)
}

// ApplyHandler submits applications for jobs found in any of its sources.
type ApplyHandler struct {
	submitter *apply.Submitter
	sources   []ListingSource
}

func NewApplyHandler(s *apply.Submitter, sources ...ListingSource) *ApplyHandler {
	return &ApplyHandler{submitter: s, sources: sources}
}

type applyRequest struct {
	JobID string `json:"job_id"`
}

func (h *ApplyHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.JobID == "" {
		writeError(w, http.StatusBadRequest, errors.New("job_id is required"))
		return
	}

	var listing model.Listing
	found := false
	for _, src := range h.sources {
		if l, ok := src.Listing(req.JobID); ok {
			listing, found = l, true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, errors.New("unknown job id"))
		return
	}

	out, err := h.submitter.Submit(r.Context(), listing)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
