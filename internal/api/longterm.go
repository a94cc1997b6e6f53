package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"gigscout/pkg/catalog"
	"gigscout/pkg/model"
)

// LongTermManager keeps the long-term posting list. Unlike the explore
// session it is not location-gated: it refreshes on demand and serves
// from memory in between.
type LongTermManager struct {
	catalog *catalog.Client

	mu   sync.Mutex
	jobs []model.LongTermJob
}

func NewLongTermManager(c *catalog.Client) *LongTermManager {
	return &LongTermManager{catalog: c}
}

// Refresh fetches the open long-term postings and replaces the list.
func (m *LongTermManager) Refresh(ctx context.Context) {
	jobs := m.catalog.FetchLongTerm(ctx)
	m.mu.Lock()
	m.jobs = jobs
	m.mu.Unlock()
	slog.Debug("Long-term list refreshed", "count", len(jobs))
}

// List returns a copy of the current postings.
func (m *LongTermManager) List() []model.LongTermJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LongTermJob, len(m.jobs))
	copy(out, m.jobs)
	return out
}

// Listing returns the posting with the given id as a tagged listing.
func (m *LongTermManager) Listing(id string) (model.Listing, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			j := m.jobs[i]
			return model.NewLongTermListing(&j), true
		}
	}
	return model.Listing{}, false
}

// Remove drops the posting with the given id. Used for optimistic
// reconciliation after a successful application.
func (m *LongTermManager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
			return true
		}
	}
	return false
}

type LongTermHandler struct {
	mgr *LongTermManager
}

func NewLongTermHandler(m *LongTermManager) *LongTermHandler {
	return &LongTermHandler{mgr: m}
}

func (h *LongTermHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.mgr.List()); err != nil {
		slog.Error("Failed to encode longterm response", "error", err)
	}
}

func (h *LongTermHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	h.mgr.Refresh(r.Context())
	h.HandleList(w, r)
}
