package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gigscout/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts handlers for all API endpoints and a shutdownFunc for graceful shutdown.
func NewServer(addr string, exploreH *ExploreHandler, longtermH *LongTermHandler, applyH *ApplyHandler, stats *StatsHandler, stream *StreamHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", handleHealth)

	// 1b. Version Endpoint
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2. Explore Session Endpoints
	mux.HandleFunc("POST /api/explore/start", exploreH.HandleStart)
	mux.HandleFunc("POST /api/explore/confirm", exploreH.HandleConfirm)
	mux.HandleFunc("POST /api/explore/cancel", exploreH.HandleCancel)
	mux.HandleFunc("POST /api/explore/stop", exploreH.HandleStop)
	mux.HandleFunc("PUT /api/explore/filters", exploreH.HandleFilters)
	mux.HandleFunc("GET /api/explore/snapshot", exploreH.HandleSnapshot)
	mux.HandleFunc("GET /api/explore/geojson", exploreH.HandleGeoJSON)

	// 2b. Session Stream Endpoint
	if stream != nil {
		mux.HandleFunc("GET /api/explore/stream", stream.Handle)
	}

	// 3. Long-Term Catalog Endpoints
	mux.HandleFunc("GET /api/longterm", longtermH.HandleList)
	mux.HandleFunc("POST /api/longterm/refresh", longtermH.HandleRefresh)

	// 4. Application Endpoint
	mux.HandleFunc("POST /api/apply", applyH.HandleApply)

	// 5. Stats Endpoint
	mux.Handle("GET /api/stats", stats)

	// 6. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
