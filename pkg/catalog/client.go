// Package catalog issues read queries against the remote job catalog.
// Fetch failures degrade to empty result sets; the session renders them
// as "no jobs found" rather than an error state.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/uber/h3-go/v4"

	"gigscout/pkg/geo"
	"gigscout/pkg/model"
	"gigscout/pkg/request"
	"gigscout/pkg/tracker"
)

const providerName = "catalog"

// cellResolution quantizes the nearby-query anchor for cache keys.
// Resolution 7 cells average ~5 km²: close-by anchors share a cache entry.
const cellResolution = 7

// RadiusAny is the sentinel for an unbounded search radius. It is
// translated to the configured concrete bound before transmission because
// the remote query requires a number.
const RadiusAny float64 = 0

// Client queries the remote job catalog. It holds no job state.
type Client struct {
	req         *request.Client
	tracker     *tracker.Tracker
	baseURL     string
	radiusAnyKm float64
}

// NewClient creates a catalog client.
func NewClient(req *request.Client, tr *tracker.Tracker, baseURL string, radiusAnyKm float64) *Client {
	if radiusAnyKm <= 0 {
		radiusAnyKm = 50
	}
	return &Client{req: req, tracker: tr, baseURL: baseURL, radiusAnyKm: radiusAnyKm}
}

// FetchNearby returns daily-wage jobs within radiusKm of the anchor.
// Pass RadiusAny for an unbounded search. Network and decode failures
// yield an empty slice.
func (c *Client) FetchNearby(ctx context.Context, anchor geo.Point, radiusKm float64) []model.ShortTermJob {
	if radiusKm <= 0 {
		radiusKm = c.radiusAnyKm
	}

	u, err := url.Parse(c.baseURL + "/jobs/nearby")
	if err != nil {
		slog.Error("Invalid catalog base URL", "url", c.baseURL, "error", err)
		return nil
	}
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(anchor.Lat, 'f', 6, 64))
	q.Set("lng", strconv.FormatFloat(anchor.Lng, 'f', 6, 64))
	q.Set("radius_km", strconv.FormatFloat(radiusKm, 'f', -1, 64))
	q.Set("category", string(model.KindShortTerm))
	u.RawQuery = q.Encode()

	body, err := c.req.Get(ctx, u.String(), nearbyCacheKey(anchor, radiusKm))
	if err != nil {
		slog.Warn("Nearby fetch failed, degrading to empty results", "error", err)
		c.tracker.TrackDegrade(providerName)
		return nil
	}

	var records []jobRecord
	if err := json.Unmarshal(body, &records); err != nil {
		slog.Warn("Malformed nearby response, degrading to empty results", "error", err)
		c.tracker.TrackDegrade(providerName)
		return nil
	}

	jobs := make([]model.ShortTermJob, 0, len(records))
	for i := range records {
		l, err := classify(&records[i])
		if err != nil {
			slog.Warn("Skipping unclassifiable catalog record", "error", err)
			continue
		}
		if !l.IsShortTerm() {
			slog.Warn("Nearby query returned non-daily record, skipping", "id", l.ID())
			continue
		}
		jobs = append(jobs, *l.ShortTerm)
	}

	if len(jobs) == 0 {
		c.tracker.TrackAPIZero(providerName)
	}
	return jobs
}

// FetchLongTerm returns open long-term postings. Failures yield an empty
// slice, same policy as FetchNearby.
func (c *Client) FetchLongTerm(ctx context.Context) []model.LongTermJob {
	u, err := url.Parse(c.baseURL + "/jobs")
	if err != nil {
		slog.Error("Invalid catalog base URL", "url", c.baseURL, "error", err)
		return nil
	}
	q := u.Query()
	q.Set("category", string(model.KindLongTerm))
	q.Set("status", "open")
	u.RawQuery = q.Encode()

	body, err := c.req.Get(ctx, u.String(), "longterm_open")
	if err != nil {
		slog.Warn("Long-term fetch failed, degrading to empty results", "error", err)
		c.tracker.TrackDegrade(providerName)
		return nil
	}

	var records []jobRecord
	if err := json.Unmarshal(body, &records); err != nil {
		slog.Warn("Malformed long-term response, degrading to empty results", "error", err)
		c.tracker.TrackDegrade(providerName)
		return nil
	}

	jobs := make([]model.LongTermJob, 0, len(records))
	for i := range records {
		l, err := classify(&records[i])
		if err != nil {
			slog.Warn("Skipping unclassifiable catalog record", "error", err)
			continue
		}
		if l.IsShortTerm() {
			slog.Warn("Long-term query returned daily record, skipping", "id", l.ID())
			continue
		}
		jobs = append(jobs, *l.LongTerm)
	}

	if len(jobs) == 0 {
		c.tracker.TrackAPIZero(providerName)
	}
	return jobs
}

// nearbyCacheKey buckets the anchor into an H3 cell so that nearby anchors
// reuse one cache entry per radius.
func nearbyCacheKey(anchor geo.Point, radiusKm float64) string {
	cell, err := h3.LatLngToCell(h3.NewLatLng(anchor.Lat, anchor.Lng), cellResolution)
	if err != nil {
		// Coarse coordinate quantization as a stand-in
		return fmt.Sprintf("nearby_%.2f_%.2f_%g", anchor.Lat, anchor.Lng, radiusKm)
	}
	return fmt.Sprintf("nearby_%s_%g", cell, radiusKm)
}
