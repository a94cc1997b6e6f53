// Package locate acquires the user's geographic position. Acquisition can
// be denied or fail; callers always receive a usable anchor point because
// failures degrade to a configured fallback rather than an error.
package locate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gigscout/pkg/geo"
	"gigscout/pkg/request"
	"gigscout/pkg/tracker"
)

const providerName = "locate"

// Provider reports a device position. Implementations may prompt the user
// for permission and may take arbitrarily long; the Acquirer bounds them.
type Provider interface {
	Position(ctx context.Context) (geo.Point, error)
}

// HTTPProvider resolves the position through a remote geolocation endpoint.
type HTTPProvider struct {
	req      *request.Client
	endpoint string
}

// NewHTTPProvider creates a provider backed by the given endpoint.
func NewHTTPProvider(req *request.Client, endpoint string) *HTTPProvider {
	return &HTTPProvider{req: req, endpoint: endpoint}
}

// Position queries the endpoint. Responses are never cached: the position
// is expected to change between sessions.
func (p *HTTPProvider) Position(ctx context.Context) (geo.Point, error) {
	body, err := p.req.Get(ctx, p.endpoint, "")
	if err != nil {
		return geo.Point{}, fmt.Errorf("geolocation request failed: %w", err)
	}

	var pt geo.Point
	if err := json.Unmarshal(body, &pt); err != nil {
		return geo.Point{}, fmt.Errorf("malformed geolocation response: %w", err)
	}
	if !pt.Valid() {
		return geo.Point{}, fmt.Errorf("geolocation response out of range: %+v", pt)
	}
	return pt, nil
}

// FixedProvider always reports the same position. Used for tests and for
// running without a platform position service.
type FixedProvider struct {
	Point geo.Point
}

func (p FixedProvider) Position(ctx context.Context) (geo.Point, error) {
	return p.Point, nil
}

// Acquirer wraps a Provider with a wait bound and the degrade-gracefully
// fallback policy.
type Acquirer struct {
	provider Provider
	fallback geo.Point
	timeout  time.Duration
	tracker  *tracker.Tracker
}

// NewAcquirer creates an Acquirer. The fallback must be a valid point.
func NewAcquirer(p Provider, fallback geo.Point, timeout time.Duration, tr *tracker.Tracker) *Acquirer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Acquirer{provider: p, fallback: fallback, timeout: timeout, tracker: tr}
}

// Acquire returns the device position, or the fallback anchor after denial,
// error, or timeout. Callers never see an error from this operation; the
// degrade is recorded on the tracker so diagnostics can tell the two apart.
func (a *Acquirer) Acquire(ctx context.Context) geo.Point {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	pt, err := a.provider.Position(ctx)
	if err != nil {
		slog.Warn("Location acquisition failed, using fallback anchor",
			"fallback_lat", a.fallback.Lat, "fallback_lng", a.fallback.Lng, "error", err)
		a.tracker.TrackDegrade(providerName)
		return a.fallback
	}
	if !pt.Valid() {
		slog.Warn("Location provider returned invalid coordinates, using fallback anchor", "point", pt)
		a.tracker.TrackDegrade(providerName)
		return a.fallback
	}
	return pt
}
