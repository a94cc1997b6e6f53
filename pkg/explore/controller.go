package explore

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"gigscout/pkg/filter"
	"gigscout/pkg/geo"
	"gigscout/pkg/model"
)

// Catalog is the remote job catalog, as seen by the session.
type Catalog interface {
	FetchNearby(ctx context.Context, anchor geo.Point, radiusKm float64) []model.ShortTermJob
}

// Locator acquires the anchor point. It never fails; denial degrades to a
// fallback anchor inside the implementation.
type Locator interface {
	Acquire(ctx context.Context) geo.Point
}

// Filters are the client-side refinement parameters. RadiusKm <= 0 means
// "any" (translated to a concrete bound by the catalog client). Nil pay
// bounds are open.
type Filters struct {
	RadiusKm float64  `json:"radius_km"`
	PayMin   *float64 `json:"pay_min,omitempty"`
	PayMax   *float64 `json:"pay_max,omitempty"`
}

// Snapshot is a copy of the observable session state.
type Snapshot struct {
	Phase   Phase                `json:"phase"`
	Anchor  *geo.Point           `json:"anchor,omitempty"`
	Results []model.ShortTermJob `json:"results"`
	Filters Filters              `json:"filters"`
}

// Controller drives the session phase machine. All network and location
// work happens on the calling goroutine; the mutex only guards state, so
// overlapping fetch cycles race on delivery — the generation counter
// ensures only the most recently issued cycle can install results.
type Controller struct {
	mu      sync.Mutex
	phase   Phase
	anchor  *geo.Point
	results []model.ShortTermJob
	filters Filters
	gen     uint64

	catalog  Catalog
	locator  Locator
	onChange func(Snapshot)
}

// NewController creates an idle session controller.
func NewController(cat Catalog, loc Locator) *Controller {
	return &Controller{
		phase:   PhaseIdle,
		catalog: cat,
		locator: loc,
	}
}

// OnChange registers a callback invoked (on its own goroutine) after every
// observable state change. Must be called before the session starts.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Phase returns the current session phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Snapshot returns a copy of the observable session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Phase:   c.phase,
		Filters: c.filters,
		Results: make([]model.ShortTermJob, len(c.results)),
	}
	copy(s.Results, c.results)
	if c.anchor != nil {
		a := *c.anchor
		s.Anchor = &a
	}
	return s
}

// Start begins a session: Idle → AwaitingPermission. The platform may now
// prompt the user for location permission.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.transitionLocked(PhaseAwaitingPermission); err != nil {
		return err
	}
	c.notifyLocked()
	return nil
}

// Cancel abandons the permission prompt: AwaitingPermission → Idle.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseAwaitingPermission {
		return fmt.Errorf("cannot cancel from phase %s", c.phase)
	}
	if err := c.transitionLocked(PhaseIdle); err != nil {
		return err
	}
	c.notifyLocked()
	return nil
}

// Confirm acknowledges the permission prompt and runs the discovery cycle:
// AwaitingPermission → Locating → Active. The call suspends until the
// anchor is acquired and the first fetch-and-filter cycle completes.
// Acquisition failure is invisible here — the locator degrades to its
// fallback anchor.
func (c *Controller) Confirm(ctx context.Context) error {
	c.mu.Lock()
	if err := c.transitionLocked(PhaseLocating); err != nil {
		c.mu.Unlock()
		return err
	}
	c.gen++
	gen := c.gen
	c.notifyLocked()
	c.mu.Unlock()

	anchor := c.locator.Acquire(ctx)

	c.mu.Lock()
	if gen != c.gen || c.phase != PhaseLocating {
		// Session was torn down while we were locating
		c.mu.Unlock()
		return nil
	}
	c.anchor = &anchor
	if err := c.transitionLocked(PhaseActive); err != nil {
		c.mu.Unlock()
		return err
	}
	c.results = nil
	f := c.filters
	c.notifyLocked()
	c.mu.Unlock()

	c.fetchCycle(ctx, gen, anchor, f)
	return nil
}

// SetFilters updates the refinement parameters. While the session is
// Active this triggers a fresh fetch-and-filter cycle; in any other phase
// the filters are stored for the next cycle.
func (c *Controller) SetFilters(ctx context.Context, f Filters) error {
	c.mu.Lock()
	c.filters = f
	if c.phase != PhaseActive {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	gen := c.gen
	anchor := *c.anchor
	c.mu.Unlock()

	c.fetchCycle(ctx, gen, anchor, f)
	return nil
}

// Stop ends the session: Active → Stopped → Idle. Results and anchor are
// cleared and any in-flight fetch is abandoned; the session keeps no
// history.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.transitionLocked(PhaseStopped); err != nil {
		return err
	}
	c.gen++
	c.results = nil
	c.anchor = nil
	// Stopped drains straight back to Idle
	if err := c.transitionLocked(PhaseIdle); err != nil {
		return err
	}
	c.notifyLocked()
	return nil
}

// Remove deletes the job with the given id from the result list. Used for
// optimistic reconciliation after a successful application.
func (c *Controller) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.results {
		if c.results[i].ID == id {
			c.results = append(c.results[:i], c.results[i+1:]...)
			c.notifyLocked()
			return true
		}
	}
	return false
}

// Listing returns the result with the given id as a tagged listing.
func (c *Controller) Listing(id string) (model.Listing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.results {
		if c.results[i].ID == id {
			j := c.results[i]
			return model.NewShortTermListing(&j), true
		}
	}
	return model.Listing{}, false
}

// fetchCycle runs one fetch-and-filter pass and installs the outcome if it
// is still the freshest cycle.
func (c *Controller) fetchCycle(ctx context.Context, gen uint64, anchor geo.Point, f Filters) {
	jobs := c.catalog.FetchNearby(ctx, anchor, f.RadiusKm)
	jobs = filter.ByPayRange(jobs, f.PayMin, f.PayMax)
	annotateDistances(anchor, jobs)
	c.install(gen, jobs)
}

func (c *Controller) install(gen uint64, jobs []model.ShortTermJob) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		slog.Debug("Discarding stale fetch result", "gen", gen, "current", c.gen)
		return
	}
	if c.phase != PhaseActive {
		return
	}
	c.results = jobs
	c.notifyLocked()
}

func (c *Controller) transitionLocked(to Phase) error {
	if !IsTransitionAllowed(c.phase, to) {
		return fmt.Errorf("invalid session transition %s → %s", c.phase, to)
	}
	slog.Debug("Session phase transition", "from", c.phase, "to", to)
	c.phase = to
	return nil
}

func (c *Controller) notifyLocked() {
	if c.onChange == nil {
		return
	}
	snap := c.snapshotLocked()
	go c.onChange(snap)
}

// annotateDistances computes the display distance for each job and sorts
// the list by proximity to the anchor. Jobs with invalid coordinates keep
// an empty label and sort last.
func annotateDistances(anchor geo.Point, jobs []model.ShortTermJob) {
	type entry struct {
		idx int
		d   float64
	}
	entries := make([]entry, len(jobs))
	for i := range jobs {
		if jobs[i].Coord.Valid() {
			d := geo.Distance(anchor, jobs[i].Coord)
			entries[i] = entry{idx: i, d: d}
			jobs[i].Distance = geo.FormatKm(d)
		} else {
			entries[i] = entry{idx: i, d: math.Inf(1)}
			jobs[i].Distance = ""
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].d < entries[j].d })

	sorted := make([]model.ShortTermJob, len(jobs))
	for i, e := range entries {
		sorted[i] = jobs[e.idx]
	}
	copy(jobs, sorted)
}
