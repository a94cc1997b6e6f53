package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigscout/pkg/cache"
	"gigscout/pkg/geo"
	"gigscout/pkg/request"
	"gigscout/pkg/tracker"
)

var bengaluru = geo.Point{Lat: 12.9716, Lng: 77.5946}

func newTestCatalog(t *testing.T, handler http.Handler) (*Client, *tracker.Tracker) {
	t.Helper()
	svr := httptest.NewServer(handler)
	t.Cleanup(svr.Close)

	tr := tracker.New()
	req := request.New(cache.NullCache{}, tr, request.Options{
		Retries:   1,
		BaseDelay: time.Millisecond,
	})
	return NewClient(req, tr, svr.URL, 50), tr
}

const nearbyBody = `[
	{"id":"d-1","title":"Warehouse Loader","location":"Koramangala","address":"80 Feet Rd",
	 "pay":"₹1,000/day","timing":"9am-6pm","posted_at":"2 hours ago",
	 "employer":{"name":"Ravi Traders","rating":4.2},
	 "lat":12.9352,"lng":77.6245,"skills":["lifting"]},
	{"id":"d-2","title":"Event Helper","location":"Indiranagar","address":"100 Feet Rd",
	 "pay":"₹700/day","timing":"10am-8pm","posted_at":"1 day ago",
	 "employer":{"name":"Star Events","rating":4.8},
	 "lat":12.9719,"lng":77.6412}
]`

func TestFetchNearby(t *testing.T) {
	var gotQuery map[string]string
	c, _ := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"radius_km": r.URL.Query().Get("radius_km"),
			"category":  r.URL.Query().Get("category"),
			"lat":       r.URL.Query().Get("lat"),
		}
		_, _ = w.Write([]byte(nearbyBody))
	}))

	jobs := c.FetchNearby(context.Background(), bengaluru, 10)
	require.Len(t, jobs, 2)

	assert.Equal(t, "d-1", jobs[0].ID)
	assert.Equal(t, "Ravi Traders", jobs[0].Employer.Name)
	assert.InDelta(t, 12.9352, jobs[0].Coord.Lat, 1e-9)
	assert.Equal(t, "10", gotQuery["radius_km"])
	assert.Equal(t, "daily", gotQuery["category"])
	assert.Equal(t, "12.971600", gotQuery["lat"])
}

func TestFetchNearby_RadiusAnyTranslated(t *testing.T) {
	var gotRadius string
	c, _ := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRadius = r.URL.Query().Get("radius_km")
		_, _ = w.Write([]byte("[]"))
	}))

	c.FetchNearby(context.Background(), bengaluru, RadiusAny)
	assert.Equal(t, "50", gotRadius)
}

func TestFetchNearby_FailureDegradesToEmpty(t *testing.T) {
	c, tr := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	jobs := c.FetchNearby(context.Background(), bengaluru, 10)
	assert.Empty(t, jobs)
	assert.EqualValues(t, 1, tr.Snapshot()["catalog"].DegradedFallback)
}

func TestFetchNearby_MalformedBodyDegradesToEmpty(t *testing.T) {
	c, tr := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))

	jobs := c.FetchNearby(context.Background(), bengaluru, 10)
	assert.Empty(t, jobs)
	assert.EqualValues(t, 1, tr.Snapshot()["catalog"].DegradedFallback)
}

func TestFetchNearby_SkipsUnclassifiableRecords(t *testing.T) {
	body := `[
		{"id":"ok","title":"Loader","pay":"₹800/day","employer":{"name":"A","rating":4.0}},
		{"id":"both","title":"Bad","employer":{"name":"B","rating":1.0},"company":"ACME"},
		{"id":"neither","title":"Bad2"}
	]`
	c, _ := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))

	jobs := c.FetchNearby(context.Background(), bengaluru, 10)
	require.Len(t, jobs, 1)
	assert.Equal(t, "ok", jobs[0].ID)
}

func TestFetchLongTerm(t *testing.T) {
	body := `[
		{"id":"lt-1","title":"Delivery Supervisor","company":"SwiftShip Logistics",
		 "location":"Whitefield","salary":"₹25,000/month","type":"Full-time",
		 "requirements":["2-wheeler license"],"posted_at":"3 days ago","work_hours":"9am-6pm"}
	]`
	var gotStatus, gotCategory string
	c, _ := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		gotCategory = r.URL.Query().Get("category")
		_, _ = w.Write([]byte(body))
	}))

	jobs := c.FetchLongTerm(context.Background())
	require.Len(t, jobs, 1)
	assert.Equal(t, "SwiftShip Logistics", jobs[0].Company)
	assert.Equal(t, "₹25,000/month", jobs[0].Salary)
	assert.Nil(t, jobs[0].Coord)
	assert.Equal(t, "open", gotStatus)
	assert.Equal(t, "longterm", gotCategory)
}

func TestFetchLongTerm_ZeroResultTracked(t *testing.T) {
	c, tr := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))

	jobs := c.FetchLongTerm(context.Background())
	assert.Empty(t, jobs)
	assert.EqualValues(t, 1, tr.Snapshot()["catalog"].APIZeroResult)
}

func TestClassify(t *testing.T) {
	lat, lng := 12.9352, 77.6245

	t.Run("employer means short term", func(t *testing.T) {
		l, err := classify(&jobRecord{ID: "a", Employer: &employerRecord{Name: "X"}, Lat: &lat, Lng: &lng})
		require.NoError(t, err)
		assert.True(t, l.IsShortTerm())
	})

	t.Run("company without employer means long term", func(t *testing.T) {
		l, err := classify(&jobRecord{ID: "b", Company: "ACME"})
		require.NoError(t, err)
		assert.False(t, l.IsShortTerm())
	})

	t.Run("both rejected", func(t *testing.T) {
		_, err := classify(&jobRecord{ID: "c", Employer: &employerRecord{}, Company: "ACME"})
		assert.Error(t, err)
	})

	t.Run("neither rejected", func(t *testing.T) {
		_, err := classify(&jobRecord{ID: "d"})
		assert.Error(t, err)
	})
}
