package tracker

import (
	"sync"
	"testing"
)

func TestTracker_Counters(t *testing.T) {
	tr := New()

	tr.TrackAPISuccess("catalog")
	tr.TrackAPISuccess("catalog")
	tr.TrackAPIFailure("catalog")
	tr.TrackAPIZero("catalog")
	tr.TrackDegrade("locate")
	tr.TrackCacheHit("catalog")
	tr.TrackCacheMiss("catalog")

	snap := tr.Snapshot()

	cat := snap["catalog"]
	if cat.APISuccess != 2 || cat.APIFailures != 1 || cat.APIZeroResult != 1 {
		t.Errorf("catalog stats = %+v", cat)
	}
	if cat.CacheHits != 1 || cat.CacheMisses != 1 {
		t.Errorf("catalog cache stats = %+v", cat)
	}
	if snap["locate"].DegradedFallback != 1 {
		t.Errorf("locate stats = %+v", snap["locate"])
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.TrackAPISuccess("catalog")
			tr.TrackDegrade("locate")
		}()
	}
	wg.Wait()

	snap := tr.Snapshot()
	if snap["catalog"].APISuccess != 50 {
		t.Errorf("APISuccess = %d, want 50", snap["catalog"].APISuccess)
	}
	if snap["locate"].DegradedFallback != 50 {
		t.Errorf("DegradedFallback = %d, want 50", snap["locate"].DegradedFallback)
	}
}
