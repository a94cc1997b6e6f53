package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	probes := []Probe{
		{
			Name:     "Local Store",
			Check:    func(ctx context.Context) error { return nil },
			Critical: true,
		},
		{
			Name:     "Catalog",
			Check:    func(ctx context.Context) error { return errors.New("unreachable") },
			Critical: false,
		},
	}

	results := Run(context.Background(), probes)
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Error)
	assert.Error(t, results[1].Error)
}

func TestRun_TimeoutBoundsCheck(t *testing.T) {
	probes := []Probe{
		{
			Name:    "Slow",
			Timeout: 10 * time.Millisecond,
			Check: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		},
	}

	start := time.Now()
	results := Run(context.Background(), probes)
	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, results[0].Error, context.DeadlineExceeded)
}

func TestAnalyzeResults(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		wantErr bool
	}{
		{
			name: "all pass",
			results: []Result{
				{Probe: Probe{Name: "P1", Critical: true}},
			},
			wantErr: false,
		},
		{
			name: "critical failure",
			results: []Result{
				{Probe: Probe{Name: "P1", Critical: true}, Error: errors.New("fail")},
			},
			wantErr: true,
		},
		{
			name: "non-critical failure",
			results: []Result{
				{Probe: Probe{Name: "P1", Critical: false}, Error: errors.New("fail")},
			},
			wantErr: false,
		},
		{
			name: "mixed failure",
			results: []Result{
				{Probe: Probe{Name: "P1", Critical: false}, Error: errors.New("fail")},
				{Probe: Probe{Name: "P2", Critical: true}, Error: errors.New("fail")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AnalyzeResults(tt.results)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
