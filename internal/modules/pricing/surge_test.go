package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"honeycomb/internal/hex"
	"honeycomb/internal/modules/cells"
	"honeycomb/internal/modules/settings"
)

func surgeSettings() *settings.ZoneSettings {
	v := settings.Defaults() // threshold 1.5, cap 2.0, step 0.1
	v.Enabled = true
	v.SurgeEnabled = true
	v.IncentivesEnabled = true
	return &v
}

func TestImbalance(t *testing.T) {
	cases := []struct {
		demand, supply int
		want           float64
	}{
		{0, 0, 0},
		{5, 0, 5},   // supply floored at 1
		{5, 2, 2.5},
		{3, 3, 1},
		{0, 10, 0},
	}
	for _, tc := range cases {
		if got := Imbalance(tc.demand, tc.supply); got != tc.want {
			t.Errorf("Imbalance(%d, %d) = %v, want %v", tc.demand, tc.supply, got, tc.want)
		}
	}
}

func TestSurgeStepFunction(t *testing.T) {
	s := surgeSettings()
	cases := []struct {
		name      string
		imbalance float64
		want      float64
	}{
		{"zero imbalance", 0, 1.0},
		{"just below threshold", 1.49, 1.0},
		{"at threshold, zero steps", 1.5, 1.0},
		{"half step short", 1.99, 1.0},
		{"one step", 2.0, 1.1},
		{"worked example: supply 2 demand 5", 2.5, 1.2},
		{"floor not round", 2.49, 1.1},
		{"many steps hit the cap", 9.0, 2.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, Surge(tc.imbalance, s), 1e-9)
		})
	}
}

func TestSurgeMonotonicAndBounded(t *testing.T) {
	s := surgeSettings()
	prev := 0.0
	for imb := 0.0; imb <= 12.0; imb += 0.05 {
		got := Surge(imb, s)
		require.GreaterOrEqual(t, got, 1.0, "imbalance %v", imb)
		require.LessOrEqual(t, got, s.SurgeCap, "imbalance %v", imb)
		require.GreaterOrEqual(t, got, prev, "surge decreased at imbalance %v", imb)
		prev = got
	}
}

func TestSurgeDisabled(t *testing.T) {
	s := surgeSettings()
	s.SurgeEnabled = false
	require.Equal(t, 1.0, Surge(10, s))
	require.Equal(t, 1.0, Surge(10, nil))

	off := surgeSettings()
	off.Enabled = false
	require.Equal(t, 1.0, Surge(10, off), "zone master flag off disables surge")
}

func TestIncentiveRamp(t *testing.T) {
	s := surgeSettings() // incentive threshold 2.0, max 50
	cases := []struct {
		imbalance float64
		want      float64
	}{
		{0, 0},
		{1.99, 0},
		{2.0, 0},
		{2.5, 5},
		{3.0, 10},
		{7.0, 50},
		{100, 50}, // capped
	}
	for _, tc := range cases {
		require.InDelta(t, tc.want, Incentive(tc.imbalance, s), 1e-9, "imbalance %v", tc.imbalance)
	}
}

func TestIncentiveRoundsToCents(t *testing.T) {
	s := surgeSettings()
	got := Incentive(2.333, s) // excess 0.333 -> 3.33
	require.InDelta(t, 3.33, got, 1e-9)
}

func TestIncentiveDisabled(t *testing.T) {
	s := surgeSettings()
	s.IncentivesEnabled = false
	require.Equal(t, 0.0, Incentive(10, s))
	require.Equal(t, 0.0, Incentive(10, nil))
}

// --- service ---

type fakeReader struct {
	counters cells.Counters
	err      error
}

func (f fakeReader) Counters(context.Context, string, hex.CellID, int64) (cells.Counters, error) {
	return f.counters, f.err
}

type stubResolver struct{ s *settings.ZoneSettings }

func (r stubResolver) Resolve(context.Context, string) *settings.ZoneSettings { return r.s }

type fixedClock struct{ w int64 }

func (c fixedClock) CurrentWindow() int64 { return c.w }

func TestSurgeMultiplierWorkedExample(t *testing.T) {
	// supply=2, demand=5 -> imbalance 2.5 -> excess 1.0 -> 2 steps -> 1.2
	reader := fakeReader{counters: cells.Counters{Supply: 2, Demand: 5}}
	svc := NewService(reader, stubResolver{surgeSettings()}, fixedClock{}, zap.NewNop())
	require.InDelta(t, 1.2, svc.SurgeMultiplier(context.Background(), 25.03, 121.56, "z1"), 1e-9)
}

func TestSurgeMultiplierDisabledZone(t *testing.T) {
	svc := NewService(fakeReader{}, stubResolver{nil}, fixedClock{}, zap.NewNop())
	require.Equal(t, 1.0, svc.SurgeMultiplier(context.Background(), 25.03, 121.56, "z1"))
}

func TestSurgeMultiplierStoreFailure(t *testing.T) {
	reader := fakeReader{err: errors.New("store unavailable")}
	svc := NewService(reader, stubResolver{surgeSettings()}, fixedClock{}, zap.NewNop())
	require.Equal(t, 1.0, svc.SurgeMultiplier(context.Background(), 25.03, 121.56, "z1"))
}
