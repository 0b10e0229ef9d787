package elevation

import (
	"errors"
	"math"
	"testing"

	"github.com/Paskordnikk/Strekoza/internal/sampler"
)

func TestReconcileValuesPassthrough(t *testing.T) {
	got := ReconcileValues([]float64{12, 0, 340.5})
	want := []float64{12, 0, 340.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReconcileSeaLevelHeuristic(t *testing.T) {
	// A void between two low shore readings resolves to sea level, not a
	// blend of the neighbors.
	got := ReconcileValues([]float64{2, -1, 3})
	if got[1] != 0 {
		t.Fatalf("expected 0 for void between low neighbors, got %v", got[1])
	}
	if got[0] != 2 || got[2] != 3 {
		t.Fatalf("valid neighbors must be untouched: %v", got)
	}
}

func TestReconcileLinearInterpolation(t *testing.T) {
	got := ReconcileValues([]float64{100, -1, -1, 130})
	if math.Abs(got[1]-110) > 1e-9 || math.Abs(got[2]-120) > 1e-9 {
		t.Fatalf("expected 110, 120, got %v, %v", got[1], got[2])
	}
}

func TestReconcileEdgeVoids(t *testing.T) {
	// Leading void takes the next valid value, trailing void the previous.
	got := ReconcileValues([]float64{-5, 80, -5})
	if got[0] != 80 || got[2] != 80 {
		t.Fatalf("expected edge voids to copy the neighbor: %v", got)
	}

	// Unless that neighbor is below the sea-level threshold.
	got = ReconcileValues([]float64{-5, 3})
	if got[0] != 0 {
		t.Fatalf("expected 0 for void next to low neighbor, got %v", got[0])
	}
	got = ReconcileValues([]float64{3, -5})
	if got[1] != 0 {
		t.Fatalf("expected 0 for trailing void next to low neighbor, got %v", got[1])
	}
}

func TestReconcileAllVoid(t *testing.T) {
	got := ReconcileValues([]float64{-1, VoidM, -7})
	for i, v := range got {
		if v != 0 {
			t.Fatalf("index %d: expected 0, got %v", i, v)
		}
	}
}

func TestReconcileTotality(t *testing.T) {
	raw := []float64{-1, 15, VoidM, -3, 7, -2}
	for i, v := range ReconcileValues(raw) {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d not reconciled: %v", i, v)
		}
	}
}

func TestReconcileMismatch(t *testing.T) {
	samples := []sampler.SamplePoint{{DistanceKm: 0}, {DistanceKm: 0.5}}
	err := Reconcile(samples, []float64{10})
	if !errors.Is(err, ErrCountMismatch) {
		t.Fatalf("expected ErrCountMismatch, got %v", err)
	}
}

func TestReconcileAssigns(t *testing.T) {
	samples := []sampler.SamplePoint{{DistanceKm: 0}, {DistanceKm: 0.5}, {DistanceKm: 1}}
	if err := Reconcile(samples, []float64{100, -1, 200}); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if samples[0].ElevationM != 100 || samples[1].ElevationM != 150 || samples[2].ElevationM != 200 {
		t.Fatalf("unexpected elevations: %+v", samples)
	}
}
