package models

import (
	"math"
	"testing"
)

func TestSteps(t *testing.T) {
	tests := []struct {
		t, dt float64
		want  int
	}{
		{1, 1.0 / 252, 252},
		{1, 0.1, 10},
		{0.5, 0.1, 5},
		{1, 0.3, 3},
		{1, 1, 1},
		{1, 2, 0},
		{1, 0, 0},
		{1, -0.1, 0},
	}
	for _, tt := range tests {
		if got := Steps(tt.t, tt.dt); got != tt.want {
			t.Errorf("Steps(%v, %v) = %d, want %d", tt.t, tt.dt, got, tt.want)
		}
	}
}

func TestTimeGrid(t *testing.T) {
	if got := TimeGrid(1, 0); got != nil {
		t.Errorf("TimeGrid(1, 0) = %v, want nil", got)
	}
	if got := TimeGrid(1, 1); len(got) != 1 || got[0] != 0 {
		t.Errorf("TimeGrid(1, 1) = %v, want [0]", got)
	}

	grid := TimeGrid(2, 5)
	want := []float64{0, 0.5, 1, 1.5, 2}
	for i := range want {
		if math.Abs(grid[i]-want[i]) > 1e-12 {
			t.Fatalf("TimeGrid(2, 5) = %v, want %v", grid, want)
		}
	}
}

func TestWienerPathStartsAtOrigin(t *testing.T) {
	rng := NewSource(1)
	w := WienerPath(rng, 100, 0.01)
	if len(w) != 100 {
		t.Fatalf("len = %d, want 100", len(w))
	}
	if w[0] != 0 {
		t.Errorf("W(0) = %v, want 0", w[0])
	}
}

func TestWienerPathVariance(t *testing.T) {
	// Var[W(T)] = T across many independent paths.
	const (
		paths = 4000
		n     = 101
		dt    = 0.01
	)
	rng := NewSource(11)
	sum, sumSq := 0.0, 0.0
	for i := 0; i < paths; i++ {
		w := WienerPath(rng, n, dt)
		end := w[n-1]
		sum += end
		sumSq += end * end
	}
	mean := sum / paths
	variance := sumSq/paths - mean*mean
	horizon := float64(n-1) * dt
	if math.Abs(mean) > 0.06 {
		t.Errorf("mean W(T) = %v, want ~0", mean)
	}
	if math.Abs(variance-horizon) > 0.1 {
		t.Errorf("var W(T) = %v, want ~%v", variance, horizon)
	}
}

func TestShockSchemes(t *testing.T) {
	inc := shocks(NewSource(3), 50, 0.02, IncrementShocks)
	cum := shocks(NewSource(3), 50, 0.02, CumulativeShocks)

	acc := 0.0
	for i := range inc {
		acc += inc[i]
		if math.Abs(acc-cum[i]) > 1e-12 {
			t.Fatalf("cumulative shock %d = %v, want running sum %v", i, cum[i], acc)
		}
	}
	if IncrementShocks.String() != "increment" || CumulativeShocks.String() != "cumulative" {
		t.Error("unexpected scheme names")
	}
}
