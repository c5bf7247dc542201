package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/rigidsim/internal/config"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{-1, 0, 1, 2}, {3, 4, 5}})
	calls := 0
	best, val, err := g.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		calls++
		return math.Pow(p["a"]-1, 2) + math.Pow(p["b"]-4, 2), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 12 {
		t.Errorf("objective called %d times, want 12", calls)
	}
	if diff := cmp.Diff(map[string]float64{"a": 1, "b": 4}, best); diff != "" {
		t.Errorf("best params mismatch (-want +got):\n%s", diff)
	}
	if val != 0 {
		t.Errorf("best value = %v, want 0", val)
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	best, _, err := g.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		switch p["x"] {
		case 1:
			return 0, errors.New("diverged")
		case 2:
			return math.NaN(), nil
		}
		return 7, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if best["x"] != 3 {
		t.Errorf("best = %v, want x=3", best)
	}
}

func TestGridSearchErrors(t *testing.T) {
	g := NewGridSearch([]string{"x", "y"}, [][]float64{{1}})
	if _, _, err := g.Search(context.Background(), nil); err == nil {
		t.Error("expected error for mismatched grid")
	}

	boom := errors.New("boom")
	g = NewGridSearch([]string{"x"}, [][]float64{{1, 2}})
	_, _, err := g.Search(context.Background(), func(context.Context, map[string]float64) (float64, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped objective error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = g.Search(ctx, func(context.Context, map[string]float64) (float64, error) { return 1, nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestHoldObjective(t *testing.T) {
	scene := config.GetPreset("hover")
	scene.Duration = 6

	g := NewGridSearch([]string{"kp", "kd"}, [][]float64{{1, 16}, {0.5, 8}})
	best, val, err := g.Search(context.Background(), HoldObjective(scene, 0))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]float64{"kp": 16, "kd": 8}, best); diff != "" {
		t.Errorf("best gains mismatch (-want +got):\n%s", diff)
	}
	if val <= 0 || val > 1 {
		t.Errorf("tracking error = %v, want in (0, 1]", val)
	}

	if scene.Controllers[0].Kp != 16 || scene.Controllers[0].Kd != 8 {
		t.Error("objective mutated the input scene")
	}
}

func TestHoldObjectiveErrors(t *testing.T) {
	scene := config.GetPreset("hover")
	scene.Duration = 0.1

	if _, err := HoldObjective(scene, 3)(context.Background(), nil); err == nil {
		t.Error("expected error for missing controller")
	}
	if _, err := HoldObjective(scene, 0)(context.Background(), map[string]float64{"gain": 1}); err == nil {
		t.Error("expected error for unknown gain")
	}
}
