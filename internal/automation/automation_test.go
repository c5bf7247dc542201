package automation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/dynamo"
)

func dropScene() *config.Scene {
	s := config.GetPreset("drop")
	s.Duration = 1.0
	return s
}

func TestCompareIntegrators(t *testing.T) {
	sw := Sweep{
		Scene:    dropScene(),
		Variants: IntegratorVariants([]string{"euler", "semi-implicit", "verlet"}, 0.01),
	}

	out, err := Run(context.Background(), sw)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(out))
	}

	if out[0].Divergence != 0 {
		t.Errorf("reference divergence = %v, want 0", out[0].Divergence)
	}
	for _, o := range out {
		if !o.Stable || o.Steps != 100 {
			t.Errorf("%s: stable=%v steps=%d", o.Label(), o.Stable, o.Steps)
		}
		if o.MaxSpeed <= 0 || o.MeanEnergy <= 0 {
			t.Errorf("%s: metrics not collected: %+v", o.Label(), o)
		}
	}

	// semi-implicit moves with the updated velocity, so it falls further
	if out[1].Divergence <= 0 || out[1].Final[0].Position.Y <= out[0].Final[0].Position.Y {
		t.Errorf("semi-implicit should fall further than euler: %v vs %v",
			out[1].Final[0].Position, out[0].Final[0].Position)
	}
}

func TestDtVariants(t *testing.T) {
	vs := DtVariants("euler", []float64{0.1, 0.01})
	if vs[0].Label() != "euler@0.1" || vs[1].Dt != 0.01 {
		t.Errorf("variants = %+v", vs)
	}

	out, err := Run(context.Background(), Sweep{Scene: dropScene(), Variants: vs})
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Steps != 10 || out[1].Steps != 100 {
		t.Errorf("steps = %d, %d", out[0].Steps, out[1].Steps)
	}
}

func TestUnstableVariant(t *testing.T) {
	scene := config.DefaultScene()
	scene.Duration = 5.0
	scene.Bodies = []config.BodySpec{
		{Shape: "circle", Velocity: &config.Vec{X: math.MaxFloat64}},
	}

	out, err := Run(context.Background(), Sweep{
		Scene:    scene,
		Variants: IntegratorVariants([]string{"euler"}, 0.5),
	})
	if err != nil {
		t.Fatalf("unstable variant should not fail the sweep: %v", err)
	}
	if out[0].Stable || !errors.Is(out[0].Err, dynamo.ErrUnstable) {
		t.Errorf("outcome = %+v", out[0])
	}
}

func TestSweepErrors(t *testing.T) {
	if _, err := Run(context.Background(), Sweep{}); err == nil {
		t.Error("expected error without scene")
	}
	if _, err := Run(context.Background(), Sweep{Scene: dropScene()}); err == nil {
		t.Error("expected error without variants")
	}

	_, err := Run(context.Background(), Sweep{
		Scene:    dropScene(),
		Variants: IntegratorVariants([]string{"rk4"}, 0.01),
	})
	if err == nil {
		t.Error("expected error for unknown integrator")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, Sweep{Scene: dropScene(), Variants: DtVariants("euler", []float64{0.01})})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
