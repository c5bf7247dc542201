package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/physics"
)

func newEngine(t *testing.T) (*physics.Engine, physics.BodyID) {
	t.Helper()
	eng := physics.New()
	eng.CreateWorld()
	id, err := eng.CreateBody("ball")
	if err != nil {
		t.Fatal(err)
	}
	return eng, id
}

func TestSimulatorRun(t *testing.T) {
	eng, id := newEngine(t)
	s := New(eng)

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}

	if got := result.Frames[len(result.Frames)-1].Time; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("final time = %v, want 1.0", got)
	}
	track := result.Track(id)
	if len(track) != 11 {
		t.Fatalf("expected 11 tracked states, got %d", len(track))
	}
	last := track[len(track)-1]
	if last.Velocity.Y <= 9 || last.Velocity.Y >= 9.81 {
		t.Errorf("final vy = %v, want just below 9.81 (drag)", last.Velocity.Y)
	}
}

func TestSimulatorRecordEvery(t *testing.T) {
	eng, _ := newEngine(t)
	s := New(eng)

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.1, RecordEvery: 4})
	if err != nil {
		t.Fatal(err)
	}
	// initial, after steps 4 and 8, and the last of 11 steps
	times := result.Times()
	if len(times) != 4 {
		t.Fatalf("expected 4 frames, got %d: %v", len(times), times)
	}
	if math.Abs(times[len(times)-1]-float64(result.StepsTaken)*0.1) > 1e-9 {
		t.Errorf("last frame time = %v, steps = %d", times[len(times)-1], result.StepsTaken)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	eng, _ := newEngine(t)
	s := New(eng)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"NaN dt", Config{Dt: math.NaN(), Duration: 1.0}},
		{"infinite dt", Config{Dt: math.Inf(1), Duration: 1.0}},
		{"NaN duration", Config{Dt: 0.1, Duration: math.NaN()}},
		{"infinite duration", Config{Dt: 0.01, Duration: math.Inf(1)}},
		{"too many steps", Config{Dt: 0.01, Duration: 1e30}},
		{"tiny dt", Config{Dt: 1e-300, Duration: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	if _, err := New(physics.New()).Run(context.Background(), DefaultConfig()); err == nil {
		t.Error("expected error for engine without world")
	}
}

func TestSimulatorCanceled(t *testing.T) {
	eng, _ := newEngine(t)
	s := New(eng)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("steps taken after cancel: %d", result.StepsTaken)
	}
}

func TestSimulatorStopsOnStepError(t *testing.T) {
	eng, _ := newEngine(t)
	if _, err := eng.CreateBody("wild", physics.WithVelocity(dynamo.Vec2{X: math.MaxFloat64})); err != nil {
		t.Fatal(err)
	}
	s := New(eng)

	result, err := s.Run(context.Background(), Config{Dt: 10, Duration: 100})
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}
	if result == nil || len(result.Frames) != 1 {
		t.Errorf("expected only the initial frame in the partial result")
	}
}

func TestSimulatorFlushesQueue(t *testing.T) {
	eng, id := newEngine(t)
	_ = eng.SetGravity(dynamo.Vec2{})
	q := physics.NewQueue()
	s := New(eng)
	s.SetQueue(q)

	q.SetLinearVelocity(id, dynamo.Vec2{X: 2})
	q.ApplyTorque(id+99, 1)

	if _, err := s.Run(context.Background(), Config{Dt: 0.5, Duration: 0.5}); err != nil {
		t.Fatalf("queue errors must not abort the run: %v", err)
	}
	b, _ := eng.Body(id)
	if b.Position().X != 1 {
		t.Errorf("x = %v, want 1", b.Position().X)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(f Frame) {
	m.count++
	m.sum += f.Time
}
func (m *testMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *testMetric) Reset() {
	m.count = 0
	m.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	eng, _ := newEngine(t)
	s := New(eng)

	metric := &testMetric{}
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 11 {
		t.Errorf("expected 11 observations, got %d", metric.count)
	}
}

type pushRight struct {
	id    physics.BodyID
	calls int
	fail  bool
}

func (p *pushRight) Name() string { return "push" }

func (p *pushRight) Apply(eng *physics.Engine, t float64) error {
	p.calls++
	if p.fail {
		return errors.New("actuator offline")
	}
	return eng.ApplyForce(p.id, dynamo.Vec2{X: 1})
}

func TestSimulatorControllers(t *testing.T) {
	eng, id := newEngine(t)
	s := New(eng)
	c := &pushRight{id: id}
	s.AddController(c)

	if _, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0}); err != nil {
		t.Fatal(err)
	}
	if c.calls != 10 {
		t.Errorf("controller called %d times, want 10", c.calls)
	}

	b, _ := eng.Body(id)
	if b.Velocity().X <= 0 {
		t.Errorf("controller force had no effect: v=%v", b.Velocity())
	}
}

func TestSimulatorControllerError(t *testing.T) {
	eng, id := newEngine(t)
	s := New(eng)
	s.AddController(&pushRight{id: id, fail: true})

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err == nil {
		t.Fatal("expected controller error")
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps, got %d", result.StepsTaken)
	}
}
