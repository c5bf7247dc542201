package sim

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/physics"
)

// MaxSteps bounds the number of steps a single run may take.
const MaxSteps = math.MaxInt32

// Simulator drives an engine at a fixed timestep and records what happens.
type Simulator struct {
	eng         *physics.Engine
	queue       *physics.Queue
	controllers []Controller
	metrics     []Metric
	observers   []Observer
	logger      *log.Logger
}

func New(eng *physics.Engine) *Simulator {
	return &Simulator{
		eng:       eng,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.New(io.Discard),
	}
}

func (s *Simulator) Engine() *physics.Engine { return s.eng }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// AddController registers c to run after queued mutations and before every step.
func (s *Simulator) AddController(c Controller) { s.controllers = append(s.controllers, c) }

// SetQueue makes the simulator flush q before every step.
func (s *Simulator) SetQueue(q *physics.Queue) { s.queue = q }

func (s *Simulator) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Run steps the engine until cfg.Duration has elapsed or ctx is done. On a
// failed step the partial result is returned together with the error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	every := max(cfg.RecordEvery, 1)

	result := &Result{
		Frames:  make([]Frame, 0, steps/every+2),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	frame := s.frame()
	result.Frames = append(result.Frames, frame)
	s.observe(frame)

	s.logger.Debug("run started", "bodies", s.eng.Len(), "steps", steps, "dt", cfg.Dt, "integrator", s.eng.Integrator().Name())

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		if s.queue != nil {
			if err := s.queue.Flush(s.eng); err != nil {
				s.logger.Warn("queued mutation rejected", "err", err)
			}
		}

		if err := s.applyControllers(); err != nil {
			s.logger.Error("controller failed", "step", i, "err", err)
			runErr = err
			break
		}

		if err := s.eng.Step(cfg.Dt); err != nil {
			s.logger.Error("step failed", "step", i, "err", err)
			runErr = err
			break
		}
		result.StepsTaken++

		frame = s.frame()
		s.observe(frame)
		if (i+1)%every == 0 || i == steps-1 {
			result.Frames = append(result.Frames, frame)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run finished", "steps", result.StepsTaken, "frames", len(result.Frames))
	return result, runErr
}

func (s *Simulator) applyControllers() error {
	t := s.eng.Time()
	for _, c := range s.controllers {
		if err := c.Apply(s.eng, t); err != nil {
			return fmt.Errorf("controller %s: %w", c.Name(), err)
		}
	}
	return nil
}

func (s *Simulator) frame() Frame {
	return Frame{Time: s.eng.Time(), Bodies: s.eng.Snapshot()}
}

func (s *Simulator) observe(f Frame) {
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnStep(f)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !dynamo.IsFinite(cfg.Dt) || cfg.Dt <= 0 {
		return fmt.Errorf("dt must be finite and positive, got %f", cfg.Dt)
	}
	if !dynamo.IsFinite(cfg.Duration) || cfg.Duration <= 0 {
		return fmt.Errorf("duration must be finite and positive, got %f", cfg.Duration)
	}
	if n := math.Round(cfg.Duration / cfg.Dt); n > MaxSteps {
		return fmt.Errorf("run of %g steps exceeds the limit of %d", n, MaxSteps)
	}
	if !s.eng.HasWorld() {
		return fmt.Errorf("engine has no world: call CreateWorld first")
	}
	return nil
}
