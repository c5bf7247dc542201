package physics

import (
	"errors"
	"sync"

	"github.com/san-kum/rigidsim/internal/dynamo"
)

// Queue buffers mutations coming from other goroutines so they land between
// steps, never during one. Producers call the push methods; the goroutine
// that owns the Engine calls Flush before each Step.
type Queue struct {
	mu   sync.Mutex
	cmds []func(*Engine) error
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) push(cmd func(*Engine) error) {
	q.mu.Lock()
	q.cmds = append(q.cmds, cmd)
	q.mu.Unlock()
}

func (q *Queue) ApplyForce(id BodyID, f dynamo.Vec2) {
	q.push(func(e *Engine) error { return e.ApplyForce(id, f) })
}

func (q *Queue) ApplyTorque(id BodyID, t float64) {
	q.push(func(e *Engine) error { return e.ApplyTorque(id, t) })
}

func (q *Queue) SetLinearVelocity(id BodyID, v dynamo.Vec2) {
	q.push(func(e *Engine) error { return e.SetLinearVelocity(id, v) })
}

func (q *Queue) SetAngularVelocity(id BodyID, w float64) {
	q.push(func(e *Engine) error { return e.SetAngularVelocity(id, w) })
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cmds)
}

// Flush applies every pending mutation in push order. A failing mutation does
// not stop the rest; all failures are joined into the returned error.
func (q *Queue) Flush(e *Engine) error {
	q.mu.Lock()
	cmds := q.cmds
	q.cmds = nil
	q.mu.Unlock()

	var errs []error
	for _, cmd := range cmds {
		if err := cmd(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
