package physics

import (
	"errors"
	"sync"
	"testing"

	"github.com/san-kum/rigidsim/internal/dynamo"
)

func TestQueueConcurrentPush(t *testing.T) {
	e := newTestEngine(t)
	id := mustCreate(t, e, "box")
	q := NewQueue()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.ApplyForce(id, dynamo.Vec2{X: 1})
		}()
	}
	wg.Wait()

	if q.Len() != 100 {
		t.Fatalf("queue length = %d, want 100", q.Len())
	}
	if err := q.Flush(e); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if q.Len() != 0 {
		t.Errorf("queue not drained")
	}
	if got := mustBody(t, e, id).Acceleration().X; got != 100 {
		t.Errorf("acceleration.x = %v, want 100", got)
	}
}

func TestQueueFlushOrderAndErrors(t *testing.T) {
	e := newTestEngine(t)
	id := mustCreate(t, e, "box")
	q := NewQueue()

	q.SetLinearVelocity(id, dynamo.Vec2{X: 1})
	q.ApplyTorque(id+1, 2)
	q.SetLinearVelocity(id, dynamo.Vec2{X: 7})
	q.SetAngularVelocity(id, 3)

	err := q.Flush(e)
	if !errors.Is(err, dynamo.ErrBodyNotFound) {
		t.Fatalf("expected ErrBodyNotFound, got %v", err)
	}

	b := mustBody(t, e, id)
	if b.Velocity().X != 7 {
		t.Errorf("velocity.x = %v, want last pushed value 7", b.Velocity().X)
	}
	if b.AngularVelocity() != 3 {
		t.Errorf("angular velocity = %v, want 3", b.AngularVelocity())
	}
}
