package ready

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/logging"
)

// Gate is a one-shot readiness signal. The zero value is not usable; create
// gates with NewGate.
type Gate struct {
	once sync.Once
	done chan struct{}

	mu  sync.Mutex
	err error
}

// NewGate creates an unsignalled gate.
func NewGate() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Signal marks the gate ready (err == nil) or failed (err != nil).
// Only the first call has any effect.
func (g *Gate) Signal(err error) {
	g.once.Do(func() {
		g.mu.Lock()
		g.err = err
		g.mu.Unlock()
		close(g.done)
	})
}

// Done returns a channel closed when the gate has been signalled.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// Err returns the error the gate was signalled with. Only meaningful after
// Done() is closed.
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Signalled reports whether the gate has been signalled yet.
func (g *Gate) Signalled() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// TimeoutError reports that a gate was not signalled within the allowed wait.
type TimeoutError struct {
	Name    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s not ready after %s", e.Name, e.Timeout)
}

// IsTimeout checks whether an error is a gate timeout.
func IsTimeout(err error) bool {
	_, ok := err.(*TimeoutError)
	return ok
}

// Await blocks until the gate is signalled, the timeout elapses, or ctx is
// cancelled. A timeout is logged as a warning and returned as a
// *TimeoutError so the caller can skip the dependent feature.
func Await(ctx context.Context, name string, g *Gate, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-g.Done():
		return g.Err()
	case <-timer.C:
		logging.Warn("Readiness wait timed out",
			zap.String("gate", name),
			zap.Duration("timeout", timeout),
		)
		return &TimeoutError{Name: name, Timeout: timeout}
	case <-ctx.Done():
		return ctx.Err()
	}
}
