package monitor

import (
	"context"
	"errors"
	"sync"

	"camwatch/pkg/types"
)

// ErrAlreadyRunning is returned by Start while a session is active.
var ErrAlreadyRunning = errors.New("monitor already running")

// ErrNotRunning is returned by Stop when no session is active.
var ErrNotRunning = errors.New("monitor not running")

// Controller starts and stops monitoring sessions in the background, the
// way the start and stop buttons of a viewer would.
type Controller struct {
	mon *Monitor

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	lastErr error
}

// NewController wraps m.
func NewController(m *Monitor) *Controller {
	return &Controller{mon: m}
}

// Monitor returns the controlled Monitor.
func (c *Controller) Monitor() *Monitor { return c.mon }

// Start launches a session bound to parent.
func (c *Controller) Start(parent context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	c.cancel, c.done, c.lastErr = cancel, done, nil
	go func() {
		err := c.mon.Run(ctx)
		cancel()
		c.mu.Lock()
		c.lastErr = err
		c.cancel, c.done = nil, nil
		c.mu.Unlock()
		close(done)
	}()
	return nil
}

// Stop cancels the session and waits for the loop to exit.
func (c *Controller) Stop() error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if done == nil {
		return ErrNotRunning
	}
	cancel()
	<-done
	return nil
}

// Running reports whether a session is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done != nil
}

// Done returns a channel closed when the current session ends, or nil when
// none is running.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// LastErr is the error that ended the last session, nil after a clean stop.
func (c *Controller) LastErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Status is the Monitor status with the session fields filled in.
func (c *Controller) Status() types.StatusResponse {
	s := c.mon.Status()
	s.Running = c.Running()
	if err := c.LastErr(); err != nil {
		s.LastError = err.Error()
	}
	return s
}
