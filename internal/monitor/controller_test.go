package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"camwatch/internal/detect"
)

func TestController_StartStop(t *testing.T) {
	h := newHarness(harnessOpts{scripts: []script{silent()}, sniffTimeout: time.Minute})
	c := NewController(h.mon)

	if err := c.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Stop before Start = %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start = %v", err)
	}
	if !c.Running() || c.Done() == nil {
		t.Fatalf("controller should be running")
	}
	if !waitFor(2*time.Second, func() bool { s, _ := h.mon.State(); return s == StateSniffing }) {
		t.Fatalf("loop never reached sniffing")
	}
	if !c.Status().Running {
		t.Fatalf("status should report running")
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if c.Running() || c.LastErr() != nil {
		t.Fatalf("after stop running=%v err=%v", c.Running(), c.LastErr())
	}

	// A stopped controller can be started again.
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop after restart: %v", err)
	}
}

func TestController_FatalEndsSession(t *testing.T) {
	h := newHarness(harnessOpts{
		scripts: []script{silent()},
		loadErr: detect.ModelLoadError{Missing: []string{"deploy.prototxt"}},
	})
	c := NewController(h.mon)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	done := c.Done()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("session did not end")
	}
	if !waitFor(time.Second, func() bool { return !c.Running() }) {
		t.Fatalf("controller still running")
	}
	if !detect.IsModelLoadError(c.LastErr()) {
		t.Fatalf("LastErr = %v", c.LastErr())
	}
	st := c.Status()
	if st.Running || st.LastError == "" || st.Message != MsgNoModel {
		t.Fatalf("status = %+v", st)
	}
	if err := c.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Stop after fatal = %v", err)
	}
}

func TestController_ParentCancel(t *testing.T) {
	h := newHarness(harnessOpts{scripts: []script{silent()}, sniffTimeout: time.Minute})
	c := NewController(h.mon)
	ctx, cancel := context.WithCancel(context.Background())
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	done := c.Done()
	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("session did not end on parent cancel")
	}
}
