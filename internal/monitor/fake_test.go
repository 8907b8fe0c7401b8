package monitor

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"camwatch/internal/capture"
	"camwatch/internal/config"
	"camwatch/internal/detect"
	"camwatch/internal/frame"
	"camwatch/internal/sink"
)

// script drives one fake transcoder: it receives the process streams and
// writes whatever the test wants.
type script func(stdout, stderr *io.PipeWriter)

type fakeProcess struct {
	pid        int
	outR, errR *io.PipeReader
	outW, errW *io.PipeWriter
	done       chan struct{}
	once       sync.Once
}

func (p *fakeProcess) Pid() int              { return p.pid }
func (p *fakeProcess) Stdout() io.ReadCloser { return p.outR }
func (p *fakeProcess) Stderr() io.ReadCloser { return p.errR }
func (p *fakeProcess) Done() <-chan struct{} { return p.done }
func (p *fakeProcess) Err() error            { return nil }
func (p *fakeProcess) Interrupt() error      { p.exit(); return nil }
func (p *fakeProcess) Kill() error           { p.exit(); return nil }

func (p *fakeProcess) exit() {
	p.once.Do(func() {
		_ = p.outW.CloseWithError(io.ErrClosedPipe)
		_ = p.errW.CloseWithError(io.ErrClosedPipe)
		close(p.done)
	})
}

// fakeSpawner runs scripts in order; the last one repeats.
type fakeSpawner struct {
	mu      sync.Mutex
	scripts []script
	spawned int
}

func (s *fakeSpawner) Spawn(string, []string) (capture.Process, error) {
	s.mu.Lock()
	idx := s.spawned
	if idx >= len(s.scripts) {
		idx = len(s.scripts) - 1
	}
	s.spawned++
	pid := 2000 + s.spawned
	s.mu.Unlock()

	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	p := &fakeProcess{pid: pid, outR: outR, outW: outW, errR: errR, errW: errW, done: make(chan struct{})}
	go s.scripts[idx](outW, errW)
	return p, nil
}

func (s *fakeSpawner) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawned
}

func announce(stderr io.Writer, w, h int) {
	fmt.Fprintf(stderr, "Input #0, rtsp, from 'rtsp://cam/onvif1':\n")
	fmt.Fprintf(stderr, "  Stream #0:0: Video: h264 (Main), yuvj420p(pc), %dx%d, 25 fps\n", w, h)
}

// shortStream announces w×h and then delivers one byte less than a frame.
func shortStream(w, h int) script {
	return func(stdout, stderr *io.PipeWriter) {
		announce(stderr, w, h)
		_, _ = stdout.Write(make([]byte, w*h*3-1))
		_ = stdout.Close()
		_ = stderr.Close()
	}
}

// endlessStream announces w×h and writes frames until the pipe is closed.
func endlessStream(w, h int) script {
	return func(stdout, stderr *io.PipeWriter) {
		announce(stderr, w, h)
		buf := make([]byte, w*h*3)
		for {
			if _, err := stdout.Write(buf); err != nil {
				return
			}
		}
	}
}

// stalled announces w×h and then goes quiet with both pipes left open.
func stalled(w, h int) script {
	return func(stdout, stderr *io.PipeWriter) {
		announce(stderr, w, h)
	}
}

// silent never announces anything.
func silent() script {
	return func(stdout, stderr *io.PipeWriter) {}
}

type fakeDetector struct {
	mu     sync.Mutex
	dets   []detect.Detection
	calls  int
	closed bool
}

func (d *fakeDetector) Detect(*frame.Frame) ([]detect.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return d.dets, nil
}

func (d *fakeDetector) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func (d *fakeDetector) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

type countingNotifier struct {
	mu sync.Mutex
	n  int
}

func (c *countingNotifier) Notify() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *countingNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

type harness struct {
	mon      *Monitor
	pub      *MemoryPublisher
	spawner  *fakeSpawner
	detector *fakeDetector
	notifier *countingNotifier
}

type harnessOpts struct {
	scripts           []script
	captureInterval   time.Duration
	reconnectInterval time.Duration
	sniffTimeout      time.Duration
	lookPath          func(string) (string, error)
	loadErr           error
}

func newHarness(o harnessOpts) *harness {
	h := &harness{
		pub:      NewMemoryPublisher(),
		spawner:  &fakeSpawner{scripts: o.scripts},
		detector: &fakeDetector{},
		notifier: &countingNotifier{},
	}
	if o.lookPath == nil {
		o.lookPath = func(string) (string, error) { return "/usr/bin/ffmpeg", nil }
	}
	if o.captureInterval == 0 {
		o.captureInterval = time.Hour
	}
	if o.sniffTimeout == 0 {
		o.sniffTimeout = 5 * time.Second
	}
	mgr := capture.NewManager(capture.ManagerConfig{
		Spawner:           h.spawner,
		LookPath:          o.lookPath,
		ReconnectInterval: o.reconnectInterval,
		StopGrace:         100 * time.Millisecond,
		Logger:            zerolog.Nop(),
	})
	h.mon = New(Config{
		Source:          config.CameraSource{Host: "cam", Username: "u", Password: "p"},
		CaptureInterval: o.captureInterval,
		SniffTimeout:    o.sniffTimeout,
		ReconnectDelay:  10 * time.Millisecond,
		Capture:         mgr,
		LoadDetector: func() (Detector, error) {
			if o.loadErr != nil {
				return nil, o.loadErr
			}
			return h.detector, nil
		},
		Alerter:   sink.NewAlerter(10*time.Second, h.notifier),
		Publisher: h.pub,
		Logger:    zerolog.Nop(),
	})
	return h
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func reconnectReasons(p *MemoryPublisher) []string {
	var out []string
	for _, e := range p.Named(EventReconnect) {
		out = append(out, e.Fields["reason"].(string))
	}
	return out
}

var errBoom = errors.New("boom")
