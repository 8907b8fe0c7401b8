package capture

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"camwatch/internal/config"
	"camwatch/internal/frame"
)

// ManagerConfig configures a Manager. Zero values fall back to package defaults.
type ManagerConfig struct {
	// Bin is the transcoder executable, resolved on PATH.
	Bin string
	// RTSPTransport is passed as -rtsp_transport when set (tcp|udp).
	RTSPTransport string
	// ReconnectInterval is the maximum age of a Connection.
	ReconnectInterval time.Duration
	// StopGrace bounds the wait for exit after the stop signal.
	StopGrace time.Duration

	Spawner  Spawner
	LookPath func(string) (string, error)
	Logger   zerolog.Logger
	Now      func() time.Time
}

const (
	defaultBin               = "ffmpeg"
	defaultReconnectInterval = 120 * time.Second
	defaultStopGrace         = 2 * time.Second
)

// Manager spawns, tracks and terminates transcoder Connections.
type Manager struct {
	cfg ManagerConfig

	mu     sync.Mutex
	active *Connection
	nextID uint64
}

// NewManager applies defaults to cfg and returns a Manager.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Bin == "" {
		cfg.Bin = defaultBin
	}
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = defaultReconnectInterval
	}
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = defaultStopGrace
	}
	if cfg.Spawner == nil {
		cfg.Spawner = ExecSpawner{}
	}
	if cfg.LookPath == nil {
		cfg.LookPath = exec.LookPath
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{cfg: cfg}
}

// Args returns the transcoder argv (without the executable) for rawURL.
func (m *Manager) Args(rawURL string) []string {
	args := []string{"-loglevel", "info"}
	if m.cfg.RTSPTransport != "" {
		args = append(args, "-rtsp_transport", m.cfg.RTSPTransport)
	}
	return append(args,
		"-i", rawURL,
		"-f", "image2pipe",
		"-pix_fmt", "bgr24",
		"-vcodec", "rawvideo",
		"-",
	)
}

// CheckBinary resolves the transcoder on PATH.
func (m *Manager) CheckBinary() (string, error) {
	path, err := m.cfg.LookPath(m.cfg.Bin)
	if err != nil {
		return "", LaunchError{Bin: m.cfg.Bin, Err: err}
	}
	return path, nil
}

// Acquire starts a new Connection for src, terminating the active one first.
// It fails with LaunchError when the transcoder cannot be resolved; other
// spawn failures are returned as plain errors.
func (m *Manager) Acquire(ctx context.Context, src config.CameraSource) (*Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bin, err := m.CheckBinary()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	prev := m.active
	m.active = nil
	m.mu.Unlock()
	if prev != nil {
		prev.terminate()
	}

	u := SourceURL(src)
	proc, err := m.cfg.Spawner.Spawn(bin, m.Args(u.String()))
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", m.cfg.Bin, err)
	}

	m.mu.Lock()
	m.nextID++
	id := m.nextID
	log := m.cfg.Logger.With().Str("component", "ffmpeg").Uint64("conn", id).Logger()
	c := &Connection{
		ID:      id,
		URL:     u.Redacted(),
		Started: m.cfg.Now(),
		proc:    proc,
		grace:   m.cfg.StopGrace,
		log:     log,
		sniffer: NewSniffer(log),
	}
	m.active = c
	m.mu.Unlock()

	go c.sniffer.Run(proc.Stderr())
	log.Info().Int("pid", proc.Pid()).Str("url", c.URL).Msg("transcoder started")
	return c, nil
}

// Terminate stops c and clears it as the active Connection. It is safe to
// call more than once.
func (m *Manager) Terminate(c *Connection) {
	if c == nil {
		return
	}
	m.mu.Lock()
	if m.active == c {
		m.active = nil
	}
	m.mu.Unlock()
	c.terminate()
}

// ShouldReconnect reports whether c has outlived the reconnect interval.
func (m *Manager) ShouldReconnect(c *Connection, now time.Time) bool {
	if c == nil {
		return false
	}
	return now.Sub(c.Started) > m.cfg.ReconnectInterval
}

// Deadline is when c becomes due for replacement.
func (m *Manager) Deadline(c *Connection) time.Time {
	return c.Started.Add(m.cfg.ReconnectInterval)
}

// Active returns the current Connection, or nil during a reconnect gap.
func (m *Manager) Active() *Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Connection is one transcoder process and its two streams. The frame
// stream is read by a single caller; the diagnostic stream is drained by
// the Connection's own sniffer goroutine.
type Connection struct {
	ID      uint64
	URL     string
	Started time.Time

	proc     Process
	grace    time.Duration
	log      zerolog.Logger
	sniffer  *Sniffer
	deframer *Deframer

	closing atomic.Bool
	once    sync.Once
}

// Pid returns the transcoder process id.
func (c *Connection) Pid() int { return c.proc.Pid() }

// Age is how long the Connection has been up at now.
func (c *Connection) Age(now time.Time) time.Duration { return now.Sub(c.Started) }

// Closing reports whether termination has begun.
func (c *Connection) Closing() bool { return c.closing.Load() }

// Dimensions returns the negotiated resolution, if known.
func (c *Connection) Dimensions() (Dimensions, bool) { return c.sniffer.Dimensions() }

// WaitDimensions waits for the resolution announcement and prepares the
// deframer. It must be called from the goroutine that reads frames.
func (c *Connection) WaitDimensions(ctx context.Context, timeout time.Duration) (Dimensions, error) {
	d, err := c.sniffer.Wait(ctx, timeout)
	if err != nil {
		return Dimensions{}, err
	}
	if c.deframer == nil {
		c.deframer = NewDeframer(c.proc.Stdout(), d)
	}
	c.log.Info().Int("width", d.Width).Int("height", d.Height).Msg("resolution detected")
	return d, nil
}

func (c *Connection) readable() error {
	if c.closing.Load() {
		return StreamError{Err: ErrClosing}
	}
	if c.deframer == nil {
		return StreamError{Err: ErrNoDimensions}
	}
	return nil
}

// ReadFrame reads the next whole frame.
func (c *Connection) ReadFrame() (*frame.Frame, error) {
	if err := c.readable(); err != nil {
		return nil, err
	}
	return c.deframer.ReadFrame()
}

// SkipFrame consumes the next frame without decoding it.
func (c *Connection) SkipFrame() error {
	if err := c.readable(); err != nil {
		return err
	}
	return c.deframer.SkipFrame()
}

func (c *Connection) terminate() {
	c.once.Do(func() {
		c.closing.Store(true)
		if err := c.proc.Interrupt(); err != nil {
			_ = c.proc.Kill()
		}
		_ = c.proc.Stdout().Close()

		t := time.NewTimer(c.grace)
		defer t.Stop()
		select {
		case <-c.proc.Done():
		case <-t.C:
			c.log.Warn().Dur("grace", c.grace).Msg("transcoder ignored stop signal, killing")
			_ = c.proc.Kill()
			select {
			case <-c.proc.Done():
			case <-time.After(c.grace):
				c.log.Error().Int("pid", c.proc.Pid()).Msg("transcoder did not exit after kill")
			}
		}
		_ = c.proc.Stderr().Close()
		c.log.Info().Msg("transcoder stopped")
	})
}
