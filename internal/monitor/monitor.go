package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"camwatch/internal/capture"
	"camwatch/internal/config"
	"camwatch/internal/detect"
	"camwatch/internal/frame"
	"camwatch/internal/overlay"
	"camwatch/internal/sink"
)

// Detector is the inference side of the loop.
type Detector interface {
	Detect(*frame.Frame) ([]detect.Detection, error)
	Close() error
}

// Config configures a Monitor. Capture is required; zero durations fall
// back to package defaults.
type Config struct {
	Source          config.CameraSource
	CaptureInterval time.Duration
	SniffTimeout    time.Duration
	ReconnectDelay  time.Duration

	Capture *capture.Manager
	// LoadDetector is called once per Run, before the first connection.
	LoadDetector func() (Detector, error)
	Slot         *sink.Slot
	Alerter      *sink.Alerter
	Publisher    EventPublisher
	Logger       zerolog.Logger
	Now          func() time.Time
}

const (
	defaultCaptureInterval = 10 * time.Second
	defaultSniffTimeout    = 15 * time.Second
	defaultReconnectDelay  = 2 * time.Second
	defaultAlertCooldown   = 10 * time.Second
)

// Monitor runs the loop. Run may be called again after it returns, but not
// concurrently.
type Monitor struct {
	cfg Config
	log zerolog.Logger

	mu        sync.RWMutex
	st        snapshot
	runMu     sync.Mutex
	startedAt time.Time
}

// New applies defaults to cfg and returns a Monitor.
func New(cfg Config) *Monitor {
	if cfg.CaptureInterval <= 0 {
		cfg.CaptureInterval = defaultCaptureInterval
	}
	if cfg.SniffTimeout <= 0 {
		cfg.SniffTimeout = defaultSniffTimeout
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = defaultReconnectDelay
	}
	if cfg.Capture == nil {
		cfg.Capture = capture.NewManager(capture.ManagerConfig{Logger: cfg.Logger})
	}
	if cfg.Slot == nil {
		cfg.Slot = sink.NewSlot()
	}
	if cfg.Alerter == nil {
		cfg.Alerter = sink.NewAlerter(defaultAlertCooldown, nil)
	}
	if cfg.Publisher == nil {
		cfg.Publisher = noopPublisher{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.LoadDetector == nil {
		cfg.LoadDetector = func() (Detector, error) {
			return nil, detect.ModelLoadError{Err: errors.New("no detector configured")}
		}
	}
	m := &Monitor{
		cfg:       cfg,
		log:       cfg.Logger.With().Str("component", "monitor").Logger(),
		startedAt: cfg.Now(),
	}
	m.st.state = StateStopped
	m.st.message = MsgStopped
	return m
}

// Slot is the hand-off read by the presentation side.
func (m *Monitor) Slot() *sink.Slot { return m.cfg.Slot }

// Run loads the detector, checks the transcoder and loops until ctx is
// cancelled. It returns nil on cancellation and the fatal error otherwise.
func (m *Monitor) Run(ctx context.Context) error {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	m.resetSession()

	det, err := m.cfg.LoadDetector()
	if err != nil {
		msg := MsgNoModel
		if detect.IsDependencyUnavailable(err) {
			msg = MsgNoDetector
		}
		return m.fatal(err, msg)
	}
	defer det.Close()

	if _, err := m.cfg.Capture.CheckBinary(); err != nil {
		return m.fatal(err, MsgNoFFmpeg)
	}

	var (
		conn    *capture.Connection
		state   = StateConnecting
		reason  string
		exitMsg = MsgStopped
	)
	defer func() {
		if conn != nil {
			m.cfg.Capture.Terminate(conn)
		}
		m.setState(StateStopped, exitMsg, "")
		m.mu.Lock()
		m.st.personCount = 0
		m.st.detections = nil
		m.mu.Unlock()
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		switch state {
		case StateConnecting:
			m.setState(StateConnecting, MsgConnecting, reason)
			c, err := m.cfg.Capture.Acquire(ctx, m.cfg.Source)
			if err != nil {
				if capture.IsLaunchError(err) {
					exitMsg = MsgNoFFmpeg
					return m.fatal(err, exitMsg)
				}
				if ctx.Err() != nil {
					return nil
				}
				m.log.Warn().Err(err).Msg("transcoder spawn failed")
				reason, state = ReasonSpawnFailed, StateTearingDown
				continue
			}
			conn = c
			m.publish(EventConnected, map[string]any{"conn": c.ID, "pid": c.Pid(), "url": c.URL})
			state = StateSniffing

		case StateSniffing:
			m.setState(StateSniffing, MsgSniffing, "")
			d, err := conn.WaitDimensions(ctx, m.cfg.SniffTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				reason = ReasonStreamError
				if capture.IsTimeout(err) {
					reason = ReasonTimeout
				}
				m.log.Warn().Err(err).Uint64("conn", conn.ID).Msg("resolution not detected")
				state = StateTearingDown
				continue
			}
			m.publish(EventResolution, map[string]any{"conn": conn.ID, "width": d.Width, "height": d.Height})
			state = StateStreaming

		case StateStreaming:
			m.setState(StateStreaming, MsgMonitoring, "")
			reason = m.stream(ctx, conn, det)
			if reason == reasonStopped {
				return nil
			}
			state = StateTearingDown

		case StateTearingDown:
			msg := MsgReconnecting
			if reason == ReasonTimeout {
				msg = MsgSniffTimeout
			}
			m.setState(StateTearingDown, msg, reason)
			if conn != nil {
				m.cfg.Capture.Terminate(conn)
				conn = nil
			}
			reconnectsTotal.WithLabelValues(reason).Inc()
			m.mu.Lock()
			m.st.reconnects++
			m.mu.Unlock()
			m.publish(EventReconnect, map[string]any{"reason": reason})
			m.log.Info().Str("reason", reason).Dur("delay", m.cfg.ReconnectDelay).Msg("reconnecting")

			t := time.NewTimer(m.cfg.ReconnectDelay)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil
			case <-t.C:
			}
			state = StateConnecting
		}
	}
}

// stream reads frames until the connection fails, ages out or ctx ends,
// and returns the reason.
func (m *Monitor) stream(ctx context.Context, conn *capture.Connection, det Detector) string {
	// A blocked read only returns once the connection is torn down.
	stop := context.AfterFunc(ctx, func() { m.cfg.Capture.Terminate(conn) })
	defer stop()

	// A camera that goes silent never fails a read; the age limit tears the
	// connection down from outside the loop.
	var aged atomic.Bool
	wait := max(m.cfg.Capture.Deadline(conn).Sub(m.cfg.Now()), 0)
	ageTimer := time.AfterFunc(wait, func() {
		aged.Store(true)
		m.cfg.Capture.Terminate(conn)
	})
	defer ageTimer.Stop()

	lastCapture := m.cfg.Now()
	for {
		if ctx.Err() != nil {
			return reasonStopped
		}
		now := m.cfg.Now()
		if m.cfg.Capture.ShouldReconnect(conn, now) {
			m.log.Info().Uint64("conn", conn.ID).Dur("age", conn.Age(now)).Msg("connection age limit reached")
			return ReasonAgeLimit
		}
		if now.Sub(lastCapture) < m.cfg.CaptureInterval {
			if err := conn.SkipFrame(); err != nil {
				return m.readFailed(ctx, conn, &aged, err)
			}
			m.countFrame(false)
			continue
		}
		f, err := conn.ReadFrame()
		if err != nil {
			return m.readFailed(ctx, conn, &aged, err)
		}
		lastCapture = m.cfg.Now()
		m.countFrame(true)
		m.analyze(f, det)
	}
}

func (m *Monitor) readFailed(ctx context.Context, conn *capture.Connection, aged *atomic.Bool, err error) string {
	if ctx.Err() != nil {
		return reasonStopped
	}
	if aged.Load() {
		m.log.Info().Uint64("conn", conn.ID).Dur("age", conn.Age(m.cfg.Now())).Msg("connection age limit reached while blocked on read")
		return ReasonAgeLimit
	}
	m.log.Warn().Err(err).Uint64("conn", conn.ID).Msg("transcoder stream broke")
	return ReasonStreamError
}

func (m *Monitor) countFrame(analyzed bool) {
	outcome := "skipped"
	if analyzed {
		outcome = "analyzed"
	}
	framesTotal.WithLabelValues(outcome).Inc()
	m.mu.Lock()
	m.st.framesRead++
	if analyzed {
		m.st.framesAnalyzed++
	}
	m.mu.Unlock()
}

// analyze runs one detection pass, annotates the frame, raises the alert
// and hands the frame to the slot.
func (m *Monitor) analyze(f *frame.Frame, det Detector) {
	start := time.Now()
	dets, err := det.Detect(f)
	inferenceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.log.Warn().Err(err).Uint64("seq", f.Seq).Msg("detection failed")
		dets = nil
	}
	overlay.Annotate(f, dets)

	now := m.cfg.Now()
	count := len(dets)
	personsTotal.Add(float64(count))
	m.mu.Lock()
	m.st.personCount = count
	m.st.detections = dets
	m.st.lastAnalysis = now
	m.mu.Unlock()
	m.publish(EventDetection, map[string]any{"count": count, "seq": f.Seq})
	m.log.Debug().Int("persons", count).Uint64("seq", f.Seq).Msg("frame analyzed")

	if count > 0 {
		if m.cfg.Alerter.Alert(now) {
			alertsTotal.WithLabelValues("fired").Inc()
			m.publish(EventAlert, map[string]any{"count": count})
			m.log.Info().Int("persons", count).Msg("person detected, alert fired")
		} else {
			alertsTotal.WithLabelValues("suppressed").Inc()
		}
	}

	before := m.cfg.Slot.Drops()
	m.cfg.Slot.Publish(f)
	if d := m.cfg.Slot.Drops() - before; d > 0 {
		slotDropsTotal.Add(float64(d))
	}
}

func (m *Monitor) fatal(err error, msg string) error {
	m.log.Error().Err(err).Msg(msg)
	m.setState(StateStopped, msg, "")
	m.publish(EventFatal, map[string]any{"error": err.Error(), "message": msg})
	return err
}

func (m *Monitor) setState(s State, msg, reason string) {
	m.mu.Lock()
	from := m.st.state
	m.st.state = s
	m.st.message = msg
	m.mu.Unlock()
	observeState(s)
	if from != s {
		fields := map[string]any{"from": string(from), "to": string(s), "message": msg}
		if reason != "" {
			fields["reason"] = reason
		}
		m.publish(EventState, fields)
	}
}

func (m *Monitor) publish(name string, fields map[string]any) {
	m.cfg.Publisher.Publish(Event{Name: name, Time: m.cfg.Now(), Fields: fields})
}
