package monitor

import (
	"time"

	"camwatch/internal/detect"
	"camwatch/pkg/types"
)

type snapshot struct {
	state          State
	message        string
	personCount    int
	detections     []detect.Detection
	lastAnalysis   time.Time
	reconnects     uint64
	framesRead     uint64
	framesAnalyzed uint64
}

// resetSession clears per-session detection state. The alert cooldown is
// owned by the Alerter and outlives sessions.
func (m *Monitor) resetSession() {
	m.mu.Lock()
	m.st.personCount = 0
	m.st.detections = nil
	m.st.lastAnalysis = time.Time{}
	m.mu.Unlock()
}

// State returns the current loop state and status line.
func (m *Monitor) State() (State, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.state, m.st.message
}

// Status returns a point-in-time view for clients.
func (m *Monitor) Status() types.StatusResponse {
	now := m.cfg.Now()
	m.mu.RLock()
	st := m.st
	m.mu.RUnlock()

	resp := types.StatusResponse{
		State:          string(st.state),
		Message:        st.message,
		Running:        st.state != StateStopped,
		PersonCount:    st.personCount,
		Detections:     make([]types.DetectionView, 0, len(st.detections)),
		Reconnects:     st.reconnects,
		FramesRead:     st.framesRead,
		FramesAnalyzed: st.framesAnalyzed,
		SlotDrops:      m.cfg.Slot.Drops(),
		UptimeSeconds:  int64(now.Sub(m.startedAt).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	for _, d := range st.detections {
		resp.Detections = append(resp.Detections, types.DetectionView{
			Label:      d.Label,
			Confidence: d.Confidence,
			Box:        types.Box{X1: d.Box.Min.X, Y1: d.Box.Min.Y, X2: d.Box.Max.X, Y2: d.Box.Max.Y},
		})
	}
	if !st.lastAnalysis.IsZero() {
		resp.LastAnalysisUnix = st.lastAnalysis.Unix()
	}
	if last := m.cfg.Alerter.Last(); !last.IsZero() {
		resp.LastAlertUnix = last.Unix()
	}
	if c := m.cfg.Capture.Active(); c != nil {
		cs := &types.ConnectionStatus{
			ID:          c.ID,
			URL:         c.URL,
			PID:         c.Pid(),
			StartedUnix: c.Started.Unix(),
			AgeSeconds:  int64(c.Age(now).Seconds()),
		}
		if d, ok := c.Dimensions(); ok {
			cs.Width, cs.Height = d.Width, d.Height
		}
		resp.Connection = cs
	}
	return resp
}
