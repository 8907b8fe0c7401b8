package monitor

// State is the loop state.
type State string

const (
	StateStopped     State = "stopped"
	StateConnecting  State = "connecting"
	StateSniffing    State = "sniffing"
	StateStreaming   State = "streaming"
	StateTearingDown State = "tearing_down"
)

// Reconnect reasons, used in events and metrics.
const (
	ReasonTimeout     = "timeout"
	ReasonStreamError = "stream_error"
	ReasonAgeLimit    = "age_limit"
	ReasonSpawnFailed = "spawn_failed"
)

// Status lines shown to the user.
const (
	MsgStopped      = "Stopped"
	MsgConnecting   = "Connecting..."
	MsgSniffing     = "Detecting resolution..."
	MsgMonitoring   = "Monitoring..."
	MsgReconnecting = "Reconnecting..."
	MsgSniffTimeout = "Timeout detecting resolution"
	MsgNoFFmpeg     = "ffmpeg not found"
	MsgNoModel      = "Model files not found"
	MsgNoDetector   = "Detector unavailable"
)

// reasonStopped is returned by the streaming step when the context ended.
const reasonStopped = "stopped"
