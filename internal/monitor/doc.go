// Package monitor runs the acquisition and detection loop for one camera.
//
// The loop is an explicit state machine:
//
//	Connecting -> SniffingResolution -> Streaming -> TearingDown -> Connecting
//
// Any state moves to Stopped when the context is cancelled. Connection level
// failures (resolution timeout, short reads, the periodic age limit, a spawn
// failure) always go through TearingDown and never leave the loop; a missing
// transcoder or missing model files end Run with an error.
package monitor
