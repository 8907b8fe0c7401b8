// Package capture owns the transcoder subprocess: it builds the camera URL,
// spawns and terminates the process, sniffs the negotiated resolution from
// the diagnostic stream and cuts the raw BGR stream into frames.
//
// Exactly one Connection is active per Manager. Acquire terminates the
// previous one before spawning, and a Connection that has begun terminating
// never hands out another frame.
package capture
