package capture

import (
	"errors"
	"fmt"
	"time"
)

// LaunchError reports that an external executable could not be resolved.
// It is fatal to the monitoring session.
type LaunchError struct {
	Bin string
	Err error
}

func (e LaunchError) Error() string {
	if e.Err == nil {
		return "executable not found: " + e.Bin
	}
	return fmt.Sprintf("executable not found: %s: %v", e.Bin, e.Err)
}

func (e LaunchError) Unwrap() error { return e.Err }

// IsLaunchError reports whether err is (or wraps) a LaunchError.
func IsLaunchError(err error) bool {
	var le LaunchError
	return errors.As(err, &le)
}

// TimeoutError reports that no resolution line appeared in time.
type TimeoutError struct {
	After time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("no video resolution announced within %s", e.After)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te TimeoutError
	return errors.As(err, &te)
}

// StreamError reports a short or failed read from the transcoder. Got is the
// number of bytes obtained before the failure.
type StreamError struct {
	Want int
	Got  int
	Err  error
}

func (e StreamError) Error() string {
	if e.Want > 0 {
		return fmt.Sprintf("stream error: read %d of %d bytes: %v", e.Got, e.Want, e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

func (e StreamError) Unwrap() error { return e.Err }

// IsStreamError reports whether err is (or wraps) a StreamError.
func IsStreamError(err error) bool {
	var se StreamError
	return errors.As(err, &se)
}

// ErrClosing is wrapped in the StreamError returned by reads on a
// Connection that is being terminated.
var ErrClosing = errors.New("connection is closing")

// ErrNoDimensions is returned by frame reads before the resolution is known.
var ErrNoDimensions = errors.New("video dimensions not known yet")

// errDiagnosticsClosed is wrapped when the diagnostic stream ends before a
// resolution line was seen.
var errDiagnosticsClosed = errors.New("diagnostic stream closed before resolution was announced")
