package capture

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Dimensions is the negotiated frame size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// FrameSize is the byte length of one BGR frame of this size.
func (d Dimensions) FrameSize() int { return d.Width * d.Height * 3 }

func (d Dimensions) String() string {
	return strconv.Itoa(d.Width) + "x" + strconv.Itoa(d.Height)
}

var dimensionRe = regexp.MustCompile(`\b(\d{3,4})x(\d{3,4})\b`)

// maxLine caps a single diagnostic line; longer lines are split.
const maxLine = 64 * 1024

// ParseDimensions extracts WxH from a stream descriptor line such as
// "Stream #0:0: Video: h264 (Main), yuvj420p, 1280x720, 25 fps".
func ParseDimensions(line string) (Dimensions, bool) {
	if !strings.Contains(line, "Stream") || !strings.Contains(line, "Video:") {
		return Dimensions{}, false
	}
	m := dimensionRe.FindStringSubmatch(line)
	if m == nil {
		return Dimensions{}, false
	}
	w, err1 := strconv.Atoi(m[1])
	h, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || w == 0 || h == 0 {
		return Dimensions{}, false
	}
	return Dimensions{Width: w, Height: h}, true
}

// scanLines splits on '\n' or '\r' and hands out over-long lines in
// maxLine chunks, so the scanner never stops with ErrTooLong.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if len(data) >= maxLine {
		return maxLine, data[:maxLine], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Sniffer drains a diagnostic stream, logging every line and recording the
// first announced resolution. Run is meant for its own goroutine; Wait may be
// called from another.
type Sniffer struct {
	log zerolog.Logger

	found chan struct{}
	done  chan struct{}
	once  sync.Once
	dims  Dimensions
}

// NewSniffer returns a Sniffer logging lines at debug level to log.
func NewSniffer(log zerolog.Logger) *Sniffer {
	return &Sniffer{log: log, found: make(chan struct{}), done: make(chan struct{})}
}

// Run reads r until EOF or a read error. Dimensions are recorded once; later
// matching lines are only logged.
func (s *Sniffer) Run(r io.Reader) {
	defer close(s.done)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 4096), 2*maxLine)
	sc.Split(scanLines)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		s.log.Debug().Str("line", line).Msg("transcoder")
		if d, ok := ParseDimensions(line); ok {
			s.once.Do(func() {
				s.dims = d
				close(s.found)
			})
		}
	}
	if err := sc.Err(); err != nil {
		s.log.Debug().Err(err).Msg("diagnostic stream read ended")
	}
}

// Dimensions returns the resolution if it has been announced.
func (s *Sniffer) Dimensions() (Dimensions, bool) {
	select {
	case <-s.found:
		return s.dims, true
	default:
		return Dimensions{}, false
	}
}

// Done is closed when the diagnostic stream has ended.
func (s *Sniffer) Done() <-chan struct{} { return s.done }

// Wait blocks until the resolution is known, the stream ends, ctx is done
// or timeout elapses. A non-positive timeout waits without limit.
func (s *Sniffer) Wait(ctx context.Context, timeout time.Duration) (Dimensions, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}
	select {
	case <-s.found:
		return s.dims, nil
	case <-s.done:
		// The last line may have carried the resolution.
		if d, ok := s.Dimensions(); ok {
			return d, nil
		}
		return Dimensions{}, StreamError{Err: errDiagnosticsClosed}
	case <-ctx.Done():
		return Dimensions{}, ctx.Err()
	case <-expired:
		return Dimensions{}, TimeoutError{After: timeout}
	}
}
