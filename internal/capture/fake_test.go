package capture

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// fakeProcess is an in-memory transcoder backed by io.Pipe.
type fakeProcess struct {
	pid             int
	outR, errR      *io.PipeReader
	outW, errW      *io.PipeWriter
	done            chan struct{}
	once            sync.Once
	ignoreInterrupt bool
	interrupted     atomic.Bool
	killed          atomic.Bool
}

func newFakeProcess(pid int) *fakeProcess {
	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	return &fakeProcess{pid: pid, outR: outR, outW: outW, errR: errR, errW: errW, done: make(chan struct{})}
}

func (p *fakeProcess) Pid() int              { return p.pid }
func (p *fakeProcess) Stdout() io.ReadCloser { return p.outR }
func (p *fakeProcess) Stderr() io.ReadCloser { return p.errR }
func (p *fakeProcess) Done() <-chan struct{} { return p.done }
func (p *fakeProcess) Err() error            { return nil }

func (p *fakeProcess) Interrupt() error {
	p.interrupted.Store(true)
	if !p.ignoreInterrupt {
		p.exit()
	}
	return nil
}

func (p *fakeProcess) Kill() error {
	p.killed.Store(true)
	p.exit()
	return nil
}

// exit simulates the process going away: both writers are closed.
func (p *fakeProcess) exit() {
	p.once.Do(func() {
		_ = p.outW.Close()
		_ = p.errW.Close()
		close(p.done)
	})
}

type fakeSpawner struct {
	mu    sync.Mutex
	procs []*fakeProcess
	args  [][]string
	err   error
	next  int
}

func (s *fakeSpawner) Spawn(bin string, args []string) (Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.args = append(s.args, args)
	s.next++
	p := newFakeProcess(1000 + s.next)
	s.procs = append(s.procs, p)
	return p, nil
}

func (s *fakeSpawner) last() *fakeProcess {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.procs[len(s.procs)-1]
}

func lookPathOK(string) (string, error) { return "/usr/bin/ffmpeg", nil }

func lookPathMissing(string) (string, error) {
	return "", errors.New("executable file not found in $PATH")
}
