package capture

import (
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
)

// Process is a running transcoder. Stdout carries raw frames, Stderr the
// diagnostic text. Both are owned by the Connection wrapping the process.
type Process interface {
	Pid() int
	Stdout() io.ReadCloser
	Stderr() io.ReadCloser
	// Interrupt asks the process to exit.
	Interrupt() error
	Kill() error
	// Done is closed once the process has exited.
	Done() <-chan struct{}
	// Err is the exit status; only meaningful after Done is closed.
	Err() error
}

// Spawner starts transcoder processes.
type Spawner interface {
	Spawn(bin string, args []string) (Process, error)
}

// ExecSpawner runs the transcoder with os/exec.
type ExecSpawner struct{}

// Spawn starts bin with its stdout and stderr connected to fresh pipes. The
// write ends are handed to the child directly, so reading and Wait never
// contend over the same descriptors.
func (ExecSpawner) Spawn(bin string, args []string) (Process, error) {
	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		outR.Close()
		outW.Close()
		return nil, err
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdout = outW
	cmd.Stderr = errW
	if err := cmd.Start(); err != nil {
		outR.Close()
		outW.Close()
		errR.Close()
		errW.Close()
		return nil, err
	}
	// The child holds its own copies now.
	outW.Close()
	errW.Close()

	p := &execProcess{cmd: cmd, stdout: outR, stderr: errR, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(p.done)
	}()
	return p, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdout *os.File
	stderr *os.File
	done   chan struct{}

	mu  sync.Mutex
	err error
}

func (p *execProcess) Pid() int              { return p.cmd.Process.Pid }
func (p *execProcess) Stdout() io.ReadCloser { return p.stdout }
func (p *execProcess) Stderr() io.ReadCloser { return p.stderr }
func (p *execProcess) Done() <-chan struct{} { return p.done }

func (p *execProcess) Interrupt() error {
	// SIGTERM is not deliverable on every platform; callers fall back to Kill.
	return p.cmd.Process.Signal(syscall.SIGTERM)
}

func (p *execProcess) Kill() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	return p.cmd.Process.Kill()
}

func (p *execProcess) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
