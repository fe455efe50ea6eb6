package process

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"sync"
	"time"

	ps "github.com/shirou/gopsutil/v3/process"

	"github.com/ytget/curl-downloader/internal/model"
)

// DefaultGracePeriod is how long Stop waits after a graceful terminate before killing
const DefaultGracePeriod = 3 * time.Second

// Controller owns at most one running process for a task
type Controller struct {
	taskID  string
	sink    Sink
	grace   time.Duration
	command func(name string, args ...string) *exec.Cmd

	mu         sync.Mutex
	cmd        *exec.Cmd
	done       chan struct{}
	generation uint64
	stopping   bool
}

// NewController creates a controller emitting events for taskID into sink
func NewController(taskID string, sink Sink) *Controller {
	return &Controller{
		taskID:  taskID,
		sink:    sink,
		grace:   DefaultGracePeriod,
		command: exec.Command,
	}
}

// SetGracePeriod sets how long Stop waits before force killing
func (c *Controller) SetGracePeriod(grace time.Duration) {
	c.grace = grace
}

// SetCommandFunc replaces exec.Command, used to launch the executable
func (c *Controller) SetCommandFunc(command func(name string, args ...string) *exec.Cmd) {
	c.command = command
}

// Start stops any previous instance and launches the executable for item.
// It returns the generation that tags every event of the new instance. A spawn
// failure is reported as ErrorFailedToStart followed by a crashed exit.
func (c *Controller) Start(item model.ItemDescriptor, cfg model.Configuration) uint64 {
	c.Stop()

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.cmd = nil
	c.done = nil
	c.stopping = false
	c.mu.Unlock()

	cmd := c.command(cfg.ExecutablePath, BuildCurlArgs(item, cfg)...)

	// A single comparable writer makes exec serialize stdout and stderr
	out := &outputWriter{emit: func(text string) {
		c.emit(Event{Generation: gen, Kind: EventOutputAvailable, Text: text})
	}}
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		log.Printf("Failed to start %s for task %s: %v", cfg.ExecutablePath, c.taskID, err)
		c.emit(Event{Generation: gen, Kind: EventErrorOccurred, Error: ErrorFailedToStart, Err: err})
		c.emit(Event{Generation: gen, Kind: EventExited, ExitCode: -1, ExitStatus: ExitCrashed})
		return gen
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.cmd = cmd
	c.done = done
	c.mu.Unlock()

	log.Printf("Started process %d for task %s (generation %d)", cmd.Process.Pid, c.taskID, gen)
	c.emit(Event{Generation: gen, Kind: EventStarted})

	go c.wait(cmd, done, gen)
	return gen
}

// wait reaps the process. Output events are all delivered before Wait returns,
// so the exit event is the last one of its generation.
func (c *Controller) wait(cmd *exec.Cmd, done chan struct{}, gen uint64) {
	err := cmd.Wait()

	c.mu.Lock()
	stopping := c.stopping && c.done == done
	c.mu.Unlock()

	code, status := exitResult(cmd, err)
	if kind, ok := waitErrorKind(err, status); ok && !stopping {
		c.emit(Event{Generation: gen, Kind: EventErrorOccurred, Error: kind, Err: err})
	}

	c.emit(Event{Generation: gen, Kind: EventExited, ExitCode: code, ExitStatus: status})
	close(done)
}

// Stop terminates the running process, kills it if it does not exit within the
// grace period and blocks until it has been reaped. Stopping a stopped
// controller is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	cmd, done := c.cmd, c.done
	if cmd == nil || done == nil {
		c.mu.Unlock()
		return
	}
	select {
	case <-done:
		c.mu.Unlock()
		return
	default:
	}
	c.stopping = true
	c.mu.Unlock()

	if err := terminate(cmd.Process.Pid); err != nil {
		log.Printf("Failed to terminate process %d for task %s: %v", cmd.Process.Pid, c.taskID, err)
	}

	select {
	case <-done:
		return
	case <-time.After(c.grace):
	}

	log.Printf("Process %d for task %s: %s, killing", cmd.Process.Pid, c.taskID, ErrorTimedout)
	if err := cmd.Process.Kill(); err != nil {
		log.Printf("Failed to kill process %d for task %s: %v", cmd.Process.Pid, c.taskID, err)
	}
	<-done
}

// Running reports whether the current process is alive
func (c *Controller) Running() bool {
	c.mu.Lock()
	cmd, done := c.cmd, c.done
	c.mu.Unlock()

	if cmd == nil || done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
	}

	alive, err := ps.PidExists(int32(cmd.Process.Pid))
	if err != nil {
		return true
	}
	return alive
}

// Generation returns the generation of the most recent Start
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *Controller) emit(ev Event) {
	ev.TaskID = c.taskID
	if c.sink != nil {
		c.sink(ev)
	}
}

// terminate asks the process to exit gracefully
func terminate(pid int) error {
	p, err := ps.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	return p.Terminate()
}

// waitErrorKind classifies a Wait error. A plain non-zero exit is not an
// error; failures reading the output pipe are read errors.
func waitErrorKind(err error, status ExitStatus) (ErrorKind, bool) {
	if err == nil {
		return 0, false
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ErrorCrashed, status == ExitCrashed
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, os.ErrClosed) {
		return ErrorReadError, true
	}
	return ErrorUnknown, true
}

// exitResult maps the Wait result to an exit code and status. Processes killed
// by a signal report -1 and crashed.
func exitResult(cmd *exec.Cmd, err error) (int, ExitStatus) {
	if err == nil {
		return 0, ExitNormal
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			return -1, ExitCrashed
		}
		return code, ExitNormal
	}
	if cmd.ProcessState != nil && cmd.ProcessState.ExitCode() >= 0 {
		return cmd.ProcessState.ExitCode(), ExitNormal
	}
	return -1, ExitCrashed
}

type outputWriter struct {
	emit func(string)
}

func (w *outputWriter) Write(p []byte) (int, error) {
	w.emit(string(p))
	return len(p), nil
}
