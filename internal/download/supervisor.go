package download

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/ytget/curl-downloader/internal/metrics"
	"github.com/ytget/curl-downloader/internal/model"
	"github.com/ytget/curl-downloader/internal/platform"
	"github.com/ytget/curl-downloader/internal/process"
)

// Supervisor drives the state machine of one download task. It is not safe
// for concurrent use: every method and every process event and timer fire
// must run on the registry loop.
type Supervisor struct {
	id       string
	item     model.ItemDescriptor
	state    model.TaskState
	proc     Process
	config   ConfigSource
	sched    Scheduler
	listener Listener

	resume     *platform.ResumeTracker
	console    *ConsoleLog
	generation uint64

	cancelRetry func() bool
	retryToken  uint64
}

// NewSupervisor creates a supervisor for item. Call Start to launch it.
func NewSupervisor(id string, item model.ItemDescriptor, proc Process, config ConfigSource, sched Scheduler, listener Listener) *Supervisor {
	return &Supervisor{
		id:       id,
		item:     item,
		proc:     proc,
		config:   config,
		sched:    sched,
		listener: listener,
		resume:   platform.NewResumeTracker(model.ResumeUnknown),
		console:  NewConsoleLog(MaxConsoleChars),
		state: model.TaskState{
			Status:    model.TaskStatusStarting,
			StartedAt: time.Now(),
		},
	}
}

// ID returns the task id
func (s *Supervisor) ID() string {
	return s.id
}

// Start launches the process for the current descriptor and configuration
func (s *Supervisor) Start() {
	s.cancelTimer()
	s.state.Status = model.TaskStatusStarting
	s.generation = s.proc.Start(s.item, s.config.Configuration())
	metrics.RecordStart()
	log.Printf("Task %s: started generation %d", s.id, s.generation)
	s.notifyUpdate()
}

// HandleEvent applies a process event. Events of an older generation, events
// after a terminal status and events while paused are dropped.
func (s *Supervisor) HandleEvent(ev process.Event) {
	if ev.Generation != s.generation || s.state.Status.IsTerminal() || s.state.Paused {
		return
	}

	switch ev.Kind {
	case process.EventStarted:
		s.notifyUpdate()
	case process.EventOutputAvailable:
		s.handleOutput(ev.Text)
	case process.EventErrorOccurred:
		s.handleError(ev)
	case process.EventExited:
		s.handleExit(ev.ExitCode, ev.ExitStatus)
	}
}

func (s *Supervisor) handleOutput(text string) {
	s.console.Append(text)

	progress, ok := platform.ParseProgress(text)
	if !ok {
		s.notifyUpdate()
		return
	}

	if progress.Percent < s.state.ProgressPercent {
		s.state.ResumeCount++
		s.state.ResumeSupported = s.resume.Regressed(progress.TotalSize)
		metrics.RecordRegression()
	} else {
		s.resume.Observe(progress.TotalSize)
	}

	s.state.ProgressPercent = progress.Percent
	s.state.LastSpeedText = progress.Speed
	s.state.LastEtaText = progress.ETA
	s.state.Status = model.TaskStatusDownloading
	s.notifyUpdate()
}

func (s *Supervisor) handleError(ev process.Event) {
	s.state.Status = model.TaskStatusError
	s.state.LastError = ev.Error.String()
	if ev.Err != nil {
		s.state.LastError = fmt.Sprintf("%s: %v", ev.Error, ev.Err)
	}
	s.console.Append(s.state.LastError + "\n")
	log.Printf("Task %s: %s", s.id, s.state.LastError)
	s.notifyUpdate()
}

func (s *Supervisor) handleExit(code int, status process.ExitStatus) {
	s.state.LastExitCode = code

	switch {
	case s.state.Aborted:
		s.cancelTimer()
		s.state.Status = model.TaskStatusAborted
		s.console.Append("Aborted\n")
		metrics.RecordAborted()
		log.Printf("Task %s: aborted", s.id)
		s.notifyUpdate()
		if s.listener != nil {
			s.listener.TaskCancelled(s.id)
		}
	case code == 0 && status == process.ExitNormal:
		s.cancelTimer()
		s.state.Finished = true
		s.state.ProgressPercent = platform.MaxProgressPercent
		s.state.Status = model.TaskStatusFinished
		s.console.Append("Finished\n")
		metrics.RecordFinished()
		log.Printf("Task %s: finished", s.id)
		s.notifyUpdate()
		if s.listener != nil {
			s.listener.TaskFinished(s.id)
		}
	default:
		s.scheduleRetry(code)
	}
}

func (s *Supervisor) scheduleRetry(code int) {
	cfg := s.config.Configuration()
	delay := cfg.RetryDelay()

	s.cancelTimer()
	s.state.Status = model.TaskStatusRetrying
	s.state.RetryCount++
	s.state.LastError = platform.ExitCodeText(code)
	s.console.Append(fmt.Sprintf("Exited with code %d (%s), retrying in %s\n", code, s.state.LastError, delay))
	metrics.RecordRetry(strconv.Itoa(code))
	log.Printf("Task %s: exit code %d, retry %d in %s", s.id, code, s.state.RetryCount, delay)

	token := s.retryToken
	s.cancelRetry = s.sched.AfterFunc(delay, func() {
		if token != s.retryToken || s.state.Paused || s.state.Status.IsTerminal() {
			return
		}
		s.cancelRetry = nil
		s.Start()
	})
	s.notifyUpdate()
}

// cancelTimer disarms a pending retry. The token bump turns a fire that
// already raced past the cancel into a no-op.
func (s *Supervisor) cancelTimer() {
	s.retryToken++
	if s.cancelRetry != nil {
		s.cancelRetry()
		s.cancelRetry = nil
	}
}

// Pause stops the process and keeps the task until Resume
func (s *Supervisor) Pause() error {
	if !s.state.Status.CanPause() || s.state.Paused {
		return fmt.Errorf("%w: cannot pause task in status %s", ErrInvalidTransition, s.state.Status)
	}

	s.cancelTimer()
	s.state.Paused = true
	s.proc.Stop()
	s.state.Status = model.TaskStatusPaused
	s.console.Append("Paused\n")
	log.Printf("Task %s: paused", s.id)
	s.notifyUpdate()
	return nil
}

// Resume restarts a paused task
func (s *Supervisor) Resume() error {
	if !s.state.Paused {
		return fmt.Errorf("%w: task is not paused", ErrInvalidTransition)
	}

	s.state.Paused = false
	s.console.Append("Resumed\n")
	log.Printf("Task %s: resumed", s.id)
	s.Start()
	return nil
}

// Abort cancels the task. A running process is stopped and its exit event
// completes the abort; otherwise the task is aborted immediately.
func (s *Supervisor) Abort() error {
	if s.state.Status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrTaskTerminal, s.id)
	}

	s.state.Aborted = true
	s.cancelTimer()

	if s.state.Paused || !s.proc.Running() {
		s.state.Paused = false
		s.handleExit(0, process.ExitNormal)
		return nil
	}

	s.proc.Stop()
	return nil
}

// Edit replaces the proxy settings and output name. The source URL is fixed
// for the life of the task. A changed proxy or output name restarts an
// active task. When the partial file cannot be renamed the old output name is
// kept and the rename error is returned.
func (s *Supervisor) Edit(item model.ItemDescriptor) error {
	if s.state.Status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrTaskTerminal, s.id)
	}

	item.Normalize()
	if err := item.Validate(); err != nil {
		return err
	}
	if item.SourceURL != s.item.SourceURL {
		return fmt.Errorf("%w: source url of task %s cannot change", ErrInvalidTransition, s.id)
	}

	nameChanged := item.OutputName != s.item.OutputName
	restart := !s.state.Paused && s.state.Status.IsActive() && (nameChanged || item.ProxyChanged(s.item))

	if restart {
		s.cancelTimer()
		s.proc.Stop()
	}

	var renameErr error
	if nameChanged {
		cfg := s.config.Configuration()
		if err := platform.RenameFile(cfg.PartialPath(s.item), cfg.PartialPath(item)); err != nil {
			log.Printf("Task %s: keeping output name %s: %v", s.id, s.item.OutputName, err)
			item.OutputName = s.item.OutputName
			renameErr = fmt.Errorf("failed to rename partial file: %w", err)
		}
	}

	s.item = item
	log.Printf("Task %s: edited", s.id)

	if restart {
		s.Start()
	} else {
		s.notifyUpdate()
	}
	return renameErr
}

// Stop stops the process without changing the task status
func (s *Supervisor) Stop() {
	s.cancelTimer()
	s.proc.Stop()
}

// Snapshot returns a copy of the task
func (s *Supervisor) Snapshot() model.TaskSnapshot {
	return model.TaskSnapshot{
		ID:    s.id,
		Item:  s.item,
		State: s.state,
	}
}

// Item returns the current descriptor
func (s *Supervisor) Item() model.ItemDescriptor {
	return s.item
}

// ConsoleText returns the accumulated process output
func (s *Supervisor) ConsoleText() string {
	return s.console.String()
}

// IsFinished reports whether the download completed
func (s *Supervisor) IsFinished() bool {
	return s.state.Finished
}

// IsAborted reports whether the task was aborted
func (s *Supervisor) IsAborted() bool {
	return s.state.Aborted
}

// IsPaused reports whether the task is paused
func (s *Supervisor) IsPaused() bool {
	return s.state.Paused
}

func (s *Supervisor) notifyUpdate() {
	s.state.UpdatedAt = time.Now()
	if s.listener != nil {
		s.listener.TaskUpdated(s.Snapshot())
	}
}
