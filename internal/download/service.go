package download

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/curl-downloader/internal/metrics"
	"github.com/ytget/curl-downloader/internal/model"
	"github.com/ytget/curl-downloader/internal/platform"
	"github.com/ytget/curl-downloader/internal/process"
)

// TaskIDPrefix is prepended to every generated task id
const TaskIDPrefix = "task-"

// ErrDuplicateTask is returned when an unfinished task already writes the same output name
var ErrDuplicateTask = errors.New("task already exists for output name")

// Store persists descriptors of unfinished tasks
type Store interface {
	Save(items []model.ItemDescriptor) error
}

var _ Downloader = (*Service)(nil)

// Option configures a Service
type Option func(*Service)

// WithProcessFactory replaces the curl process controller
func WithProcessFactory(factory ProcessFactory) Option {
	return func(s *Service) {
		s.newProcess = factory
	}
}

// WithScheduler replaces the timer used for retries
func WithScheduler(sched Scheduler) Option {
	return func(s *Service) {
		s.sched = sched
	}
}

// WithStore persists unfinished tasks after every change
func WithStore(store Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// Service is the task registry. All supervisors, process events and timer
// fires are handled on the Run loop; public methods post onto it and wait.
type Service struct {
	qmu   sync.Mutex
	queue []func()
	wake  chan struct{}
	done  chan struct{}

	cfgMu  sync.RWMutex
	config model.Configuration

	cbMu     sync.RWMutex
	onUpdate func(model.TaskSnapshot) // callback for UI updates

	newProcess ProcessFactory
	sched      Scheduler
	store      Store

	// owned by the loop
	tasks   map[string]*Supervisor
	order   []string
	retired map[string]bool
}

// NewService creates a download service. Run must be running for the task
// methods to return.
func NewService(cfg model.Configuration, opts ...Option) *Service {
	s := &Service{
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		config:  cfg,
		tasks:   make(map[string]*Supervisor),
		retired: make(map[string]bool),
		newProcess: func(taskID string, sink process.Sink) Process {
			return process.NewController(taskID, sink)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sched == nil {
		s.sched = loopScheduler{post: s.post}
	}
	return s
}

// Run processes tasks until ctx is cancelled. On return every running
// process has been stopped and unfinished tasks are persisted.
func (s *Service) Run(ctx context.Context) error {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case <-s.wake:
		}
		for _, fn := range s.drain() {
			fn()
		}
	}
}

func (s *Service) shutdown() {
	for _, id := range s.order {
		sup := s.tasks[id]
		if !sup.state.Status.IsTerminal() {
			sup.Stop()
		}
	}
	s.persist()
	log.Printf("Download service stopped with %d tasks", len(s.tasks))
}

// post queues fn for the loop. It never blocks.
func (s *Service) post(fn func()) {
	s.qmu.Lock()
	s.queue = append(s.queue, fn)
	s.qmu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Service) drain() []func() {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	queue := s.queue
	s.queue = nil
	return queue
}

// call runs fn on the loop and returns its result
func (s *Service) call(fn func() error) error {
	result := make(chan error, 1)
	s.post(func() { result <- fn() })

	select {
	case err := <-result:
		return err
	case <-s.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrServiceStopped
		}
	}
}

// sink receives process events from controller goroutines
func (s *Service) sink(ev process.Event) {
	s.post(func() { s.dispatch(ev) })
}

// dispatch routes an event to its supervisor. Events of removed tasks are
// dropped; an id the registry never issued is a programming error.
func (s *Service) dispatch(ev process.Event) {
	sup, ok := s.tasks[ev.TaskID]
	if !ok {
		if s.retired[ev.TaskID] {
			return
		}
		panic(fmt.Sprintf("download: event %s for unknown task %q", ev.Kind, ev.TaskID))
	}
	sup.HandleEvent(ev)
}

// SetUpdateCallback sets the callback function for task updates. It runs on
// the service loop and must not call back into the service synchronously.
func (s *Service) SetUpdateCallback(callback func(model.TaskSnapshot)) {
	s.cbMu.Lock()
	defer s.cbMu.Unlock()
	s.onUpdate = callback
}

// Configuration returns the configuration shared by all tasks
func (s *Service) Configuration() model.Configuration {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.config
}

// SetConfiguration validates and replaces the shared configuration. Tasks
// use it from their next process start.
func (s *Service) SetConfiguration(cfg model.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfgMu.Lock()
	s.config = cfg
	s.cfgMu.Unlock()
	log.Printf("Configuration updated: executable %s, directory %s, retry delay %ds",
		cfg.ExecutablePath, cfg.DownloadDirectory, cfg.RetryDelaySeconds)
	return nil
}

// AddTask validates item and starts downloading it
func (s *Service) AddTask(item model.ItemDescriptor) (model.TaskSnapshot, error) {
	item.Normalize()
	if err := item.Validate(); err != nil {
		return model.TaskSnapshot{}, err
	}
	if err := s.Configuration().Validate(); err != nil {
		return model.TaskSnapshot{}, err
	}

	var snapshot model.TaskSnapshot
	err := s.call(func() error {
		if err := s.checkOutputName(item.OutputName, ""); err != nil {
			return err
		}

		id := generateTaskID()
		sup := NewSupervisor(id, item, s.newProcess(id, s.sink), s, s.sched, serviceListener{s})
		s.tasks[id] = sup
		s.order = append(s.order, id)
		log.Printf("Task %s: added %s as %s", id, item.SourceURL, item.OutputName)

		sup.Start()
		s.persist()
		s.updateActiveCount()
		snapshot = sup.Snapshot()
		return nil
	})
	return snapshot, err
}

// GetTask returns a task by ID
func (s *Service) GetTask(id string) (model.TaskSnapshot, bool) {
	var snapshot model.TaskSnapshot
	err := s.call(func() error {
		sup, ok := s.tasks[id]
		if !ok {
			return ErrTaskNotFound
		}
		snapshot = sup.Snapshot()
		return nil
	})
	return snapshot, err == nil
}

// GetAllTasks returns all tasks in the order they were added
func (s *Service) GetAllTasks() []model.TaskSnapshot {
	var snapshots []model.TaskSnapshot
	_ = s.call(func() error {
		snapshots = make([]model.TaskSnapshot, 0, len(s.order))
		for _, id := range s.order {
			snapshots = append(snapshots, s.tasks[id].Snapshot())
		}
		return nil
	})
	return snapshots
}

// ConsoleText returns the process output collected for a task
func (s *Service) ConsoleText(id string) (string, error) {
	var text string
	err := s.withTask(id, func(sup *Supervisor) error {
		text = sup.ConsoleText()
		return nil
	})
	return text, err
}

// PauseTask stops the process of a task until ResumeTask
func (s *Service) PauseTask(id string) error {
	return s.withTask(id, func(sup *Supervisor) error {
		return sup.Pause()
	})
}

// ResumeTask restarts a paused task
func (s *Service) ResumeTask(id string) error {
	return s.withTask(id, func(sup *Supervisor) error {
		return sup.Resume()
	})
}

// AbortTask cancels a task
func (s *Service) AbortTask(id string) error {
	return s.withTask(id, func(sup *Supervisor) error {
		return sup.Abort()
	})
}

// EditTask replaces the descriptor of a task
func (s *Service) EditTask(id string, item model.ItemDescriptor) error {
	return s.withTask(id, func(sup *Supervisor) error {
		edited := item
		edited.Normalize()
		if err := s.checkOutputName(edited.OutputName, id); err != nil {
			return err
		}
		err := sup.Edit(item)
		s.persist()
		return err
	})
}

// checkOutputName fails when an unfinished task other than exceptID writes
// the same output name
func (s *Service) checkOutputName(name, exceptID string) error {
	for _, id := range s.order {
		other := s.tasks[id]
		if id != exceptID && other.item.OutputName == name && !other.state.Status.IsTerminal() {
			return fmt.Errorf("%w: %s", ErrDuplicateTask, name)
		}
	}
	return nil
}

// RemoveTask stops a task if needed and forgets it
func (s *Service) RemoveTask(id string) error {
	return s.withTask(id, func(sup *Supervisor) error {
		if !sup.state.Status.IsTerminal() {
			sup.Stop()
		}
		delete(s.tasks, id)
		s.retired[id] = true
		for i, other := range s.order {
			if other == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		log.Printf("Task %s: removed", id)
		s.persist()
		s.updateActiveCount()
		return nil
	})
}

func (s *Service) withTask(id string, fn func(*Supervisor) error) error {
	return s.call(func() error {
		sup, ok := s.tasks[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		return fn(sup)
	})
}

// persist saves descriptors of unfinished tasks
func (s *Service) persist() {
	if s.store == nil {
		return
	}
	items := make([]model.ItemDescriptor, 0, len(s.order))
	for _, id := range s.order {
		sup := s.tasks[id]
		if !sup.state.Status.IsTerminal() {
			items = append(items, sup.item)
		}
	}
	if err := s.store.Save(items); err != nil {
		log.Printf("Failed to save pending tasks: %v", err)
	}
}

func (s *Service) updateActiveCount() {
	active := 0
	for _, sup := range s.tasks {
		if !sup.state.Status.IsTerminal() {
			active++
		}
	}
	metrics.SetActiveTasks(active)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(snapshot model.TaskSnapshot) {
	s.cbMu.RLock()
	callback := s.onUpdate
	s.cbMu.RUnlock()
	if callback != nil {
		callback(snapshot)
	}
}

// finalize moves the partial file of a finished task to its final name
func (s *Service) finalize(id string) {
	sup, ok := s.tasks[id]
	if !ok {
		return
	}
	cfg := s.Configuration()
	from, to := cfg.PartialPath(sup.item), cfg.FinalPath(sup.item)
	if err := platform.RenameFile(from, to); err != nil {
		log.Printf("Task %s: failed to move %s to %s: %v", id, from, to, err)
		sup.console.Append(fmt.Sprintf("Failed to rename partial file: %v\n", err))
		return
	}
	log.Printf("Task %s: saved %s", id, to)
}

// serviceListener keeps the Listener methods off the public Service API
type serviceListener struct {
	s *Service
}

func (l serviceListener) TaskUpdated(snapshot model.TaskSnapshot) {
	l.s.notifyUpdate(snapshot)
}

func (l serviceListener) TaskFinished(id string) {
	l.s.finalize(id)
	l.s.persist()
	l.s.updateActiveCount()
}

func (l serviceListener) TaskCancelled(id string) {
	l.s.persist()
	l.s.updateActiveCount()
}

// loopScheduler fires timers on the service loop
type loopScheduler struct {
	post func(func())
}

func (l loopScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	t := time.AfterFunc(d, func() { l.post(f) })
	return t.Stop
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
