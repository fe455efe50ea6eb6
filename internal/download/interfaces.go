package download

import (
	"time"

	"github.com/ytget/curl-downloader/internal/model"
	"github.com/ytget/curl-downloader/internal/process"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(model.TaskSnapshot))
	AddTask(item model.ItemDescriptor) (model.TaskSnapshot, error)
	GetTask(id string) (model.TaskSnapshot, bool)
	GetAllTasks() []model.TaskSnapshot
	PauseTask(id string) error
	ResumeTask(id string) error
	AbortTask(id string) error
	EditTask(id string, item model.ItemDescriptor) error
	RemoveTask(id string) error
	ConsoleText(id string) (string, error)

	// Configuration returns the configuration shared by all tasks
	Configuration() model.Configuration

	// SetConfiguration validates and replaces the shared configuration
	SetConfiguration(cfg model.Configuration) error
}

// Process runs the download executable for one task
type Process interface {
	// Start stops any running instance, launches a new one and returns its generation
	Start(item model.ItemDescriptor, cfg model.Configuration) uint64
	Stop()
	Running() bool
}

// ProcessFactory creates the Process of a task, emitting its events into sink
type ProcessFactory func(taskID string, sink process.Sink) Process

// Scheduler arms one-shot timers. The returned cancel reports whether the
// timer was stopped before firing.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func() bool)
}

// Listener receives supervisor notifications
type Listener interface {
	TaskUpdated(snapshot model.TaskSnapshot)
	TaskFinished(id string)
	TaskCancelled(id string)
}

// ConfigSource provides the current shared configuration
type ConfigSource interface {
	Configuration() model.Configuration
}
