package download

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ytget/curl-downloader/internal/model"
	"github.com/ytget/curl-downloader/internal/platform"
	"github.com/ytget/curl-downloader/internal/process"
)

type fakeFactory struct {
	mu    sync.Mutex
	procs map[string]*fakeProcess
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{procs: make(map[string]*fakeProcess)}
}

func (f *fakeFactory) create(taskID string, sink process.Sink) Process {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &fakeProcess{taskID: taskID, sink: sink}
	f.procs[taskID] = p
	return p
}

func (f *fakeFactory) get(taskID string) *fakeProcess {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.procs[taskID]
}

type fakeStore struct {
	mu    sync.Mutex
	saves [][]model.ItemDescriptor
}

func (s *fakeStore) Save(items []model.ItemDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, append([]model.ItemDescriptor(nil), items...))
	return nil
}

func (s *fakeStore) last() []model.ItemDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saves) == 0 {
		return nil
	}
	return s.saves[len(s.saves)-1]
}

type serviceFixture struct {
	service *Service
	factory *fakeFactory
	store   *fakeStore
	cfg     model.Configuration
	stop    func()
}

func startService(t *testing.T) *serviceFixture {
	t.Helper()
	cfg := model.Configuration{
		ExecutablePath:       "curl",
		DownloadDirectory:    t.TempDir(),
		RetryDelaySeconds:    5,
		PartialFileExtension: ".part",
	}
	f := &serviceFixture{factory: newFakeFactory(), store: &fakeStore{}, cfg: cfg}
	f.service = NewService(cfg, WithProcessFactory(f.factory.create), WithStore(f.store))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- f.service.Run(ctx) }()

	var once sync.Once
	f.stop = func() {
		once.Do(func() {
			cancel()
			if err := <-errc; err != nil {
				t.Errorf("Run returned %v", err)
			}
		})
	}
	t.Cleanup(f.stop)
	return f
}

func (f *serviceFixture) add(t *testing.T, rawURL string) model.TaskSnapshot {
	t.Helper()
	task, err := f.service.AddTask(model.NewItemDescriptor(rawURL, ""))
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	return task
}

func (f *serviceFixture) status(t *testing.T, id string) model.TaskStatus {
	t.Helper()
	task, ok := f.service.GetTask(id)
	if !ok {
		t.Fatalf("Task %s not found", id)
	}
	return task.State.Status
}

func TestService_AddTask(t *testing.T) {
	f := startService(t)

	task := f.add(t, "http://x/files/a.bin")

	if !strings.HasPrefix(task.ID, TaskIDPrefix) {
		t.Errorf("Expected id with prefix %s, got %s", TaskIDPrefix, task.ID)
	}
	if task.Item.OutputName != "a.bin" {
		t.Errorf("Expected derived output name a.bin, got %s", task.Item.OutputName)
	}
	if task.State.Status != model.TaskStatusStarting {
		t.Errorf("Expected Starting, got %s", task.State.Status)
	}
	if p := f.factory.get(task.ID); p == nil || p.startCount() != 1 {
		t.Error("Expected one process start")
	}
	if saved := f.store.last(); len(saved) != 1 || saved[0].OutputName != "a.bin" {
		t.Errorf("Expected pending item to be persisted, got %+v", saved)
	}

	// Same output name while the first is unfinished
	if _, err := f.service.AddTask(model.NewItemDescriptor("http://y/a.bin", "")); !errors.Is(err, ErrDuplicateTask) {
		t.Errorf("Expected ErrDuplicateTask, got %v", err)
	}

	if got := len(f.service.GetAllTasks()); got != 1 {
		t.Errorf("Expected 1 task, got %d", got)
	}
}

func TestService_AddTaskRejected(t *testing.T) {
	f := startService(t)

	if _, err := f.service.AddTask(model.NewItemDescriptor("not a url", "")); !errors.Is(err, model.ErrInvalidItem) {
		t.Errorf("Expected ErrInvalidItem, got %v", err)
	}

	s := NewService(model.Configuration{})
	if _, err := s.AddTask(model.NewItemDescriptor("http://x/a.bin", "")); !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestService_FinishRenamesPartialFile(t *testing.T) {
	f := startService(t)
	task := f.add(t, "http://x/a.bin")

	partial := f.cfg.PartialPath(task.Item)
	if err := os.WriteFile(partial, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := f.factory.get(task.ID)
	p.sink(p.exited(0, process.ExitNormal))

	if status := f.status(t, task.ID); status != model.TaskStatusFinished {
		t.Fatalf("Expected Finished, got %s", status)
	}
	if platform.FileExists(partial) {
		t.Error("Partial file should be gone")
	}
	if !platform.FileExists(f.cfg.FinalPath(task.Item)) {
		t.Error("Final file should exist")
	}
	if saved := f.store.last(); len(saved) != 0 {
		t.Errorf("Finished task must not stay persisted, got %+v", saved)
	}
}

func TestService_PauseResumeAbort(t *testing.T) {
	f := startService(t)

	var mu sync.Mutex
	var statuses []model.TaskStatus
	f.service.SetUpdateCallback(func(snapshot model.TaskSnapshot) {
		mu.Lock()
		statuses = append(statuses, snapshot.State.Status)
		mu.Unlock()
	})

	task := f.add(t, "http://x/a.bin")
	p := f.factory.get(task.ID)

	if err := f.service.PauseTask(task.ID); err != nil {
		t.Fatalf("PauseTask failed: %v", err)
	}
	if status := f.status(t, task.ID); status != model.TaskStatusPaused {
		t.Errorf("Expected Paused, got %s", status)
	}

	if err := f.service.ResumeTask(task.ID); err != nil {
		t.Fatalf("ResumeTask failed: %v", err)
	}
	if p.startCount() != 2 {
		t.Errorf("Expected 2 starts, got %d", p.startCount())
	}

	if err := f.service.AbortTask(task.ID); err != nil {
		t.Fatalf("AbortTask failed: %v", err)
	}
	p.sink(p.exited(-1, process.ExitCrashed))

	if status := f.status(t, task.ID); status != model.TaskStatusAborted {
		t.Errorf("Expected Aborted, got %s", status)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []model.TaskStatus{
		model.TaskStatusStarting,
		model.TaskStatusPaused,
		model.TaskStatusStarting,
		model.TaskStatusAborted,
	}
	if len(statuses) != len(want) {
		t.Fatalf("Expected updates %v, got %v", want, statuses)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("Update %d: expected %s, got %s", i, want[i], statuses[i])
		}
	}
}

func TestService_EditTask(t *testing.T) {
	f := startService(t)
	task := f.add(t, "http://x/a.bin")

	item := task.Item
	item.OutputName = "renamed.bin"
	if err := f.service.EditTask(task.ID, item); err != nil {
		t.Fatalf("EditTask failed: %v", err)
	}

	edited, _ := f.service.GetTask(task.ID)
	if edited.Item.OutputName != "renamed.bin" {
		t.Errorf("Expected renamed.bin, got %s", edited.Item.OutputName)
	}
	if saved := f.store.last(); len(saved) != 1 || saved[0].OutputName != "renamed.bin" {
		t.Errorf("Expected edit to be persisted, got %+v", saved)
	}
}

func TestService_EditTaskRejectsDuplicateOutputName(t *testing.T) {
	f := startService(t)
	first := f.add(t, "http://x/a.bin")
	second := f.add(t, "http://x/b.bin")

	item := first.Item
	item.OutputName = second.Item.OutputName
	if err := f.service.EditTask(first.ID, item); !errors.Is(err, ErrDuplicateTask) {
		t.Fatalf("Expected ErrDuplicateTask, got %v", err)
	}

	edited, _ := f.service.GetTask(first.ID)
	if edited.Item.OutputName != "a.bin" {
		t.Errorf("Expected a.bin to be kept, got %s", edited.Item.OutputName)
	}
	if got := f.factory.get(first.ID).startCount(); got != 1 {
		t.Errorf("Rejected edit must not restart, got %d starts", got)
	}

	// Editing a task without changing its own name is not a duplicate
	item = first.Item
	item.ProxyServer = "10.0.0.1"
	item.ProxyPort = 1080
	item.ProxyProtocol = model.ProxySocks5
	if err := f.service.EditTask(first.ID, item); err != nil {
		t.Errorf("EditTask failed: %v", err)
	}
}

func TestService_TaskNotFound(t *testing.T) {
	f := startService(t)

	if _, ok := f.service.GetTask("task-missing"); ok {
		t.Error("Expected missing task")
	}
	for name, op := range map[string]func(string) error{
		"pause":  f.service.PauseTask,
		"resume": f.service.ResumeTask,
		"abort":  f.service.AbortTask,
		"remove": f.service.RemoveTask,
	} {
		if err := op("task-missing"); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("%s: expected ErrTaskNotFound, got %v", name, err)
		}
	}
	if _, err := f.service.ConsoleText("task-missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestService_RemoveTaskDropsLateEvents(t *testing.T) {
	f := startService(t)
	task := f.add(t, "http://x/a.bin")
	p := f.factory.get(task.ID)

	if err := f.service.RemoveTask(task.ID); err != nil {
		t.Fatalf("RemoveTask failed: %v", err)
	}
	if p.Running() {
		t.Error("Removing an active task must stop its process")
	}

	p.sink(p.output(progressLine("50", "100M")))
	p.sink(p.exited(0, process.ExitNormal))

	if got := len(f.service.GetAllTasks()); got != 0 {
		t.Errorf("Expected no tasks, got %d", got)
	}
	if saved := f.store.last(); len(saved) != 0 {
		t.Errorf("Removed task must not stay persisted, got %+v", saved)
	}
}

func TestService_ConsoleText(t *testing.T) {
	f := startService(t)
	task := f.add(t, "http://x/a.bin")
	p := f.factory.get(task.ID)

	p.sink(p.output("curl: (7) Failed to connect\n"))

	text, err := f.service.ConsoleText(task.ID)
	if err != nil {
		t.Fatalf("ConsoleText failed: %v", err)
	}
	if !strings.Contains(text, "Failed to connect") {
		t.Errorf("Expected process output in console, got %q", text)
	}
}

func TestService_Configuration(t *testing.T) {
	f := startService(t)

	bad := f.cfg
	bad.RetryDelaySeconds = 1
	if err := f.service.SetConfiguration(bad); !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}

	good := f.cfg
	good.RetryDelaySeconds = 30
	if err := f.service.SetConfiguration(good); err != nil {
		t.Fatalf("SetConfiguration failed: %v", err)
	}
	if got := f.service.Configuration().RetryDelaySeconds; got != 30 {
		t.Errorf("Expected retry delay 30, got %d", got)
	}
}

func TestService_ShutdownStopsAndPersists(t *testing.T) {
	f := startService(t)
	task := f.add(t, "http://x/a.bin")
	p := f.factory.get(task.ID)

	f.stop()

	if p.Running() {
		t.Error("Shutdown must stop running processes")
	}
	if saved := f.store.last(); len(saved) != 1 {
		t.Errorf("Expected unfinished task to be persisted, got %+v", saved)
	}
	if _, err := f.service.AddTask(model.NewItemDescriptor("http://x/b.bin", "")); !errors.Is(err, ErrServiceStopped) {
		t.Errorf("Expected ErrServiceStopped, got %v", err)
	}
}

func TestService_UnknownTaskEventPanics(t *testing.T) {
	s := NewService(model.Configuration{})

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for an id the registry never issued")
		}
	}()
	s.dispatch(process.Event{TaskID: "task-unknown", Kind: process.EventExited})
}

func TestLoopScheduler(t *testing.T) {
	f := startService(t)

	fired := make(chan struct{})
	f.service.sched.AfterFunc(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("Timer did not fire")
	}

	cancel := f.service.sched.AfterFunc(time.Hour, func() { t.Error("Cancelled timer fired") })
	if !cancel() {
		t.Error("Expected cancel to stop a pending timer")
	}
}

func TestGenerateTaskID(t *testing.T) {
	a, b := generateTaskID(), generateTaskID()
	if !strings.HasPrefix(a, TaskIDPrefix) {
		t.Errorf("Expected prefix %s, got %s", TaskIDPrefix, a)
	}
	if a == b {
		t.Error("Expected unique ids")
	}
}
