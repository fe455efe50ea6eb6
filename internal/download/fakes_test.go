package download

import (
	"sync"
	"time"

	"github.com/ytget/curl-downloader/internal/model"
	"github.com/ytget/curl-downloader/internal/process"
)

type fakeProcess struct {
	mu      sync.Mutex
	taskID  string
	sink    process.Sink
	gen     uint64
	starts  int
	stops   int
	running bool
	items   []model.ItemDescriptor
}

func (p *fakeProcess) Start(item model.ItemDescriptor, cfg model.Configuration) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.starts++
	p.running = true
	p.items = append(p.items, item)
	return p.gen
}

func (p *fakeProcess) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		p.stops++
	}
	p.running = false
}

func (p *fakeProcess) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *fakeProcess) generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

func (p *fakeProcess) startCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.starts
}

// exited marks the process dead and builds its exit event
func (p *fakeProcess) exited(code int, status process.ExitStatus) process.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	return process.Event{TaskID: p.taskID, Generation: p.gen, Kind: process.EventExited, ExitCode: code, ExitStatus: status}
}

func (p *fakeProcess) output(text string) process.Event {
	return process.Event{TaskID: p.taskID, Generation: p.generation(), Kind: process.EventOutputAvailable, Text: text}
}

type fakeTimer struct {
	delay     time.Duration
	f         func()
	fired     bool
	cancelled bool
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	t := &fakeTimer{delay: d, f: f}
	s.timers = append(s.timers, t)
	return func() bool {
		if t.fired || t.cancelled {
			return false
		}
		t.cancelled = true
		return true
	}
}

// fireLast runs the most recent timer regardless of cancellation, the way a
// fire that raced a cancel would
func (s *fakeScheduler) fireLast() {
	t := s.timers[len(s.timers)-1]
	t.fired = true
	t.f()
}

func (s *fakeScheduler) armed() int {
	count := 0
	for _, t := range s.timers {
		if !t.fired && !t.cancelled {
			count++
		}
	}
	return count
}

type recordingListener struct {
	updates   []model.TaskSnapshot
	finished  []string
	cancelled []string
}

func (l *recordingListener) TaskUpdated(snapshot model.TaskSnapshot) {
	l.updates = append(l.updates, snapshot)
}

func (l *recordingListener) TaskFinished(id string) {
	l.finished = append(l.finished, id)
}

func (l *recordingListener) TaskCancelled(id string) {
	l.cancelled = append(l.cancelled, id)
}

type staticConfig struct {
	cfg model.Configuration
}

func (c staticConfig) Configuration() model.Configuration {
	return c.cfg
}
