package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/curl-downloader/internal/model"
)

func snapshotWith(status model.TaskStatus) model.TaskSnapshot {
	return model.TaskSnapshot{
		ID:   "task-1",
		Item: model.NewItemDescriptor("http://x/a.bin", ""),
		State: model.TaskState{
			Status: status,
		},
	}
}

func TestRowButtonStates(t *testing.T) {
	paused := snapshotWith(model.TaskStatusPaused)
	paused.State.Paused = true
	finished := snapshotWith(model.TaskStatusFinished)
	finished.State.Finished = true

	tests := []struct {
		name string
		task model.TaskSnapshot
		want buttonStates
	}{
		{"downloading", snapshotWith(model.TaskStatusDownloading), buttonStates{pauseResume: true, abort: true, edit: true}},
		{"retrying", snapshotWith(model.TaskStatusRetrying), buttonStates{pauseResume: true, abort: true, edit: true}},
		{"paused", paused, buttonStates{pauseResume: true, showResume: true, abort: true, edit: true}},
		{"finished", finished, buttonStates{reveal: true, remove: true}},
		{"aborted", snapshotWith(model.TaskStatusAborted), buttonStates{remove: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rowButtonStates(tt.task); got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestSpeedEtaText(t *testing.T) {
	downloading := snapshotWith(model.TaskStatusDownloading)
	downloading.State.LastSpeedText = "10.5M"
	downloading.State.LastEtaText = "0:01:10"

	unknownEta := snapshotWith(model.TaskStatusDownloading)
	unknownEta.State.LastSpeedText = "0"
	unknownEta.State.LastEtaText = "--:--:--"

	retrying := snapshotWith(model.TaskStatusRetrying)
	retrying.State.RetryCount = 3

	tests := []struct {
		name string
		task model.TaskSnapshot
		want string
	}{
		{"downloading", downloading, "10.5M" + MiddleDotSeparator + "0:01:10"},
		{"unknown eta", unknownEta, "0" + MiddleDotSeparator + model.UnknownPlaceholder},
		{"retrying", retrying, "retry 3"},
		{"starting", snapshotWith(model.TaskStatusStarting), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := speedEtaText(tt.task); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTaskRow_Update(t *testing.T) {
	test.NewApp()

	task := snapshotWith(model.TaskStatusDownloading)
	task.State.ProgressPercent = 45
	row := NewTaskRow(task, LoadResources(), RowActions{})

	if row.titleLabel.Text != "a.bin" {
		t.Errorf("Expected title a.bin, got %q", row.titleLabel.Text)
	}
	if row.progressLabel.Text != "45%" {
		t.Errorf("Expected 45%%, got %q", row.progressLabel.Text)
	}
	if row.progressBar.Value != 45 {
		t.Errorf("Expected progress bar at 45, got %v", row.progressBar.Value)
	}
	if !row.revealBtn.Disabled() {
		t.Error("Reveal should be disabled while downloading")
	}

	task.State.Status = model.TaskStatusFinished
	task.State.Finished = true
	task.State.ProgressPercent = 100
	task.State.ResumeCount = 1
	task.State.ResumeSupported = model.ResumeYes
	row.UpdateTask(task)

	if row.statusLabel.Text != "Finished" {
		t.Errorf("Expected Finished, got %q", row.statusLabel.Text)
	}
	if row.revealBtn.Disabled() || !row.abortBtn.Disabled() {
		t.Error("Finished row should allow reveal and not abort")
	}
	if row.resumeLabel.Text == "" {
		t.Error("Expected resume inference to be shown")
	}
}

func TestTaskRow_Actions(t *testing.T) {
	test.NewApp()

	var paused, aborted string
	row := NewTaskRow(snapshotWith(model.TaskStatusDownloading), LoadResources(), RowActions{
		OnPauseResume: func(id string) { paused = id },
		OnAbort:       func(id string) { aborted = id },
	})

	test.Tap(row.pauseResumeBtn)
	test.Tap(row.abortBtn)
	// Actions without a callback are ignored
	test.Tap(row.editBtn)

	if paused != "task-1" || aborted != "task-1" {
		t.Errorf("Expected callbacks with task-1, got pause=%q abort=%q", paused, aborted)
	}
}
