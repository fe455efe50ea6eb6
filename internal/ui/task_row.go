package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/curl-downloader/internal/model"
)

// RowActions are the callbacks a task row invokes with its task id
type RowActions struct {
	OnPauseResume func(taskID string)
	OnAbort       func(taskID string)
	OnEdit        func(taskID string)
	OnConsole     func(taskID string)
	OnReveal      func(taskID string)
	OnRemove      func(taskID string)
}

// buttonStates tells which row actions apply to a snapshot
type buttonStates struct {
	pauseResume bool
	showResume  bool
	abort       bool
	edit        bool
	reveal      bool
	remove      bool
}

func rowButtonStates(task model.TaskSnapshot) buttonStates {
	status := task.State.Status
	return buttonStates{
		pauseResume: task.State.Paused || status.CanPause(),
		showResume:  task.State.Paused,
		abort:       !status.IsTerminal(),
		edit:        !status.IsTerminal(),
		reveal:      task.State.Finished,
		remove:      status.IsTerminal(),
	}
}

// speedEtaText returns the telemetry line shown under the status
func speedEtaText(task model.TaskSnapshot) string {
	switch task.State.Status {
	case model.TaskStatusDownloading:
		return task.GetSpeedString() + MiddleDotSeparator + task.GetETAString()
	case model.TaskStatusRetrying:
		return fmt.Sprintf(RetryLabelFormat, task.State.RetryCount)
	case model.TaskStatusError:
		return task.State.LastError
	default:
		return ""
	}
}

// TaskRow represents a compact task row widget
type TaskRow struct {
	widget.BaseWidget

	task      model.TaskSnapshot
	resources *Resources
	actions   RowActions

	// UI components
	titleLabel    *widget.Label
	urlLabel      *widget.Label
	statusLabel   *widget.Label
	progressLabel *widget.Label
	speedEtaLabel *widget.Label
	resumeLabel   *widget.Label
	progressBar   *widget.ProgressBar

	// Action buttons
	pauseResumeBtn *widget.Button
	abortBtn       *widget.Button
	editBtn        *widget.Button
	consoleBtn     *widget.Button
	revealBtn      *widget.Button
	removeBtn      *widget.Button
}

// NewTaskRow creates a new task row widget
func NewTaskRow(task model.TaskSnapshot, resources *Resources, actions RowActions) *TaskRow {
	tr := &TaskRow{
		task:      task,
		resources: resources,
		actions:   actions,
	}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.updateFromTask()
	return tr
}

// TaskID returns the id of the displayed task
func (tr *TaskRow) TaskID() string {
	return tr.task.ID
}

// UpdateTask updates the row with new task data
func (tr *TaskRow) UpdateTask(task model.TaskSnapshot) {
	tr.task = task
	tr.updateFromTask()
	tr.Refresh()
}

func (tr *TaskRow) invoke(action func(string)) func() {
	return func() {
		if action != nil {
			action(tr.task.ID)
		}
	}
}

// createUI creates the UI components
func (tr *TaskRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.urlLabel = widget.NewLabel("")
	tr.urlLabel.Truncation = fyne.TextTruncateEllipsis
	tr.urlLabel.Importance = widget.LowImportance

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing
	tr.progressLabel = widget.NewLabel("")
	tr.progressLabel.Alignment = fyne.TextAlignTrailing
	tr.speedEtaLabel = widget.NewLabel("")
	tr.speedEtaLabel.TextStyle = fyne.TextStyle{Monospace: true}
	tr.speedEtaLabel.Truncation = fyne.TextTruncateEllipsis
	tr.resumeLabel = widget.NewLabel("")
	tr.resumeLabel.Importance = widget.LowImportance

	tr.progressBar = widget.NewProgressBar()
	tr.progressBar.Max = 100
	tr.progressBar.TextFormatter = func() string { return "" }

	tr.pauseResumeBtn = widget.NewButtonWithIcon("", tr.resources.Pause, tr.invoke(tr.actions.OnPauseResume))
	tr.abortBtn = widget.NewButtonWithIcon("", tr.resources.Abort, tr.invoke(tr.actions.OnAbort))
	tr.editBtn = widget.NewButtonWithIcon("", tr.resources.Edit, tr.invoke(tr.actions.OnEdit))
	tr.consoleBtn = widget.NewButtonWithIcon("", tr.resources.Console, tr.invoke(tr.actions.OnConsole))
	tr.revealBtn = widget.NewButtonWithIcon("", tr.resources.Reveal, tr.invoke(tr.actions.OnReveal))
	tr.removeBtn = widget.NewButtonWithIcon("", tr.resources.Remove, tr.invoke(tr.actions.OnRemove))
	tr.abortBtn.Importance = widget.DangerImportance
}

// updateFromTask updates UI components based on task state
func (tr *TaskRow) updateFromTask() {
	task := tr.task
	state := task.State

	tr.titleLabel.SetText(strings.TrimSpace(task.GetDisplayTitle()))
	tr.urlLabel.SetText(task.Item.SourceURL)

	tr.statusLabel.Importance = statusImportance(state.Status)
	tr.statusLabel.SetText(state.Status.String())

	tr.progressBar.SetValue(float64(state.ProgressPercent))
	tr.progressLabel.SetText(fmt.Sprintf(ProgressLabelFormat, state.ProgressPercent))
	tr.speedEtaLabel.SetText(speedEtaText(task))

	if state.ResumeCount > 0 {
		tr.resumeLabel.SetText(fmt.Sprintf(ResumeLabelFormat, state.ResumeSupported))
	} else {
		tr.resumeLabel.SetText("")
	}

	tr.updateButtons()
}

// updateButtons updates button states based on task status
func (tr *TaskRow) updateButtons() {
	states := rowButtonStates(tr.task)

	if states.showResume {
		tr.pauseResumeBtn.SetIcon(tr.resources.Resume)
	} else {
		tr.pauseResumeBtn.SetIcon(tr.resources.Pause)
	}

	setEnabled(tr.pauseResumeBtn, states.pauseResume)
	setEnabled(tr.abortBtn, states.abort)
	setEnabled(tr.editBtn, states.edit)
	setEnabled(tr.revealBtn, states.reveal)
	setEnabled(tr.removeBtn, states.remove)
}

func setEnabled(btn *widget.Button, enabled bool) {
	if enabled {
		btn.Enable()
	} else {
		btn.Disable()
	}
}

// CreateRenderer creates the widget renderer
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	// Helper to fix width using a transparent rectangle underneath
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	info := container.NewVBox(
		fixedWidth(StatusLabelWidth, tr.statusLabel),
		container.NewHBox(
			fixedWidth(SpeedLabelWidth, tr.speedEtaLabel),
			fixedWidth(PercentLabelWidth, tr.progressLabel),
		),
	)
	actions := container.NewHBox(
		tr.pauseResumeBtn,
		tr.abortBtn,
		tr.editBtn,
		tr.consoleBtn,
		tr.revealBtn,
		tr.removeBtn,
	)
	rightCluster := container.NewBorder(nil, nil, nil, actions, info)
	titles := container.NewVBox(tr.titleLabel, tr.urlLabel)
	top := container.NewBorder(nil, nil, nil, rightCluster, titles)
	bottom := container.NewBorder(nil, nil, nil, tr.resumeLabel, tr.progressBar)

	sizer := canvas.NewRectangle(color.Transparent)
	sizer.SetMinSize(fyne.NewSize(RowMinWidth, RowMinHeight))

	return widget.NewSimpleRenderer(container.NewStack(
		sizer,
		container.NewVBox(top, bottom, widget.NewSeparator()),
	))
}
