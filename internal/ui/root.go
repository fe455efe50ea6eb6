package ui

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/curl-downloader/internal/config"
	"github.com/ytget/curl-downloader/internal/download"
	"github.com/ytget/curl-downloader/internal/model"
	"github.com/ytget/curl-downloader/internal/platform"
)

// RootUI is the main window: a toolbar and one row per task
type RootUI struct {
	window      fyne.Window
	app         fyne.App
	downloadSvc download.Downloader
	settings    *config.Settings
	resources   *Resources

	rows       map[string]*TaskRow
	rowBox     *fyne.Container
	emptyLabel *widget.Label
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, downloadSvc download.Downloader, settings *config.Settings, resources *Resources) *RootUI {
	ui := &RootUI{
		window:      window,
		app:         app,
		downloadSvc: downloadSvc,
		settings:    settings,
		resources:   resources,
		rows:        make(map[string]*TaskRow),
	}

	window.SetIcon(resources.App)

	// Set up callback for download updates
	ui.downloadSvc.SetUpdateCallback(ui.onTaskUpdate)

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(ui.resources.Add, ui.onAddItem),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(ui.resources.Config, ui.onShowSettings),
	)

	ui.emptyLabel = widget.NewLabel("No downloads. Use + to add one.")
	ui.emptyLabel.Alignment = fyne.TextAlignCenter
	ui.rowBox = container.NewVBox(ui.emptyLabel)

	content := container.NewBorder(toolbar, nil, nil, nil, container.NewVScroll(ui.rowBox))
	ui.window.SetContent(content)
}

// LoadTasks shows the tasks already held by the service
func (ui *RootUI) LoadTasks() {
	for _, task := range ui.downloadSvc.GetAllTasks() {
		ui.applyUpdate(task)
	}
}

// onTaskUpdate handles task updates from the download service. It runs on
// the service loop, so rendering is handed to the UI goroutine.
func (ui *RootUI) onTaskUpdate(task model.TaskSnapshot) {
	fyne.Do(func() {
		ui.applyUpdate(task)
	})
}

// applyUpdate creates or refreshes the row of task
func (ui *RootUI) applyUpdate(task model.TaskSnapshot) {
	row, ok := ui.rows[task.ID]
	if !ok {
		row = NewTaskRow(task, ui.resources, RowActions{
			OnPauseResume: ui.onPauseResume,
			OnAbort:       ui.onAbort,
			OnEdit:        ui.onEdit,
			OnConsole:     ui.onConsole,
			OnReveal:      ui.onReveal,
			OnRemove:      ui.onRemove,
		})
		ui.rows[task.ID] = row
		ui.rowBox.Remove(ui.emptyLabel)
		ui.rowBox.Add(row)
		return
	}

	wasFinished := row.task.State.Finished
	row.UpdateTask(task)
	if !wasFinished && task.State.Finished {
		ui.sendCompletionNotification(task)
	}
}

// removeRow drops the row of a removed task
func (ui *RootUI) removeRow(taskID string) {
	row, ok := ui.rows[taskID]
	if !ok {
		return
	}
	delete(ui.rows, taskID)
	ui.rowBox.Remove(row)
	if len(ui.rows) == 0 {
		ui.rowBox.Add(ui.emptyLabel)
	}
}

// runAsync runs a service call off the UI goroutine and reports its error.
// Stopping a process can block for the grace period.
func (ui *RootUI) runAsync(action string, call func() error) {
	go func() {
		if err := call(); err != nil {
			log.Printf("Error during %s: %v", action, err)
			fyne.Do(func() {
				dialog.ShowError(fmt.Errorf("%s: %w", action, err), ui.window)
			})
		}
	}()
}

func (ui *RootUI) onAddItem() {
	ShowItemDialog(ui.window, TitleAddItem, model.ItemDescriptor{ProxyProtocol: model.ProxyNone}, false, func(item model.ItemDescriptor) {
		ui.runAsync("add download", func() error {
			_, err := ui.downloadSvc.AddTask(item)
			return err
		})
	})
}

func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, func(cfg model.Configuration) error {
		if err := platform.CreateDirectoryIfNotExists(cfg.DownloadDirectory); err != nil {
			return err
		}
		if err := ui.downloadSvc.SetConfiguration(cfg); err != nil {
			return err
		}
		ui.settings.SetConfiguration(cfg)
		return nil
	})
}

func (ui *RootUI) onPauseResume(taskID string) {
	row, ok := ui.rows[taskID]
	if !ok {
		return
	}
	if row.task.State.Paused {
		ui.runAsync("resume", func() error { return ui.downloadSvc.ResumeTask(taskID) })
		return
	}
	ui.runAsync("pause", func() error { return ui.downloadSvc.PauseTask(taskID) })
}

func (ui *RootUI) onAbort(taskID string) {
	row, ok := ui.rows[taskID]
	if !ok {
		return
	}
	message := fmt.Sprintf("Abort downloading %s?", row.task.GetDisplayTitle())
	dialog.ShowConfirm(TitleAbort, message, func(confirmed bool) {
		if confirmed {
			ui.runAsync("abort", func() error { return ui.downloadSvc.AbortTask(taskID) })
		}
	}, ui.window)
}

func (ui *RootUI) onEdit(taskID string) {
	row, ok := ui.rows[taskID]
	if !ok {
		return
	}
	ShowItemDialog(ui.window, TitleEditItem, row.task.Item, true, func(item model.ItemDescriptor) {
		ui.runAsync("edit", func() error { return ui.downloadSvc.EditTask(taskID, item) })
	})
}

func (ui *RootUI) onConsole(taskID string) {
	row, ok := ui.rows[taskID]
	if !ok {
		return
	}
	title := row.task.GetDisplayTitle()
	reload := func() (string, error) { return ui.downloadSvc.ConsoleText(taskID) }

	go func() {
		text, err := reload()
		fyne.Do(func() {
			if err != nil {
				dialog.ShowError(err, ui.window)
				return
			}
			ShowConsoleDialog(ui.window, title, text, reload)
		})
	}()
}

// onReveal handles revealing a file in the system file manager
func (ui *RootUI) onReveal(taskID string) {
	row, ok := ui.rows[taskID]
	if !ok {
		return
	}
	filePath := ui.downloadSvc.Configuration().FinalPath(row.task.Item)
	if err := platform.OpenFileInManager(filePath); err != nil {
		log.Printf("Error revealing file %s: %v", filePath, err)
		dialog.ShowError(err, ui.window)
	}
}

// onRemove handles removing a task from the list
func (ui *RootUI) onRemove(taskID string) {
	go func() {
		if err := ui.downloadSvc.RemoveTask(taskID); err != nil {
			log.Printf("Error removing task %s: %v", taskID, err)
			fyne.Do(func() { dialog.ShowError(err, ui.window) })
			return
		}
		fyne.Do(func() { ui.removeRow(taskID) })
	}()
}

// sendCompletionNotification sends a system notification for finished downloads
func (ui *RootUI) sendCompletionNotification(task model.TaskSnapshot) {
	ui.app.SendNotification(&fyne.Notification{
		Title:   "Download finished",
		Content: task.GetDisplayTitle(),
	})
}
