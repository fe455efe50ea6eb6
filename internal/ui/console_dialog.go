package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowConsoleDialog shows the raw process output of a task. reload fetches
// the current text and runs off the UI goroutine.
func ShowConsoleDialog(window fyne.Window, title, text string, reload func() (string, error)) {
	grid := widget.NewTextGridFromString(text)
	scroll := container.NewScroll(grid)
	scroll.ScrollToBottom()

	reloadBtn := widget.NewButton("Reload", func() {
		go func() {
			updated, err := reload()
			fyne.Do(func() {
				if err != nil {
					dialog.ShowError(err, window)
					return
				}
				grid.SetText(updated)
				scroll.ScrollToBottom()
			})
		}()
	})

	content := container.NewBorder(nil, container.NewHBox(reloadBtn), nil, nil, scroll)
	d := dialog.NewCustom(TitleConsole+": "+title, "Close", content, window)
	d.Resize(fyne.NewSize(ConsoleDialogWidth, ConsoleDialogHeight))
	d.Show()
}
