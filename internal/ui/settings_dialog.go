package ui

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/curl-downloader/internal/config"
	"github.com/ytget/curl-downloader/internal/model"
	"github.com/ytget/curl-downloader/internal/platform"
)

// configFromForm builds and validates a configuration from the raw form fields
func configFromForm(exePath, dir, retryDelay, partialExt string) (model.Configuration, error) {
	delay, err := strconv.Atoi(strings.TrimSpace(retryDelay))
	if err != nil {
		return model.Configuration{}, fmt.Errorf("%w: retry delay %q is not a number", model.ErrInvalidConfiguration, retryDelay)
	}

	ext := strings.TrimSpace(partialExt)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext == "" {
		ext = config.DefaultPartialExtension
	}

	cfg := model.Configuration{
		ExecutablePath:       strings.TrimSpace(exePath),
		DownloadDirectory:    strings.TrimSpace(dir),
		RetryDelaySeconds:    delay,
		PartialFileExtension: ext,
	}
	if err := cfg.Validate(); err != nil {
		return model.Configuration{}, err
	}
	return cfg, nil
}

// SettingsDialog represents the configuration dialog
type SettingsDialog struct {
	settings *config.Settings
	window   fyne.Window
	onSave   func(model.Configuration) error
	dialog   *dialog.ConfirmDialog

	// UI components
	exeEntry     *widget.Entry
	versionLabel *widget.Label
	dirEntry     *widget.Entry
	delayEntry   *widget.Entry
	extEntry     *widget.Entry
	metricsEntry *widget.Entry
}

// ShowSettingsDialog shows the configuration form. onSave applies a validated
// configuration and may reject it.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, onSave func(model.Configuration) error) {
	sd := &SettingsDialog{
		settings: settings,
		window:   window,
		onSave:   onSave,
	}
	sd.createUI()
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.exeEntry = widget.NewEntry()
	sd.exeEntry.SetPlaceHolder("Path to curl")
	sd.versionLabel = widget.NewLabel("")
	browseExeBtn := widget.NewButton("Browse", sd.onBrowseExecutable)
	checkBtn := widget.NewButton("Check", sd.onCheckExecutable)
	exeRow := container.NewBorder(nil, nil, nil, container.NewHBox(browseExeBtn, checkBtn), sd.exeEntry)

	sd.dirEntry = widget.NewEntry()
	sd.dirEntry.SetPlaceHolder("Download directory path")
	browseDirBtn := widget.NewButton("Browse", sd.onBrowseDirectory)
	dirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.dirEntry)

	sd.delayEntry = widget.NewEntry()
	sd.delayEntry.SetPlaceHolder(fmt.Sprintf("%d-%d", model.MinRetryDelaySeconds, config.MaxRetryDelaySeconds))

	sd.extEntry = widget.NewEntry()
	sd.extEntry.SetPlaceHolder(config.DefaultPartialExtension)

	sd.metricsEntry = widget.NewEntry()
	sd.metricsEntry.SetPlaceHolder("127.0.0.1:9090, applied on restart")

	form := container.NewVBox(
		widget.NewLabel("curl executable:"),
		exeRow,
		sd.versionLabel,
		widget.NewLabel("Download directory:"),
		dirRow,
		widget.NewLabel("Retry delay (seconds):"),
		sd.delayEntry,
		widget.NewLabel("Partial file extension:"),
		sd.extEntry,
		widget.NewSeparator(),
		widget.NewLabel("Metrics address:"),
		sd.metricsEntry,
	)

	sd.dialog = dialog.NewCustomConfirm(TitleConfiguration, "Save", "Cancel", form, sd.onConfirm, sd.window)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogH))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	cfg := sd.settings.Configuration()
	sd.exeEntry.SetText(cfg.ExecutablePath)
	sd.dirEntry.SetText(cfg.DownloadDirectory)
	sd.delayEntry.SetText(strconv.Itoa(cfg.RetryDelaySeconds))
	sd.extEntry.SetText(cfg.PartialFileExtension)
	sd.metricsEntry.SetText(sd.settings.GetMetricsAddress())
}

func (sd *SettingsDialog) onBrowseExecutable() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		sd.exeEntry.SetText(reader.URI().Path())
	}, sd.window)
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.dirEntry.SetText(uri.Path())
	}, sd.window)
}

// onCheckExecutable probes the executable off the UI goroutine
func (sd *SettingsDialog) onCheckExecutable() {
	exePath := strings.TrimSpace(sd.exeEntry.Text)
	sd.versionLabel.SetText("Checking...")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ProbeTimeout)
		defer cancel()

		version, err := platform.CurlVersion(ctx, exePath)
		fyne.Do(func() {
			if err != nil {
				log.Printf("Executable check failed for %s: %v", exePath, err)
				sd.versionLabel.Importance = widget.DangerImportance
				sd.versionLabel.SetText(err.Error())
				return
			}
			sd.versionLabel.Importance = widget.SuccessImportance
			sd.versionLabel.SetText("curl " + version)
		})
	}()
}

// onConfirm handles saving the settings
func (sd *SettingsDialog) onConfirm(confirmed bool) {
	if !confirmed {
		return
	}

	cfg, err := configFromForm(sd.exeEntry.Text, sd.dirEntry.Text, sd.delayEntry.Text, sd.extEntry.Text)
	if err != nil {
		dialog.ShowError(err, sd.window)
		return
	}
	if err := sd.onSave(cfg); err != nil {
		dialog.ShowError(err, sd.window)
		return
	}
	sd.settings.SetMetricsAddress(sd.metricsEntry.Text)
}
