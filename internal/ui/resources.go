package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const (
	AppIcon = "curl-downloader.png"
)

// Resources holds the icons shared by every task row. It is loaded once and
// handed to the rows instead of being looked up globally.
type Resources struct {
	App     fyne.Resource
	Pause   fyne.Resource
	Resume  fyne.Resource
	Abort   fyne.Resource
	Edit    fyne.Resource
	Console fyne.Resource
	Reveal  fyne.Resource
	Remove  fyne.Resource
	Add     fyne.Resource
	Config  fyne.Resource
}

// LoadResources loads the application icon from disk, falling back to a theme
// icon, and collects the theme icons used by the rows
func LoadResources() *Resources {
	appIcon, err := fyne.LoadResourceFromPath(AppIcon)
	if err != nil {
		log.Printf("Using default application icon: %v", err)
		appIcon = theme.DownloadIcon()
	}

	return &Resources{
		App:     appIcon,
		Pause:   theme.MediaPauseIcon(),
		Resume:  theme.MediaPlayIcon(),
		Abort:   theme.CancelIcon(),
		Edit:    theme.DocumentCreateIcon(),
		Console: theme.ListIcon(),
		Reveal:  theme.FolderOpenIcon(),
		Remove:  theme.DeleteIcon(),
		Add:     theme.ContentAddIcon(),
		Config:  theme.SettingsIcon(),
	}
}
