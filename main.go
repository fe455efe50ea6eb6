package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/curl-downloader/internal/config"
	"github.com/ytget/curl-downloader/internal/download"
	"github.com/ytget/curl-downloader/internal/metrics"
	"github.com/ytget/curl-downloader/internal/platform"
	"github.com/ytget/curl-downloader/internal/store"
	"github.com/ytget/curl-downloader/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.curl-downloader"
	AppName = "Curl Downloader"

	WindowWidth  = 800
	WindowHeight = 600
)

func main() {
	// Log version information
	fmt.Printf("Curl Downloader v%s starting...\n", version)

	// Create new Fyne app
	myApp := app.NewWithID(AppID)

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	settings := config.NewSettings(myApp)
	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		fmt.Printf("failed to ensure downloads dir: %v\n", err)
	}

	pending := store.NewFileStore(filepath.Join(myApp.Storage().RootURI().Path(), store.DefaultFileName))
	downloadSvc := download.NewService(settings.Configuration(), download.WithStore(pending))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := downloadSvc.Run(ctx); err != nil {
			log.Printf("Download service failed: %v", err)
		}
	}()

	if addr := settings.GetMetricsAddress(); addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr); err != nil {
				log.Printf("Metrics disabled: %v", err)
			}
		}()
	}

	// Create and setup UI before restoring so rows receive the first updates
	rootUI := ui.NewRootUI(myWindow, myApp, downloadSvc, settings, ui.LoadResources())
	restorePending(downloadSvc, pending)
	rootUI.LoadTasks()

	// Show and run
	myWindow.ShowAndRun()

	cancel()
	<-stopped
}

// restorePending restarts the downloads left unfinished by the last run
func restorePending(svc download.Downloader, pending *store.FileStore) {
	items, err := pending.Load()
	if err != nil {
		log.Printf("Failed to load pending downloads from %s: %v", pending.Path(), err)
		return
	}
	for _, item := range items {
		if _, err := svc.AddTask(item); err != nil {
			log.Printf("Failed to restore %s: %v", item.SourceURL, err)
		}
	}
	if len(items) > 0 {
		log.Printf("Restored %d pending downloads", len(items))
	}
}
