// Command curl-downloader downloads the URLs given on the command line
// without the desktop window, using the same task supervision as the app.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ytget/curl-downloader/internal/config"
	"github.com/ytget/curl-downloader/internal/download"
	"github.com/ytget/curl-downloader/internal/metrics"
	"github.com/ytget/curl-downloader/internal/model"
	"github.com/ytget/curl-downloader/internal/platform"
)

func main() {
	var (
		exePath     = flag.String("curl", platform.DefaultCurlPath(), "path of the curl executable")
		dir         = flag.String("dir", ".", "download directory")
		retryDelay  = flag.Int("retry-delay", config.DefaultRetryDelaySeconds, "seconds between retries")
		ext         = flag.String("partial-ext", config.DefaultPartialExtension, "extension of files being downloaded")
		metricsAddr = flag.String("metrics", "", "serve metrics on this address")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] url...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := model.Configuration{
		ExecutablePath:       *exePath,
		DownloadDirectory:    *dir,
		RetryDelaySeconds:    *retryDelay,
		PartialFileExtension: *ext,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, *metricsAddr); err != nil {
				log.Printf("Metrics disabled: %v", err)
			}
		}()
	}

	if err := run(ctx, download.NewService(cfg), flag.Args()); err != nil {
		log.Fatal(err)
	}
}

// run downloads urls and returns once every task finished or ctx is done
func run(ctx context.Context, svc *download.Service, urls []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Each task reaches a terminal status once, so the loop never blocks here
	updates := make(chan model.TaskSnapshot, len(urls))
	svc.SetUpdateCallback(func(task model.TaskSnapshot) {
		if task.State.Status.IsTerminal() {
			updates <- task
		}
	})

	stopped := make(chan error, 1)
	go func() { stopped <- svc.Run(ctx) }()

	// Rejected URLs count as failed downloads
	failed := 0
	pending := make(map[string]bool)
	for _, rawURL := range urls {
		task, err := svc.AddTask(model.NewItemDescriptor(rawURL, ""))
		if err != nil {
			log.Printf("Skipping %s: %v", rawURL, err)
			failed++
			continue
		}
		pending[task.ID] = true
	}

	for len(pending) > 0 {
		select {
		case task := <-updates:
			if !pending[task.ID] {
				continue
			}
			delete(pending, task.ID)
			if !task.State.Finished {
				failed++
			}
			log.Printf("%s: %s", task.GetDisplayTitle(), task.State.Status)
		case <-ctx.Done():
			failed += len(pending)
			pending = nil
		}
	}

	cancel()
	if err := <-stopped; err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d downloads did not finish", failed, len(urls))
	}
	return nil
}
