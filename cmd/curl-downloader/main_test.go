package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ytget/curl-downloader/internal/download"
	"github.com/ytget/curl-downloader/internal/model"
)

func TestRun_RejectedURLsFail(t *testing.T) {
	cfg := model.Configuration{
		ExecutablePath:       filepath.Join(t.TempDir(), "missing-curl"),
		DownloadDirectory:    t.TempDir(),
		RetryDelaySeconds:    model.MinRetryDelaySeconds,
		PartialFileExtension: ".part",
	}

	err := run(testContext(t), download.NewService(cfg), []string{"not a url"})
	if err == nil || !strings.Contains(err.Error(), "1 of 1") {
		t.Errorf("Expected the rejected url to be counted as failed, got %v", err)
	}
}

func TestRun_StopsOnTimeout(t *testing.T) {
	if _, err := os.Stat("/bin/false"); err != nil {
		t.Skip("/bin/false not available")
	}
	cfg := model.Configuration{
		// Exits with a failure and keeps retrying until cancelled
		ExecutablePath:       "/bin/false",
		DownloadDirectory:    t.TempDir(),
		RetryDelaySeconds:    model.MinRetryDelaySeconds,
		PartialFileExtension: ".part",
	}

	ctx, cancel := context.WithTimeout(testContext(t), 300*time.Millisecond)
	defer cancel()

	if err := run(ctx, download.NewService(cfg), []string{"http://127.0.0.1:1/a.bin"}); err == nil {
		t.Error("Expected an error for an unfinished download")
	}
}

// testContext returns a context canceled when the test completes
// (equivalent to t.Context, which requires Go 1.24).
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
