package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrInvalidConfiguration is returned when the configuration fails validation
var ErrInvalidConfiguration = errors.New("invalid configuration")

// MinRetryDelaySeconds is the smallest accepted delay between process retries
const MinRetryDelaySeconds = 5

// Configuration is the process-wide download configuration shared by all tasks
type Configuration struct {
	ExecutablePath       string
	DownloadDirectory    string
	RetryDelaySeconds    int
	PartialFileExtension string
}

// Validate checks the executable path, download directory and retry delay
func (c Configuration) Validate() error {
	if c.ExecutablePath == "" {
		return fmt.Errorf("%w: executable path is empty", ErrInvalidConfiguration)
	}
	if c.DownloadDirectory == "" {
		return fmt.Errorf("%w: download directory is empty", ErrInvalidConfiguration)
	}
	info, err := os.Stat(c.DownloadDirectory)
	if err != nil {
		return fmt.Errorf("%w: download directory: %w", ErrInvalidConfiguration, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidConfiguration, c.DownloadDirectory)
	}
	if c.RetryDelaySeconds < MinRetryDelaySeconds {
		return fmt.Errorf("%w: retry delay %ds is below %ds", ErrInvalidConfiguration, c.RetryDelaySeconds, MinRetryDelaySeconds)
	}
	return nil
}

// RetryDelay returns the retry delay as a duration
func (c Configuration) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// PartialPath is where the executable writes while the download is in flight
func (c Configuration) PartialPath(item ItemDescriptor) string {
	return filepath.Join(c.DownloadDirectory, item.OutputName+c.PartialFileExtension)
}

// FinalPath is the name the file gets once the download finished
func (c Configuration) FinalPath(item ItemDescriptor) string {
	return filepath.Join(c.DownloadDirectory, item.OutputName)
}
