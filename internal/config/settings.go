package config

import (
	"strings"

	"fyne.io/fyne/v2"

	"github.com/ytget/curl-downloader/internal/model"
	"github.com/ytget/curl-downloader/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyExecutablePath   = "executable_path"
	KeyDownloadDir      = "download_directory"
	KeyRetryDelay       = "retry_delay_seconds"
	KeyPartialExtension = "partial_extension"
	KeyMetricsAddress   = "metrics_address"
)

// Default values
const (
	DefaultRetryDelaySeconds = 10
	MaxRetryDelaySeconds     = 3600
	DefaultPartialExtension  = ".part"
	FallbackDownloadDir      = "/tmp/downloads"
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetExecutablePath returns the path of the curl executable
func (s *Settings) GetExecutablePath() string {
	path := s.app.Preferences().String(KeyExecutablePath)
	if path == "" {
		path = platform.DefaultCurlPath()
		s.SetExecutablePath(path)
	}
	return path
}

// SetExecutablePath sets the path of the curl executable
func (s *Settings) SetExecutablePath(path string) {
	s.app.Preferences().SetString(KeyExecutablePath, strings.TrimSpace(path))
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = FallbackDownloadDir
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetRetryDelaySeconds returns the delay between process retries
func (s *Settings) GetRetryDelaySeconds() int {
	value := s.app.Preferences().Int(KeyRetryDelay)
	if value <= 0 {
		s.SetRetryDelaySeconds(DefaultRetryDelaySeconds)
		return DefaultRetryDelaySeconds
	}
	return value
}

// SetRetryDelaySeconds sets the retry delay, clamped to the accepted range
func (s *Settings) SetRetryDelaySeconds(seconds int) {
	if seconds < model.MinRetryDelaySeconds {
		seconds = model.MinRetryDelaySeconds
	}
	if seconds > MaxRetryDelaySeconds {
		seconds = MaxRetryDelaySeconds
	}
	s.app.Preferences().SetInt(KeyRetryDelay, seconds)
}

// GetPartialExtension returns the extension of in-flight files
func (s *Settings) GetPartialExtension() string {
	ext := s.app.Preferences().String(KeyPartialExtension)
	if ext == "" {
		s.SetPartialExtension(DefaultPartialExtension)
		return DefaultPartialExtension
	}
	return ext
}

// SetPartialExtension sets the extension of in-flight files. A missing
// leading dot is added.
func (s *Settings) SetPartialExtension(ext string) {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		ext = DefaultPartialExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	s.app.Preferences().SetString(KeyPartialExtension, ext)
}

// GetMetricsAddress returns the listen address for metrics, empty when disabled
func (s *Settings) GetMetricsAddress() string {
	return s.app.Preferences().String(KeyMetricsAddress)
}

// SetMetricsAddress sets the metrics listen address
func (s *Settings) SetMetricsAddress(addr string) {
	s.app.Preferences().SetString(KeyMetricsAddress, strings.TrimSpace(addr))
}

// Configuration assembles the download configuration from the stored settings
func (s *Settings) Configuration() model.Configuration {
	return model.Configuration{
		ExecutablePath:       s.GetExecutablePath(),
		DownloadDirectory:    s.GetDownloadDirectory(),
		RetryDelaySeconds:    s.GetRetryDelaySeconds(),
		PartialFileExtension: s.GetPartialExtension(),
	}
}

// SetConfiguration stores cfg
func (s *Settings) SetConfiguration(cfg model.Configuration) {
	s.SetExecutablePath(cfg.ExecutablePath)
	s.SetDownloadDirectory(cfg.DownloadDirectory)
	s.SetRetryDelaySeconds(cfg.RetryDelaySeconds)
	s.SetPartialExtension(cfg.PartialFileExtension)
}
