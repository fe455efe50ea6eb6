package platform

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Version probe constants
const (
	DefaultProbeTimeout = 10 * time.Second
	VersionFlag         = "--version"
	CurlOutputPrefix    = "curl"
)

// ErrNotCurl is returned when the probed executable does not identify itself as curl
var ErrNotCurl = errors.New("executable is not curl")

// CurlVersion runs "<exePath> --version" and returns the reported version
func CurlVersion(ctx context.Context, exePath string) (string, error) {
	if exePath == "" {
		return "", fmt.Errorf("executable path is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, exePath, VersionFlag).Output()
	if err != nil {
		return "", fmt.Errorf("failed to run %s: %w", exePath, err)
	}

	return ParseCurlVersion(string(output))
}

// ParseCurlVersion extracts the version from the first line of "curl --version"
func ParseCurlVersion(output string) (string, error) {
	if !strings.HasPrefix(output, CurlOutputPrefix) {
		return "", ErrNotCurl
	}
	firstLine, _, _ := strings.Cut(output, "\n")
	fields := strings.Fields(firstLine)
	if len(fields) < 2 {
		return "", ErrNotCurl
	}
	return fields[1], nil
}
