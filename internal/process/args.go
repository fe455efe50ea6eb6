package process

import (
	"strconv"

	"github.com/ytget/curl-downloader/internal/model"
	"github.com/ytget/curl-downloader/internal/platform"
)

// curl flags
const (
	FlagDisableRC        = "--disable"
	FlagCreateDirs       = "--create-dirs"
	FlagConnectTimeout   = "--connect-timeout"
	FlagInsecure         = "--insecure"
	FlagLocation         = "--location"
	FlagShowError        = "--show-error"
	FlagRetry            = "--retry"
	FlagRetryConnRefused = "--retry-connrefused"
	FlagRetryAllErrors   = "--retry-all-errors"
	FlagRetryDelay       = "--retry-delay"
	FlagGlobOff          = "--globoff"
	FlagOutput           = "--output"
	FlagProxyInsecure    = "--proxy-insecure"
	FlagContinueAt       = "--continue-at"
	FlagURL              = "--url"
)

// curl flag values
const (
	ConnectTimeoutSeconds = "60"
	RetryCount            = "999"
	ContinueFromEnd       = "-"
)

// BuildCurlArgs builds the curl arguments for item. --disable must stay first
// for curl to honor it.
func BuildCurlArgs(item model.ItemDescriptor, cfg model.Configuration) []string {
	output := cfg.PartialPath(item)

	args := []string{
		FlagDisableRC,
		FlagCreateDirs,
		FlagConnectTimeout, ConnectTimeoutSeconds,
		FlagInsecure,
		FlagLocation,
		FlagShowError,
		FlagRetry, RetryCount,
		FlagRetryConnRefused,
		FlagRetryAllErrors,
		FlagRetryDelay, strconv.Itoa(cfg.RetryDelaySeconds),
		FlagGlobOff,
		FlagOutput, output,
	}

	if item.UsesProxy() {
		args = append(args, FlagProxyInsecure, "--"+string(item.ProxyProtocol), item.ProxyAddress())
	}

	// Continue from the current length of an existing partial file
	if platform.FileExists(output) {
		args = append(args, FlagContinueAt, ContinueFromEnd)
	}

	return append(args, FlagURL, item.SourceURL)
}
