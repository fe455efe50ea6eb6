package model

import (
	"strings"
	"time"
)

// Placeholder shown when speed or ETA are unknown
const UnknownPlaceholder = "—"

// TaskState is the mutable state of one supervised download
type TaskState struct {
	Status          TaskStatus
	ProgressPercent int    // 0 to 100
	LastSpeedText   string // speed as reported by the executable (e.g., "1024k")
	LastEtaText     string // ETA as reported by the executable (e.g., "0:01:40")
	ResumeCount     int    // number of observed progress regressions
	ResumeSupported ResumeSupport
	RetryCount      int // number of armed retries
	LastExitCode    int
	LastError       string
	Finished        bool
	Aborted         bool
	Paused          bool
	StartedAt       time.Time
	UpdatedAt       time.Time
}

// TaskSnapshot is a read-only copy of a task handed to the UI and the registry
type TaskSnapshot struct {
	ID    string
	Item  ItemDescriptor
	State TaskState
}

// GetETAString returns the ETA text, or a dash if unknown
func (ts TaskSnapshot) GetETAString() string {
	eta := strings.TrimSpace(ts.State.LastEtaText)
	if eta == "" || strings.HasPrefix(eta, "--") {
		return UnknownPlaceholder
	}
	return eta
}

// GetSpeedString returns the speed text, or a dash if unknown
func (ts TaskSnapshot) GetSpeedString() string {
	speed := strings.TrimSpace(ts.State.LastSpeedText)
	if speed == "" {
		return UnknownPlaceholder
	}
	return speed
}

// GetDisplayTitle returns output name or URL in order of preference
func (ts TaskSnapshot) GetDisplayTitle() string {
	if ts.Item.OutputName != "" {
		return ts.Item.OutputName
	}
	return ts.Item.SourceURL
}
