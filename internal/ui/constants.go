package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Text fragments
const (
	MiddleDotSeparator  = " · "
	ProgressLabelFormat = "%d%%"
	RetryLabelFormat    = "retry %d"
	ResumeLabelFormat   = "resume: %s"
)

// Titles
const (
	TitleAddItem       = "Add download"
	TitleEditItem      = "Edit download"
	TitleConfiguration = "Configuration"
	TitleConsole       = "Console"
	TitleAbort         = "Abort download"
)

// Layout sizing (TaskRow / lists)
const (
	StatusLabelWidth  float32 = 110
	SpeedLabelWidth   float32 = 150
	PercentLabelWidth float32 = 48

	RowMinWidth  float32 = 480
	RowMinHeight float32 = 72
)

// Dialog sizing
const (
	ItemDialogWidth     float32 = 520
	ItemDialogHeight    float32 = 360
	SettingsDialogWidth float32 = 560
	SettingsDialogH     float32 = 380
	ConsoleDialogWidth  float32 = 720
	ConsoleDialogHeight float32 = 480
)

// Probe timeout for the executable check in the configuration form
const (
	ProbeTimeout = 10 * time.Second
)
