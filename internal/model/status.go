package model

// TaskStatus represents the status of a supervised download task
type TaskStatus string

const (
	// TaskStatusStarting means the download process is being launched
	TaskStatusStarting TaskStatus = "Starting"

	// TaskStatusDownloading means progress samples are arriving
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusRetrying means the process exited with a failure and a retry is scheduled
	TaskStatusRetrying TaskStatus = "Retrying"

	// TaskStatusPaused means the user paused the task
	TaskStatusPaused TaskStatus = "Paused"

	// TaskStatusError means the process reported an error and has not exited yet
	TaskStatusError TaskStatus = "Error"

	// TaskStatusAborted means the task was cancelled by the user
	TaskStatusAborted TaskStatus = "Aborted"

	// TaskStatusFinished means the download completed successfully
	TaskStatusFinished TaskStatus = "Finished"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if a process is running or about to be relaunched
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusStarting || ts == TaskStatusDownloading || ts == TaskStatusRetrying || ts == TaskStatusError
}

// IsTerminal returns true if the task reached its final state (finished or aborted)
func (ts TaskStatus) IsTerminal() bool {
	return ts == TaskStatusFinished || ts == TaskStatusAborted
}

// CanPause returns true if a pause request is valid in this state
func (ts TaskStatus) CanPause() bool {
	return ts.IsActive()
}

// ResumeSupport tells whether the server honors byte-range resume requests
type ResumeSupport int

const (
	ResumeUnknown ResumeSupport = iota
	ResumeYes
	ResumeNo
)

// String returns the string representation of ResumeSupport
func (r ResumeSupport) String() string {
	switch r {
	case ResumeYes:
		return "Yes"
	case ResumeNo:
		return "No"
	default:
		return "Unknown"
	}
}
