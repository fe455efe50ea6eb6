package process

// EventKind identifies what happened to a process
type EventKind int

const (
	EventStarted EventKind = iota
	EventErrorOccurred
	EventOutputAvailable
	EventExited
)

// String returns the string representation of EventKind
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventErrorOccurred:
		return "error"
	case EventOutputAvailable:
		return "output"
	case EventExited:
		return "exited"
	default:
		return "unknown"
	}
}

// ErrorKind classifies process errors
type ErrorKind int

const (
	ErrorCrashed ErrorKind = iota
	ErrorFailedToStart
	ErrorReadError
	ErrorTimedout
	// ErrorWriteError completes the list of process error kinds; curl gets no
	// stdin, so the controller never reports it.
	ErrorWriteError
	ErrorUnknown
)

// String returns a human readable description of the error
func (k ErrorKind) String() string {
	switch k {
	case ErrorCrashed:
		return "The process crashed some time after starting successfully"
	case ErrorFailedToStart:
		return "The process failed to start. Either the invoked program is missing, or you may have insufficient permissions"
	case ErrorReadError:
		return "An error occurred when attempting to read from the process"
	case ErrorTimedout:
		return "The last wait operation timed out"
	case ErrorWriteError:
		return "An error occurred when attempting to write to the process"
	default:
		return "An unknown error occurred"
	}
}

// ExitStatus tells whether the process exited on its own or was killed
type ExitStatus int

const (
	ExitNormal ExitStatus = iota
	ExitCrashed
)

// String returns the string representation of ExitStatus
func (s ExitStatus) String() string {
	if s == ExitCrashed {
		return "crashed"
	}
	return "normal"
}

// Event is emitted by a Controller. TaskID and Generation identify the
// process instance the event belongs to.
type Event struct {
	TaskID     string
	Generation uint64
	Kind       EventKind
	Error      ErrorKind
	Err        error
	Text       string
	ExitCode   int
	ExitStatus ExitStatus
}

// Sink receives controller events. It must not block.
type Sink func(Event)
