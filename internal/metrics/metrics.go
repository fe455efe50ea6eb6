// Package metrics provides Prometheus metrics for the download supervisor.
// They are served on the configured metrics address when one is set.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all downloader metrics
	namespace = "curl_downloader"
)

// Outcome label values
const (
	OutcomeFinished = "finished"
	OutcomeAborted  = "aborted"
)

// Registry holds every downloader metric. It is separate from the default
// registry so tests and the HTTP handler see only our collectors.
var Registry = prometheus.NewRegistry()

var (
	// ProcessStarts tracks how many times the download executable was launched
	ProcessStarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "process_starts_total",
			Help:      "Total number of download process launches",
		},
	)

	// Retries tracks armed retries after a failed exit
	Retries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Total number of retries armed after a failing exit",
		},
		[]string{"exit_code"},
	)

	// ResumeRegressions tracks progress regressions seen after a restart
	ResumeRegressions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resume_regressions_total",
			Help:      "Total number of progress regressions observed",
		},
	)

	// TasksCompleted tracks tasks that reached a terminal status
	TasksCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks that finished or were aborted",
		},
		[]string{"outcome"},
	)

	// ActiveTasks tracks tasks that are not in a terminal status
	ActiveTasks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_tasks",
			Help:      "Number of tasks that have not finished or been aborted",
		},
	)
)

func init() {
	Registry.MustRegister(
		ProcessStarts,
		Retries,
		ResumeRegressions,
		TasksCompleted,
		ActiveTasks,
	)
}

// RecordStart records a process launch
func RecordStart() {
	ProcessStarts.Inc()
}

// RecordRetry records a retry armed after exitCode
func RecordRetry(exitCode string) {
	Retries.WithLabelValues(exitCode).Inc()
}

// RecordRegression records a progress regression
func RecordRegression() {
	ResumeRegressions.Inc()
}

// RecordFinished records a successfully finished task
func RecordFinished() {
	TasksCompleted.WithLabelValues(OutcomeFinished).Inc()
}

// RecordAborted records an aborted task
func RecordAborted() {
	TasksCompleted.WithLabelValues(OutcomeAborted).Inc()
}

// SetActiveTasks sets the number of non-terminal tasks
func SetActiveTasks(count int) {
	ActiveTasks.Set(float64(count))
}
