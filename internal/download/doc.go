package download

// Package download supervises curl downloads. Each task has a Supervisor
// driving one process controller through start, retry, pause, resume, abort
// and edit. The Service registry owns all supervisors and serializes their
// events on a single loop goroutine.
