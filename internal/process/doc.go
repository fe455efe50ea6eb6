package process

// Package process owns the external download executable: it builds the curl
// command line for an item, starts and stops one process instance per task and
// reports lifecycle and output events tagged with the task id and generation.
