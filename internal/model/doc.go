package model

// Package model defines domain data structures used across the app: download
// items, the shared configuration, per-task state and status enums. Structures
// are plain values so they can be copied into UI snapshots.
