package ui

// Package ui contains the Fyne-based desktop user interface. It renders one row
// per supervised download and wires the row actions, the item form, the
// configuration form and the console viewer to the download service.
