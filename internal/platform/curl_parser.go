package platform

import (
	"strconv"
	"strings"

	"github.com/ytget/curl-downloader/internal/model"
)

// Progress meter layout of curl: 12 whitespace separated columns
//
//	% Total % Received % Xferd AverageDload AverageUpload TimeTotal TimeSpent TimeLeft CurrentSpeed
const (
	ProgressColumns     = 12
	ColumnPercent       = 0
	ColumnTotalSize     = 1
	ColumnTimeLeft      = 10
	ColumnCurrentSpeed  = 11
	MaxProgressPercent  = 100
	UnknownTotalSizeTok = "0"
)

// Progress is one sample extracted from the progress meter
type Progress struct {
	Percent   int
	TotalSize string
	ETA       string
	Speed     string
}

// ParseProgress extracts a progress sample from a chunk of executable output.
// It returns false when the chunk is not exactly one progress meter line.
func ParseProgress(text string) (Progress, bool) {
	tokens := strings.Fields(text)
	if len(tokens) != ProgressColumns {
		return Progress{}, false
	}

	percent, err := strconv.ParseUint(tokens[ColumnPercent], 10, 64)
	if err != nil || percent > MaxProgressPercent {
		return Progress{}, false
	}

	return Progress{
		Percent:   int(percent),
		TotalSize: tokens[ColumnTotalSize],
		ETA:       tokens[ColumnTimeLeft],
		Speed:     strings.TrimRight(tokens[ColumnCurrentSpeed], "\r\n"),
	}, true
}

// ResumeTracker infers whether the server honors resume requests by comparing
// the total size reported before and after a progress regression
type ResumeTracker struct {
	knownTotalSize string
	support        model.ResumeSupport
}

// NewResumeTracker returns a tracker restored to a previously inferred value
func NewResumeTracker(support model.ResumeSupport) *ResumeTracker {
	return &ResumeTracker{support: support}
}

// Observe remembers the first known total size
func (r *ResumeTracker) Observe(totalSize string) {
	if r.knownTotalSize == "" && isKnownSize(totalSize) {
		r.knownTotalSize = totalSize
	}
}

// Regressed evaluates a regression sample. Equal sizes mean the server restarted
// the transfer, differing sizes mean it sent the remaining range. Once decided
// the answer never changes.
func (r *ResumeTracker) Regressed(totalSize string) model.ResumeSupport {
	if r.support != model.ResumeUnknown {
		return r.support
	}
	if !isKnownSize(r.knownTotalSize) || !isKnownSize(totalSize) {
		r.Observe(totalSize)
		return r.support
	}
	if totalSize == r.knownTotalSize {
		r.support = model.ResumeNo
	} else {
		r.support = model.ResumeYes
	}
	return r.support
}

// Support returns the current inference
func (r *ResumeTracker) Support() model.ResumeSupport {
	return r.support
}

// KnownTotalSize returns the remembered total size, empty if none seen
func (r *ResumeTracker) KnownTotalSize() string {
	return r.knownTotalSize
}

func isKnownSize(size string) bool {
	return size != "" && size != UnknownTotalSizeTok
}
