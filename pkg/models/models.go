package models

import (
	"fmt"
	"time"
)

// TimeRange is a half-open interval [Start, End) in a timezone-aware clock
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the range
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Date returns the local calendar date the range starts on, formatted
// YYYY-MM-DD. Partition ranges never span a local midnight, so their start
// date addresses the whole partition.
func (r TimeRange) Date() string {
	return r.Start.Format("2006-01-02")
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// Resolution describes the spectral and temporal granularity of the derived
// acoustic levels.
type Resolution struct {
	// DeltaF is the frequency bin width in Hz
	DeltaF int `yaml:"delta_f" json:"delta_f"`
	// DeltaT is the sample aggregation window in seconds
	DeltaT int `yaml:"delta_t" json:"delta_t"`
	// Bands is the number of octave subdivisions; 0 selects linear Hz bands
	Bands int `yaml:"bands" json:"bands,omitempty"`
}

func (r Resolution) String() string {
	if r.Bands > 0 {
		return fmt.Sprintf("%doct_%ds", r.Bands, r.DeltaT)
	}
	return fmt.Sprintf("%dhz_%ds", r.DeltaF, r.DeltaT)
}

// ArtifactKind distinguishes the two outputs a partition run produces
type ArtifactKind string

const (
	KindPSD       ArtifactKind = "psd"
	KindBroadband ArtifactKind = "broadband"
)

// Artifact is a produced output file plus the metadata needed to address its
// storage destination.
type Artifact struct {
	Kind       ArtifactKind `json:"kind"`
	Path       string       `json:"path"`
	Source     string       `json:"source"`
	Date       string       `json:"date"`
	Range      TimeRange    `json:"-"`
	Resolution Resolution   `json:"resolution"`
}
