// Package pipeline is the boundary to the external noise-analysis tool that
// converts raw hydrophone audio within a time range into PSD and broadband
// level artifacts. The signal processing itself lives outside this program;
// this package only invokes it and interprets its results.
package pipeline

import (
	"context"
	"strconv"
	"time"

	"noisebatch/pkg/models"
)

// Request describes one partition's processing job
type Request struct {
	// Source is the resolved hydrophone identifier
	Source string
	// Node is the feed node name the tool reads raw audio from
	Node string
	// Resolution selects spectral and temporal granularity
	Resolution models.Resolution
	// Mode selects the tool's processing mode
	Mode string
	// Range is the partition's half-open time interval
	Range models.TimeRange
	// Destination is the local folder the artifacts are written into
	Destination string
}

// Result carries the locations of the two artifacts a run produces
type Result struct {
	PSDPath       string `json:"psd_path"`
	BroadbandPath string `json:"broadband_path"`
}

// Pipeline generates acoustic-level artifacts for a time range
type Pipeline interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// buildArgs translates a request into the analysis tool's CLI arguments
func buildArgs(req Request) []string {
	args := []string{
		"generate",
		"--node", req.Node,
		"--start", req.Range.Start.Format(time.RFC3339),
		"--end", req.Range.End.Format(time.RFC3339),
		"--delta-t", strconv.Itoa(req.Resolution.DeltaT),
		"--output-dir", req.Destination,
		"--format", "json",
	}
	if req.Resolution.Bands > 0 {
		args = append(args, "--bands", strconv.Itoa(req.Resolution.Bands))
	} else {
		args = append(args, "--delta-f", strconv.Itoa(req.Resolution.DeltaF))
	}
	if req.Mode != "" {
		args = append(args, "--mode", req.Mode)
	}
	return args
}
