package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"noisebatch/pkg/config"
	"noisebatch/pkg/errors"
	"noisebatch/pkg/logger"
)

// CommandPipeline runs the external analysis binary once per request and
// parses the JSON result it prints on stdout.
type CommandPipeline struct {
	binary  string
	timeout time.Duration
	logger  logger.Logger
}

// NewCommandPipeline creates a pipeline adapter from the pipeline config
func NewCommandPipeline(cfg *config.PipelineConfig) *CommandPipeline {
	return &CommandPipeline{
		binary:  cfg.Binary,
		timeout: cfg.Timeout,
		logger:  logger.GetLogger(),
	}
}

// Generate invokes the analysis tool for one partition. Any tool failure,
// malformed output, or missing artifact path surfaces as a pipeline error.
func (p *CommandPipeline) Generate(ctx context.Context, req Request) (Result, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := buildArgs(req)
	p.logger.DebugWithFields("Invoking analysis pipeline", map[string]interface{}{
		"source": req.Source,
		"binary": p.binary,
		"start":  req.Range.Start,
		"end":    req.Range.End,
	})

	cmd := exec.CommandContext(ctx, p.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return Result{}, errors.Wrap(errors.ErrorTypePipeline,
			fmt.Sprintf("analysis tool failed for %s %s: %s", req.Source, req.Range, stderr.String()), err)
	}

	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return Result{}, errors.Wrap(errors.ErrorTypePipeline, "failed to decode analysis tool output", err)
	}
	if result.PSDPath == "" || result.BroadbandPath == "" {
		return Result{}, errors.New(errors.ErrorTypePipeline,
			fmt.Sprintf("analysis tool returned incomplete artifact paths for %s %s", req.Source, req.Range))
	}

	p.logger.InfoWithFields("Analysis pipeline completed", map[string]interface{}{
		"source":    req.Source,
		"psd":       result.PSDPath,
		"broadband": result.BroadbandPath,
		"duration":  time.Since(start),
	})

	return result, nil
}
