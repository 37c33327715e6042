package batch

import (
	"context"
	"time"

	"noisebatch/pkg/config"
	"noisebatch/pkg/errors"
	"noisebatch/pkg/hydrophone"
	"noisebatch/pkg/logger"
	"noisebatch/pkg/models"
	"noisebatch/pkg/partition"
	"noisebatch/pkg/pipeline"
	"noisebatch/pkg/storage"
	"noisebatch/pkg/uploader"
)

// Controller orchestrates one source's batch run. Partitions are processed
// strictly in order with no concurrency: the checkpoint may only ever reflect
// contiguous, gap-free progress, so partition i+1 must not start before
// partition i has fully completed.
type Controller struct {
	cfg      *config.Config
	store    CheckpointStore
	pipeline pipeline.Pipeline
	uploader uploader.Uploader
	storage  *storage.Manager
	loc      *time.Location
	logger   logger.Logger

	// now is replaceable in tests
	now func() time.Time
}

// RunOptions overrides the effective range for one run. Zero values select
// the defaults: resume from the checkpoint (or now minus the configured
// lookback on a first run) through now.
type RunOptions struct {
	Start time.Time
	End   time.Time
}

// Summary reports what a completed or partially completed run did
type Summary struct {
	Source     string
	Range      models.TimeRange
	Partitions int
	Artifacts  []models.Artifact
	Uploaded   int
}

// NewController wires a controller from its collaborators. up may be nil when
// uploading is disabled.
func NewController(cfg *config.Config, store CheckpointStore, pipe pipeline.Pipeline, up uploader.Uploader) (*Controller, error) {
	loc, err := cfg.Batch.Location()
	if err != nil {
		return nil, err
	}

	storageManager, err := storage.NewManager(cfg.Batch.DataDirectory)
	if err != nil {
		return nil, err
	}

	return &Controller{
		cfg:      cfg,
		store:    store,
		pipeline: pipe,
		uploader: up,
		storage:  storageManager,
		loc:      loc,
		logger:   logger.GetLogger(),
		now:      time.Now,
	}, nil
}

// Run processes the effective range for one hydrophone. It stops at the first
// failing partition without advancing past it; the returned summary covers
// the prefix that completed. A run whose effective range is empty is a
// successful no-op.
func (c *Controller) Run(ctx context.Context, h hydrophone.Hydrophone, opts RunOptions) (*Summary, error) {
	cp, err := c.store.Load(h.ID)
	if err != nil {
		return nil, err
	}

	now := c.now().In(c.loc)

	effectiveStart := opts.Start
	if effectiveStart.IsZero() {
		if cp != nil {
			effectiveStart = cp.LastProcessed
		} else {
			effectiveStart = now.Add(-c.cfg.Batch.DefaultLookback)
		}
	}
	effectiveEnd := opts.End
	if effectiveEnd.IsZero() {
		effectiveEnd = now
	}

	summary := &Summary{
		Source: h.ID,
		Range:  models.TimeRange{Start: effectiveStart, End: effectiveEnd},
	}

	if !effectiveEnd.After(effectiveStart) {
		c.logger.InfoWithFields("Nothing to process", map[string]interface{}{
			"source": h.ID,
			"start":  effectiveStart,
			"end":    effectiveEnd,
		})
		return summary, nil
	}

	partitions, err := partition.Plan(effectiveStart, effectiveEnd, c.loc)
	if err != nil {
		return nil, err
	}

	c.logger.InfoWithFields("Starting batch run", map[string]interface{}{
		"source":     h.ID,
		"start":      effectiveStart,
		"end":        effectiveEnd,
		"partitions": len(partitions),
		"resume":     cp != nil,
	})

	// Never let the checkpoint regress, even when an explicit range lies
	// behind an already recorded position.
	watermark := time.Time{}
	if cp != nil {
		watermark = cp.LastProcessed
	}
	advance := func(t time.Time) error {
		if !watermark.IsZero() && !t.After(watermark) {
			return nil
		}
		if err := c.store.Update(h.ID, t); err != nil {
			return err
		}
		watermark = t
		return nil
	}

	for i, part := range partitions {
		if err := c.processPartition(ctx, h, part, summary); err != nil {
			c.logger.ErrorWithFields("Batch run aborted", map[string]interface{}{
				"source":    h.ID,
				"partition": i + 1,
				"of":        len(partitions),
				"start":     part.Start,
				"end":       part.End,
				"error":     err.Error(),
			})
			return summary, err
		}

		if err := advance(part.End); err != nil {
			return summary, err
		}
		summary.Partitions++
	}

	// Idempotent with the last per-partition advance when the final
	// partition ends at the effective end.
	if err := advance(effectiveEnd); err != nil {
		return summary, err
	}

	c.logger.InfoWithFields("Batch run completed", map[string]interface{}{
		"source":     h.ID,
		"partitions": summary.Partitions,
		"artifacts":  len(summary.Artifacts),
		"uploaded":   summary.Uploaded,
	})

	return summary, nil
}

// processPartition runs the pipeline for one partition and, if configured,
// publishes both artifacts. The checkpoint is untouched here; the caller
// advances it only after this returns nil.
func (c *Controller) processPartition(ctx context.Context, h hydrophone.Hydrophone, part models.TimeRange, summary *Summary) error {
	date := part.Date()
	dest, err := c.storage.EnsurePartitionDir(h.ID, date)
	if err != nil {
		return errors.Wrap(errors.ErrorTypePipeline, "failed to prepare partition directory", err)
	}

	result, err := c.pipeline.Generate(ctx, pipeline.Request{
		Source:      h.ID,
		Node:        h.Node,
		Resolution:  c.cfg.Resolution,
		Mode:        c.cfg.Pipeline.Mode,
		Range:       part,
		Destination: dest,
	})
	if err != nil {
		return err
	}

	artifacts := []models.Artifact{
		{Kind: models.KindPSD, Path: result.PSDPath, Source: h.ID, Date: date, Range: part, Resolution: c.cfg.Resolution},
		{Kind: models.KindBroadband, Path: result.BroadbandPath, Source: h.ID, Date: date, Range: part, Resolution: c.cfg.Resolution},
	}

	manifest := &storage.Manifest{
		Source:      h.ID,
		Date:        date,
		RangeStart:  part.Start,
		RangeEnd:    part.End,
		Resolution:  c.cfg.Resolution,
		Artifacts:   artifacts,
		GeneratedAt: c.now(),
	}
	if err := c.storage.WriteManifest(manifest); err != nil {
		// The manifest is an inventory aid, not the progress record
		c.logger.WithError(err).Warn("Failed to write partition manifest")
	}

	if c.uploader != nil {
		for _, artifact := range artifacts {
			if err := c.uploader.Publish(ctx, artifact); err != nil {
				return err
			}
			summary.Uploaded++
		}
	}

	summary.Artifacts = append(summary.Artifacts, artifacts...)
	return nil
}
