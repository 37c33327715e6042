package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"noisebatch/pkg/batch"
	"noisebatch/pkg/checkpoint"
	"noisebatch/pkg/config"
	"noisebatch/pkg/hydrophone"
	"noisebatch/pkg/logger"
	"noisebatch/pkg/pipeline"
	"noisebatch/pkg/ui"
	"noisebatch/pkg/uploader"
)

var (
	configFile    = flag.String("config", "", "Path to configuration file")
	hydrophoneSel = flag.String("hydrophone", "", "Hydrophone to process (default from config)")
	startFlag     = flag.String("start", "", "Range start (RFC 3339 or YYYY-MM-DDTHH:MM in the configured timezone); default resumes from the checkpoint")
	endFlag       = flag.String("end", "", "Range end (same formats as -start); default is now")
	lookback      = flag.Duration("lookback", 0, "How far behind now a first run starts (overrides config)")
	upload        = flag.Bool("upload", false, "Publish generated artifacts to S3")
	uploadBucket  = flag.String("upload-bucket", "", "S3 bucket for published artifacts")
	dataDir       = flag.String("data-dir", "", "Local root for partition folders")
	checkpointDir = flag.String("checkpoint-dir", "", "Directory holding per-source checkpoint files")
	logLevel      = flag.String("log-level", "", "Log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	if flag.NArg() > 1 {
		ui.PrintError("Usage: noisebatch [flags] [hydrophone]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	flags := make(map[string]interface{})
	if *hydrophoneSel != "" {
		flags["hydrophone"] = *hydrophoneSel
	}
	if flag.NArg() == 1 {
		flags["hydrophone"] = flag.Arg(0)
	}
	if *lookback > 0 {
		flags["lookback"] = *lookback
	}
	if *upload {
		flags["upload"] = true
	}
	if *uploadBucket != "" {
		flags["upload-bucket"] = *uploadBucket
	}
	if *dataDir != "" {
		flags["data-dir"] = *dataDir
	}
	if *checkpointDir != "" {
		flags["checkpoint-dir"] = *checkpointDir
	}
	if *logLevel != "" {
		flags["log-level"] = *logLevel
	}

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logging", err.Error())
		os.Exit(1)
	}

	// Resolve the source selector before anything else runs; an unknown
	// hydrophone is a usage error, not a processing failure.
	h, err := hydrophone.Parse(cfg.Hydrophone.Default)
	if err != nil {
		ui.PrintError("Invalid hydrophone selector", err.Error())
		flag.PrintDefaults()
		os.Exit(2)
	}

	loc, err := cfg.Batch.Location()
	if err != nil {
		ui.PrintError("Invalid timezone", err.Error())
		os.Exit(1)
	}

	opts := batch.RunOptions{}
	if opts.Start, err = parseTimeFlag(*startFlag, loc); err != nil {
		ui.PrintError("Invalid -start", err.Error())
		os.Exit(2)
	}
	if opts.End, err = parseTimeFlag(*endFlag, loc); err != nil {
		ui.PrintError("Invalid -end", err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := checkpoint.NewStore(cfg.Batch.CheckpointDirectory)
	if err != nil {
		ui.PrintError("Failed to open checkpoint store", err.Error())
		os.Exit(1)
	}

	var up uploader.Uploader
	if cfg.Upload.Enabled {
		s3up, err := uploader.NewS3Uploader(ctx, &cfg.Upload)
		if err != nil {
			ui.PrintError("Failed to initialize uploader", err.Error())
			os.Exit(1)
		}
		up = s3up
	}

	controller, err := batch.NewController(cfg, store, pipeline.NewCommandPipeline(&cfg.Pipeline), up)
	if err != nil {
		ui.PrintError("Failed to initialize controller", err.Error())
		os.Exit(1)
	}

	log := logger.WithField("hydrophone", h.ID)
	log.Info("Starting noise batch run")

	summary, err := controller.Run(ctx, h, opts)
	if err != nil {
		log.WithError(err).Error("Batch run failed")
		ui.PrintError("Batch run failed", err.Error())
		os.Exit(1)
	}

	ui.PrintSummary(summary.Source, summary.Range, summary.Partitions, len(summary.Artifacts), summary.Uploaded)
	log.Info("Batch run completed")
	ui.PrintSuccess("Batch run completed")
}

// parseTimeFlag accepts RFC 3339 or a local wall-clock time in loc
func parseTimeFlag(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", value, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}
