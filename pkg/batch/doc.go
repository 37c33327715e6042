// Package batch orchestrates resumable noise-analysis runs over hydrophone audio.
//
// The Controller is the main component. For one run it:
//   - Loads the source's checkpoint to find where the last run stopped
//   - Computes the effective time range (explicit flags, checkpoint, or a
//     lookback window behind now)
//   - Splits the range into day partitions at local midnights
//   - Runs the analysis pipeline over each partition in order, writing
//     artifacts into hydrophone=<source>/date=<YYYY-MM-DD>/ folders
//   - Optionally publishes each artifact to object storage
//   - Advances the checkpoint after every completed partition
//
// Partitions are processed strictly sequentially. A partition failure stops
// the run with the checkpoint still at the end of the last completed
// partition, so the next invocation picks up exactly there.
//
// Usage:
//
//	store, _ := checkpoint.NewStore(cfg.Batch.CheckpointDirectory)
//	pipe := pipeline.NewCommandPipeline(&cfg.Pipeline)
//
//	controller, err := batch.NewController(cfg, store, pipe, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := controller.Run(ctx, hydrophone.BushPoint, batch.RunOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Checkpoint advancement is monotonic: re-running an explicit historical range
// regenerates those partitions but never moves the checkpoint backwards.
package batch
