// Package checkpoint provides durable resume state for batch runs.
//
// Each hydrophone source has its own checkpoint file tracking the end of the
// last fully processed time range. A run that is interrupted or fails resumes
// from this watermark on its next invocation, so no partition is skipped and
// completed work is not repeated beyond the partition that failed.
//
// Checkpoint files live in the configured checkpoint directory, one JSON file
// per source:
//   - <checkpoint-dir>/bush_point.checkpoint.json
//   - <checkpoint-dir>/orcasound_lab.checkpoint.json
//
// Updates are written atomically (temp file, fsync, rename) so a crash mid-save
// leaves the previous checkpoint intact rather than a truncated file. Loading a
// source with no checkpoint file returns nil without error; the caller treats
// that as a first run.
package checkpoint
