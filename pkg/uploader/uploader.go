// Package uploader publishes generated artifacts to remote storage. Network
// retry policy lives here, never in the batch controller: the controller sees
// a single Publish call that either definitively succeeded or failed.
package uploader

import (
	"context"
	"path"
	"path/filepath"

	"noisebatch/pkg/config"
	"noisebatch/pkg/models"
)

// Uploader publishes one artifact to remote storage
type Uploader interface {
	Publish(ctx context.Context, artifact models.Artifact) error
}

// BuildKey derives the remote object key for an artifact. The layout is
// <kind-prefix>/hydrophone=<source>/date=<YYYY-MM-DD>/<filename> and must not
// change; downstream consumers address artifacts by this convention.
func BuildKey(cfg *config.UploadConfig, artifact models.Artifact) string {
	return path.Join(
		cfg.PrefixFor(artifact.Kind),
		"hydrophone="+artifact.Source,
		"date="+artifact.Date,
		filepath.Base(artifact.Path),
	)
}
