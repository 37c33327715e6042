package batch

import (
	"time"

	"noisebatch/pkg/checkpoint"
)

// CheckpointStore is the durable progress record the controller reads and
// advances. *checkpoint.Store satisfies it.
type CheckpointStore interface {
	// Load returns the checkpoint for source, or (nil, nil) when the source
	// has never been processed
	Load(source string) (*checkpoint.Checkpoint, error)
	// Update durably persists t as the new last-processed value
	Update(source string, t time.Time) error
}
