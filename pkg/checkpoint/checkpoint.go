package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"noisebatch/pkg/errors"
	"noisebatch/pkg/logger"
)

// Checkpoint records how far processing has progressed for one source
type Checkpoint struct {
	// Source is the hydrophone identifier the record belongs to
	Source string `json:"source"`
	// LastProcessed marks the inclusive end of previously completed work.
	// Serialized as RFC 3339 with UTC offset so the value round-trips with
	// its timezone intact.
	LastProcessed time.Time `json:"last_processed"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store persists one checkpoint file per source under a common directory.
// It keeps no in-memory cache; every Load hits the filesystem.
type Store struct {
	dir    string
	logger logger.Logger
}

// NewStore creates a checkpoint store rooted at dir
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.GetLogger(),
	}, nil
}

func (s *Store) path(source string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.checkpoint.json", source))
}

// Load reads the checkpoint for source. A missing file is the recognized
// "never processed" state and returns (nil, nil); any other read or decode
// failure surfaces as a checkpoint_read error.
func (s *Store) Load(source string) (*Checkpoint, error) {
	file, err := os.Open(s.path(source))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrorTypeCheckpointRead, "failed to open checkpoint file", err)
	}
	defer file.Close()

	var cp Checkpoint
	if err := json.NewDecoder(file).Decode(&cp); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeCheckpointRead, "failed to decode checkpoint", err)
	}

	s.logger.DebugWithFields("Checkpoint loaded", map[string]interface{}{
		"source":         source,
		"last_processed": cp.LastProcessed,
		"updated_at":     cp.UpdatedAt,
	})

	return &cp, nil
}

// Update durably persists t as the new last-processed value for source.
// The write goes through a temporary file, fsync, and rename so a reader
// never observes a partially written record.
func (s *Store) Update(source string, t time.Time) error {
	cp := Checkpoint{
		Source:        source,
		LastProcessed: t,
		UpdatedAt:     time.Now(),
	}

	tempPath := s.path(source) + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeCheckpointWrite, "failed to create temporary checkpoint file", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&cp); err != nil {
		file.Close()
		os.Remove(tempPath)
		return errors.Wrap(errors.ErrorTypeCheckpointWrite, "failed to encode checkpoint", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return errors.Wrap(errors.ErrorTypeCheckpointWrite, "failed to sync checkpoint file", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Wrap(errors.ErrorTypeCheckpointWrite, "failed to close checkpoint file", err)
	}

	if err := os.Rename(tempPath, s.path(source)); err != nil {
		os.Remove(tempPath)
		return errors.Wrap(errors.ErrorTypeCheckpointWrite, "failed to replace checkpoint file", err)
	}

	s.logger.DebugWithFields("Checkpoint updated", map[string]interface{}{
		"source":         source,
		"last_processed": t,
	})

	return nil
}

// Exists checks if a checkpoint file exists for source
func (s *Store) Exists(source string) bool {
	_, err := os.Stat(s.path(source))
	return err == nil
}
