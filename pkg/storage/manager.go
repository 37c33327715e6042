package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"noisebatch/pkg/models"
)

// Manager handles the local artifact folder layout. Partition folders are a
// function of source identity and local date only, never time-of-day, so a
// re-run over an already-processed date lands in the same place and can
// safely overwrite equivalent content.
type Manager struct {
	baseDir string
}

// NewManager creates a storage manager rooted at baseDir
func NewManager(baseDir string) (*Manager, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Manager{baseDir: baseDir}, nil
}

// PartitionDir returns the folder path for one source and local date:
// <base>/hydrophone=<source>/date=<YYYY-MM-DD>/
func (m *Manager) PartitionDir(source, date string) string {
	return filepath.Join(m.baseDir, fmt.Sprintf("hydrophone=%s", source), fmt.Sprintf("date=%s", date))
}

// EnsurePartitionDir creates the partition folder if needed and returns it
func (m *Manager) EnsurePartitionDir(source, date string) (string, error) {
	dir := m.PartitionDir(source, date)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create partition directory: %w", err)
	}
	return dir, nil
}

// Manifest inventories the artifacts one partition run produced
type Manifest struct {
	Source      string            `json:"source"`
	Date        string            `json:"date"`
	RangeStart  time.Time         `json:"range_start"`
	RangeEnd    time.Time         `json:"range_end"`
	Resolution  models.Resolution `json:"resolution"`
	Artifacts   []models.Artifact `json:"artifacts"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// WriteManifest saves the partition manifest as manifest.json inside the
// partition folder, replacing any manifest from a previous run over the
// same date.
func (m *Manager) WriteManifest(manifest *Manifest) error {
	dir, err := m.EnsurePartitionDir(manifest.Source, manifest.Date)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// ReadManifest loads the manifest for one source and date, or (nil, nil)
// when the partition has never been processed.
func (m *Manager) ReadManifest(source, date string) (*Manifest, error) {
	path := filepath.Join(m.PartitionDir(source, date), "manifest.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &manifest, nil
}
