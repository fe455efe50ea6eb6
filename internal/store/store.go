// Package store persists the descriptors of unfinished downloads so they can
// be re-added after a restart.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ytget/curl-downloader/internal/model"
)

// Snapshot file defaults
const (
	DefaultFileName = "pending.yaml"
	SnapshotVersion = 1
	filePermissions = 0o644
	dirPermissions  = 0o755
)

// Snapshot is the on-disk document
type Snapshot struct {
	Version int                    `yaml:"version"`
	Items   []model.ItemDescriptor `yaml:"items"`
}

// FileStore keeps the snapshot in one YAML file
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot file path
func (s *FileStore) Path() string {
	return s.path
}

// Save replaces the snapshot with items. The file is written to a temporary
// sibling first and renamed over the old one.
func (s *FileStore) Save(items []model.ItemDescriptor) error {
	if items == nil {
		items = []model.ItemDescriptor{}
	}
	data, err := yaml.Marshal(Snapshot{Version: SnapshotVersion, Items: items})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirPermissions); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load returns the saved items. A missing file yields no items and no error.
func (s *FileStore) Load() ([]model.ItemDescriptor, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", s.path, err)
	}
	if snapshot.Version > SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}

	for i := range snapshot.Items {
		snapshot.Items[i].Normalize()
	}
	return snapshot.Items, nil
}
