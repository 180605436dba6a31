package adapter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

// ManifestStore persists the build manifest between runs.
type ManifestStore interface {
	SaveManifest(path m.Path, manifest m.Manifest) error
	LoadManifest(path m.Path) (m.Manifest, error)
}

// LocalManifestStore stores the manifest as a YAML file on disk.
type LocalManifestStore struct{}

// NewLocalManifestStore constructs a LocalManifestStore.
func NewLocalManifestStore() *LocalManifestStore {
	return &LocalManifestStore{}
}

// SaveManifest writes the manifest to path as YAML.
func (s *LocalManifestStore) SaveManifest(path m.Path, manifest m.Manifest) error {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}

	return nil
}

// LoadManifest reads a YAML manifest from path. A missing file yields an
// empty manifest rather than an error.
func (s *LocalManifestStore) LoadManifest(path m.Path) (m.Manifest, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		if os.IsNotExist(err) {
			return m.Manifest{}, nil
		}

		return m.Manifest{}, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var manifest m.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return m.Manifest{}, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}

	return manifest, nil
}
