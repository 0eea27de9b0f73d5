package fl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var _ WeightsStore = (*FileStore)(nil)

// FileStore reads and writes weight sets as JSON arrays of nested arrays,
// one entry per layer.
type FileStore struct {
	mu sync.RWMutex
}

func NewFileStore() *FileStore {
	return &FileStore{}
}

func (s *FileStore) ReadWeights(path string) (WeightSet, error) {
	if filepath.Ext(path) != weightsExt {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, path)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read weights file: %w", ErrUnreadableArtifact, err)
	}

	var ws WeightSet
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal weights: %w", ErrUnreadableArtifact, err)
	}

	return ws, nil
}

func (s *FileStore) WriteWeights(w WeightSet, path string) error {
	if filepath.Ext(path) != weightsExt {
		return fmt.Errorf("%w: %s", ErrUnsupportedExtension, path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(w, "", " ")
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}

	return WriteFileAtomic(path, data)
}

// WriteJSON marshals v with indentation and writes it to path.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to a hidden temporary file in the destination
// directory and renames it into place, so watchers only ever observe
// complete files. Missing parent directories are created.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	// Removing after a successful rename is a no-op.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename into %s: %w", path, err)
	}

	return nil
}
