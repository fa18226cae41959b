package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore persists artifacts below a root directory.
//
// Layout: <root>/<runID>/<artifactID>
type FileStore struct {
	root string
	mu   sync.Mutex
}

// NewFileStore creates the root directory if needed and returns a store
// rooted there.
func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("artifact: empty root directory")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create root %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

// Root returns the store's root directory.
func (f *FileStore) Root() string { return f.root }

// RunDir returns the directory holding the artifacts of runID.
func (f *FileStore) RunDir(runID string) string { return filepath.Join(f.root, runID) }

// Save writes the artifact, replacing an existing one atomically.
func (f *FileStore) Save(runID, artifactID string, data []byte) error {
	if err := validateIDs(runID, artifactID); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := f.RunDir(runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("artifact: create run dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+artifactID+".*")
	if err != nil {
		return fmt.Errorf("artifact: save %s/%s: %w", runID, artifactID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("artifact: save %s/%s: %w", runID, artifactID, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("artifact: save %s/%s: %w", runID, artifactID, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, artifactID)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("artifact: save %s/%s: %w", runID, artifactID, err)
	}
	return nil
}

// Get reads the artifact or returns ErrNotFound.
func (f *FileStore) Get(runID, artifactID string) ([]byte, error) {
	if err := validateIDs(runID, artifactID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(f.RunDir(runID), artifactID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("artifact: get %s/%s: %w", runID, artifactID, err)
	}
	return data, nil
}

// List returns the sorted artifact ids of the run. Unknown runs yield an
// empty list.
func (f *FileStore) List(runID string) ([]string, error) {
	if err := validateID(runID); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(f.RunDir(runID))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("artifact: list %s: %w", runID, err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the artifact or returns ErrNotFound.
func (f *FileStore) Delete(runID, artifactID string) error {
	if err := validateIDs(runID, artifactID); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(f.RunDir(runID), artifactID))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("artifact: delete %s/%s: %w", runID, artifactID, err)
	}
	return nil
}

func validateIDs(runID, artifactID string) error {
	if err := validateID(runID); err != nil {
		return err
	}
	return validateID(artifactID)
}

func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
