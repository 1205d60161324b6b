package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// jsonFile persists a single collection as one JSON document on disk.
// A mutex serializes every read-modify-write cycle on the collection, so
// concurrent requests never interleave a load with a save. Writes go to a
// temporary file in the same directory and are moved into place with a
// rename, so a crash mid-write leaves the previous document intact.
type jsonFile struct {
	mu   sync.Mutex
	path string
}

// newJSONFile prepares the backing file for a collection, creating the
// data directory if needed. The file itself is created lazily on first
// write; a missing file reads as an empty collection.
func newJSONFile(dir, name string) (*jsonFile, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &jsonFile{path: filepath.Join(dir, name)}, nil
}

// load decodes the document into v. The caller must hold the mutex.
// A missing file leaves v untouched.
func (f *jsonFile) load(v interface{}) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", f.path, err)
	}
	return nil
}

// persist writes v atomically. The caller must hold the mutex.
func (f *jsonFile) persist(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", f.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", f.path, err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}
