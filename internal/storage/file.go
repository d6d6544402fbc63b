package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File keeps all keys in one human-readable JSON object. Every call reads
// the file again so a second process (e.g. status --watch) sees changes.
type File struct {
	path string
}

// OpenFile returns a File store at path, creating its directory.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating directories: %w", err)
	}
	return &File{path: path}, nil
}

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", f.path, err)
	}

	kv := map[string]string{}
	if err := json.Unmarshal(data, &kv); err != nil {
		// Back up corrupt file and abort.
		backupPath := f.path + ".corrupt"
		_ = os.Rename(f.path, backupPath)
		return nil, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", f.path, backupPath, err)
	}
	return kv, nil
}

// save atomically writes kv: temp file first, then rename.
func (f *File) save(kv map[string]string) error {
	data, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

func (f *File) Get(key string) (string, bool, error) {
	kv, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := kv[key]
	return v, ok, nil
}

func (f *File) Set(key, value string) error {
	kv, err := f.load()
	if err != nil {
		return err
	}
	kv[key] = value
	return f.save(kv)
}

func (f *File) Remove(key string) error {
	kv, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := kv[key]; !ok {
		return nil
	}
	delete(kv, key)
	return f.save(kv)
}

func (f *File) Clear() error {
	return f.save(map[string]string{})
}

func (f *File) Close() error { return nil }
