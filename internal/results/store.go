// Package results keeps the catalog record of every successful lookup on
// disk, one indented JSON file per submitted ISBN.
package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/semg6/personal-library/internal/catalog"
)

// Extension is appended to every stored record.
const Extension = ".json"

var (
	ErrNotFound    = errors.New("stored record not found")
	ErrInvalidName = errors.New("invalid record name")
)

type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// FileName returns the artifact name used for an ISBN.
func FileName(isbn string) string {
	return isbn + Extension
}

// Save writes record to {Dir}/{isbn}.json, replacing an earlier lookup of
// the same ISBN. The directory is created on demand.
func (s *Store) Save(isbn string, record *catalog.VolumeRecord) (string, error) {
	name := FileName(isbn)
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	// Write via temp file so readers never see a partial record.
	tmp, err := os.CreateTemp(s.Dir, ".record-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(s.Dir, name)); err != nil {
		return "", fmt.Errorf("failed to store record: %w", err)
	}
	return name, nil
}

// CheckWritable creates the directory when missing and verifies a record
// could be written to it.
func (s *Store) CheckWritable() error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	tmp, err := os.CreateTemp(s.Dir, ".check-*.tmp")
	if err != nil {
		return fmt.Errorf("results directory is not writable: %w", err)
	}
	tmp.Close()
	return os.Remove(tmp.Name())
}

// Path resolves a stored artifact by file name. Names containing path
// separators or parent references are refused.
func (s *Store) Path(name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := filepath.Join(s.Dir, name)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a stored record by file name.
func (s *Store) Load(name string) (*catalog.VolumeRecord, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record catalog.VolumeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return &record, nil
}

// List returns the names of all stored records, sorted. A missing directory
// is an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !validName(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func validName(name string) bool {
	if name == "" || name == Extension || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return strings.HasSuffix(name, Extension)
}
