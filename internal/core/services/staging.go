package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// StagedFile is a binary waiting for the record's next submission.
type StagedFile struct {
	Filename string // original name, forwarded to the uploader
	Path     string // location in the staging dir
}

// StagingStore holds staged upload files, one slot per record key. Staging a
// new file removes the slot's previous file immediately, and Close removes
// everything, so repeated edit sessions cannot accumulate orphaned files.
type StagingStore struct {
	dir   string
	mu    sync.Mutex
	slots map[string]StagedFile
}

// NewStagingStore creates the staging directory if needed.
func NewStagingStore(dir string) (*StagingStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging dir: %w", err)
	}
	return &StagingStore{dir: dir, slots: make(map[string]StagedFile)}, nil
}

// Stage writes content into the slot for key, superseding any earlier file.
func (s *StagingStore) Stage(key, filename string, content io.Reader) error {
	path := filepath.Join(s.dir, uuid.NewString())
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating staged file: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("writing staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing staged file: %w", err)
	}

	s.mu.Lock()
	prev, had := s.slots[key]
	s.slots[key] = StagedFile{Filename: filename, Path: path}
	s.mu.Unlock()

	if had {
		os.Remove(prev.Path)
	}
	return nil
}

// Peek returns the staged file for key without consuming it.
func (s *StagingStore) Peek(key string) (StagedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sf, ok := s.slots[key]
	return sf, ok
}

// Open opens the staged file for key for reading.
func (s *StagingStore) Open(key string) (io.ReadCloser, StagedFile, error) {
	sf, ok := s.Peek(key)
	if !ok {
		return nil, StagedFile{}, os.ErrNotExist
	}
	f, err := os.Open(sf.Path)
	if err != nil {
		return nil, StagedFile{}, err
	}
	return f, sf, nil
}

// Clear removes the slot for key and its file.
func (s *StagingStore) Clear(key string) {
	s.mu.Lock()
	sf, ok := s.slots[key]
	delete(s.slots, key)
	s.mu.Unlock()
	if ok {
		os.Remove(sf.Path)
	}
}

// Close removes every staged file.
func (s *StagingStore) Close() {
	s.mu.Lock()
	slots := s.slots
	s.slots = make(map[string]StagedFile)
	s.mu.Unlock()
	for _, sf := range slots {
		os.Remove(sf.Path)
	}
}
