package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"gridline/app/fileloader"
)

// Service holds the open workspace: a set of tracked files keyed by
// path plus load options, persisted as YAML.
type Service struct {
	mu    sync.RWMutex
	path  string
	files map[string]*File
	order []string
}

// NewService creates a service with no workspace open.
func NewService() *Service {
	return &Service{
		files: make(map[string]*File),
	}
}

// Create writes an empty workspace file at path and opens it. The
// Extension suffix is appended when missing.
func (s *Service) Create(path string) error {
	if path == "" {
		return errors.New("workspace path is empty")
	}
	if !strings.HasSuffix(path, Extension) {
		path += Extension
	}
	data, err := yaml.Marshal(&Config{Version: configVersion})
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write workspace file: %w", err)
	}
	return s.Open(path)
}

// Open loads a workspace file, replacing any open workspace without
// saving it.
func (s *Service) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read workspace file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse workspace file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
	s.files = make(map[string]*File, len(cfg.Files))
	s.order = s.order[:0]
	for i := range cfg.Files {
		f := cfg.Files[i]
		key := compositeKey(f.Path, f.Options)
		if _, seen := s.files[key]; seen {
			continue
		}
		s.files[key] = &f
		s.order = append(s.order, key)
	}
	return nil
}

// Close forgets the open workspace without saving.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = ""
	s.files = make(map[string]*File)
	s.order = nil
}

// IsOpen reports whether a workspace file is open.
func (s *Service) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path != ""
}

// Path returns the open workspace file path, or "".
func (s *Service) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Name returns the workspace name: the file name without Extension.
func (s *Service) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.path == "" {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(s.path), Extension)
}

// Files returns the tracked files in insertion order.
func (s *Service) Files() []File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]File, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.files[key])
	}
	return out
}

// Lookup finds the entry for a path loaded with the given options.
func (s *Service) Lookup(path string, opts fileloader.Options) (File, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.files[compositeKey(path, opts)]; ok {
		return *f, true
	}
	return File{}, false
}

// Put adds or updates a tracked file. New entries keep insertion order
// so Files round-trips stably through Save and Open.
func (s *Service) Put(file File) {
	key := compositeKey(file.Path, file.Options)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[key]; !ok {
		s.order = append(s.order, key)
	}
	s.files[key] = &file
}

// Remove drops a tracked file, reporting whether it was present.
func (s *Service) Remove(path string, opts fileloader.Options) bool {
	key := compositeKey(path, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[key]; !ok {
		return false
	}
	delete(s.files, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Save writes the current state back to the workspace file.
func (s *Service) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.path == "" {
		return errors.New("no workspace open")
	}

	cfg := Config{Version: configVersion, Files: make([]File, 0, len(s.order))}
	for _, key := range s.order {
		cfg.Files = append(cfg.Files, *s.files[key])
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write workspace file: %w", err)
	}
	return nil
}
