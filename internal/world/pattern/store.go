package pattern

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"chosenoffset.com/gloam/internal/world/scene"
)

// TilePattern is the default obstacle layout for one tile type.
type TilePattern struct {
	Rects      []scene.Blocker `json:"rects"`
	ApplyAfter int64           `json:"applyAfter"`
}

// Data is the serialized form of the repository.
type Data struct {
	Defaults  map[string]TilePattern     `json:"defaults"`
	Overrides map[string][]scene.Blocker `json:"overrides"`
}

// Store is an injectable persistence backend for pattern data. The
// repository only ever reads and writes the whole structure.
type Store interface {
	Load() (Data, error)
	Save(Data) error
}

// FileStore persists pattern data as JSON on disk.
type FileStore struct {
	Path string
}

// NewFileStore creates a store backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the pattern file. A missing file is not an error: editing
// starts from an empty repository.
func (s *FileStore) Load() (Data, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Data{}, nil
		}
		return Data{}, fmt.Errorf("failed to read pattern file: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("failed to parse pattern file: %w", err)
	}
	return data, nil
}

// Save writes the pattern file, replacing any previous contents.
func (s *FileStore) Save(data Data) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pattern data: %w", err)
	}
	if err := os.WriteFile(s.Path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write pattern file: %w", err)
	}
	return nil
}

// MemoryStore keeps pattern data in memory. Used in tests and by embedders
// that persist through their own channel.
type MemoryStore struct {
	mu    sync.Mutex
	data  Data
	saves int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the last saved data.
func (s *MemoryStore) Load() (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, nil
}

// Save replaces the stored data.
func (s *MemoryStore) Save(data Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.saves++
	return nil
}

// SaveCount reports how many times Save has been called.
func (s *MemoryStore) SaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
