package catalog

import (
	"fmt"
	"os"
	"sync"

	"abilityctl/internal/api"
	"abilityctl/pkg/logging"

	"gopkg.in/yaml.v3"
)

// ParseDocument decodes a YAML or JSON catalog and validates it.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", api.ErrInvalidDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, fmt.Errorf("%w: %w", api.ErrInvalidDocument, err)
	}
	return doc, nil
}

// FileStore serves a catalog read from a YAML file.
type FileStore struct {
	*MemoryStore

	mu   sync.Mutex
	path string
}

// NewFileStore loads the catalog at path.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{MemoryStore: &MemoryStore{}, path: path}
	if err := fs.Reload(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Reload re-reads the file. On error the previous catalog stays served.
func (fs *FileStore) Reload() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		return fmt.Errorf("failed to read catalog %s: %w", fs.path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return fmt.Errorf("failed to load catalog %s: %w", fs.path, err)
	}
	if err := fs.Replace(doc); err != nil {
		return err
	}
	logging.Info("Catalog", "Loaded %d abilities and %d executors from %s", len(doc.Abilities), len(doc.Executors), fs.path)
	return nil
}

// Save writes doc to the file and serves it.
func (fs *FileStore) Save(doc Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", api.ErrInvalidDocument, err)
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := os.WriteFile(fs.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog %s: %w", fs.path, err)
	}
	return fs.Replace(doc)
}
