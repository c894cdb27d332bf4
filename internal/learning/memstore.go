package learning

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store for tests and read-only consumers that must
// never touch disk. It mirrors FileStore semantics, including migration of
// imported v1 payloads.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (ms *MemoryStore) Load() (*LearningDocument, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.data == nil {
		doc := NewDocument()
		if err := ms.write(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}

	doc, _, err := decodeDocument(ms.data)
	if err != nil {
		return nil, fmt.Errorf("parse learning document: %w", err)
	}
	return doc, nil
}

// Save implements Store.
func (ms *MemoryStore) Save(doc *LearningDocument) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.write(doc)
}

func (ms *MemoryStore) write(doc *LearningDocument) error {
	doc.UpdatedAt = nowTimestamp()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal learning document: %w", err)
	}
	ms.data = data
	return nil
}

// Export implements Store.
func (ms *MemoryStore) Export() ([]byte, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.data == nil {
		doc := NewDocument()
		if err := ms.write(doc); err != nil {
			return nil, err
		}
	}
	out := make([]byte, len(ms.data))
	copy(out, ms.data)
	return out, nil
}

// Import implements Store.
func (ms *MemoryStore) Import(data []byte) error {
	doc, err := validateImport(data)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.write(doc)
}

// Reset implements Store.
func (ms *MemoryStore) Reset() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.write(NewDocument())
}
