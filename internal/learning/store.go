// Package learning: persistence for the learning document.
// The engine owns exactly one document per deployment. Every save replaces the
// whole file; there is no in-place patching, so a failed write can never leave a
// half-updated document behind.
package learning

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"angkan/internal/logging"
)

// DocumentFilename is the name of the persisted learning document.
const DocumentFilename = "relationship_learning.json"

// Store is the persistence contract for the learning document. The engine only
// talks to this interface so tests can substitute an in-memory store.
type Store interface {
	// Load returns the current document. A missing backing document is
	// initialized to the empty structure and persisted before returning.
	// Pre-2.0 documents are migrated forward in memory; the migrated form is
	// persisted on the next Save.
	Load() (*LearningDocument, error)

	// Save stamps updated_at and atomically replaces the whole document.
	Save(doc *LearningDocument) error

	// Export returns the raw persisted bytes for backup.
	Export() ([]byte, error)

	// Import replaces the document with a previously exported payload. It fails
	// closed: unparseable or unversioned payloads reject without mutating state.
	Import(data []byte) error

	// Reset overwrites the document with the empty structure.
	Reset() error
}

// FileStore persists the document as pretty-printed JSON at a fixed path.
//
// Known limitation: saves are whole-document overwrites without optimistic
// concurrency. Concurrent writers from separate processes race load-mutate-save
// and the last writer wins. Write concurrency is expected to be one operator
// finalizing one household at a time; the in-process mutex below serializes
// callers within a single process only.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store rooted at dataDir, creating the directory with
// restrictive permissions if absent.
func NewFileStore(dataDir string) (*FileStore, error) {
	logging.Store("Initializing learning store at %s", dataDir)

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		logging.StoreError("Failed to create data directory %s: %v", dataDir, err)
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dataDir, DocumentFilename)}, nil
}

// Path returns the location of the backing document.
func (fs *FileStore) Path() string {
	return fs.path
}

// Load implements Store.
func (fs *FileStore) Load() (*LearningDocument, error) {
	timer := logging.StartTimer(logging.CategoryStore, "FileStore.Load")
	defer timer.Stop()

	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Store("No learning document at %s, initializing empty v%s document", fs.path, DocumentVersion)
			doc := NewDocument()
			if err := fs.write(doc); err != nil {
				return nil, err
			}
			return doc, nil
		}
		logging.StoreError("Failed to read learning document: %v", err)
		return nil, fmt.Errorf("read learning document: %w", err)
	}

	doc, migrated, err := decodeDocument(data)
	if err != nil {
		logging.StoreError("Failed to parse learning document: %v", err)
		return nil, fmt.Errorf("parse learning document: %w", err)
	}
	if migrated {
		// Persisted on the next Save; a read-only session never rewrites the file.
		logging.Store("Migrated learning document to v%s in memory", DocumentVersion)
		logging.Audit().DocumentEvent(logging.AuditDocMigrated, fs.path, nil)
	}
	return doc, nil
}

// Save implements Store.
func (fs *FileStore) Save(doc *LearningDocument) error {
	timer := logging.StartTimer(logging.CategoryStore, "FileStore.Save")
	defer timer.Stop()

	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.write(doc)
}

// write stamps the document and atomically replaces the file. Callers hold fs.mu.
func (fs *FileStore) write(doc *LearningDocument) error {
	doc.UpdatedAt = nowTimestamp()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal learning document: %w", err)
	}

	// Write-then-rename keeps readers from ever observing a partial document.
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		logging.StoreError("Failed to write learning document: %v", err)
		return fmt.Errorf("write learning document: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		os.Remove(tmp)
		logging.StoreError("Failed to replace learning document: %v", err)
		return fmt.Errorf("replace learning document: %w", err)
	}

	logging.StoreDebug("Learning document saved (%d bytes)", len(data))
	return nil
}

// Export implements Store.
func (fs *FileStore) Export() ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			doc := NewDocument()
			if err := fs.write(doc); err != nil {
				return nil, err
			}
			return json.MarshalIndent(doc, "", "  ")
		}
		return nil, fmt.Errorf("export learning document: %w", err)
	}
	return data, nil
}

// Import implements Store.
func (fs *FileStore) Import(data []byte) error {
	doc, err := validateImport(data)
	if err != nil {
		logging.StoreWarn("Rejected import payload: %v", err)
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	logging.Store("Importing learning document (%d bytes)", len(data))
	return fs.write(doc)
}

// Reset implements Store. Intended for test isolation and explicit operator use.
func (fs *FileStore) Reset() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	logging.StoreWarn("Resetting learning document at %s", fs.path)
	return fs.write(NewDocument())
}

// validateImport parses an import payload and migrates it if needed. It rejects
// payloads that do not parse or carry no recognizable version tag.
func validateImport(data []byte) (*LearningDocument, error) {
	var probe struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("import payload does not parse: %w", err)
	}
	if probe.Version == "" {
		return nil, fmt.Errorf("import payload has no version tag")
	}

	doc, _, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("import payload invalid: %w", err)
	}
	return doc, nil
}
