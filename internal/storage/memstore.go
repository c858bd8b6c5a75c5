package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hithonix/hireflow/internal/domain"
)

// InMemoryStore is a DocumentStore over process memory. It backs tests and
// local runs without a drive credential; the batch pipeline is exercised
// against it end to end.
type InMemoryStore struct {
	mu      sync.RWMutex
	folders map[string]*memFolder
	files   map[string]*memFile
}

type memFolder struct {
	ref      domain.DocumentRef
	parentID string
}

type memFile struct {
	ref      domain.DocumentRef
	folderID string
	content  []byte
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		folders: make(map[string]*memFolder),
		files:   make(map[string]*memFile),
	}
}

// AddFolder creates a folder under parentID and returns its id. An empty
// parentID creates a root folder.
func (s *InMemoryStore) AddFolder(parentID, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.folders[id] = &memFolder{
		ref:      domain.DocumentRef{ID: id, Name: name},
		parentID: parentID,
	}
	return id
}

// AddFile creates a file inside folderID and returns its id.
func (s *InMemoryStore) AddFile(folderID, name, mimeType string, content []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.files[id] = &memFile{
		ref:      domain.DocumentRef{ID: id, Name: name, MimeType: mimeType},
		folderID: folderID,
	}
	s.files[id].content = append([]byte(nil), content...)
	return id
}

// ParentOf returns the current parent of a folder, for move assertions.
func (s *InMemoryStore) ParentOf(folderID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.folders[folderID]; ok {
		return f.parentID
	}
	return ""
}

// FileContent returns the content of the named file in a folder, for
// status-write assertions. The second return is false when no such file
// exists.
func (s *InMemoryStore) FileContent(folderID, name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.files {
		if f.folderID == folderID && strings.EqualFold(f.ref.Name, name) {
			return append([]byte(nil), f.content...), true
		}
	}
	return nil, false
}

// ListFolders implements DocumentStore. Results are name-sorted so batch
// iteration order is deterministic.
func (s *InMemoryStore) ListFolders(_ context.Context, parentID string) ([]domain.DocumentRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var refs []domain.DocumentRef
	for _, f := range s.folders {
		if f.parentID == parentID {
			refs = append(refs, f.ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// ListFiles implements DocumentStore.
func (s *InMemoryStore) ListFiles(_ context.Context, folderID string) ([]domain.DocumentRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var refs []domain.DocumentRef
	for _, f := range s.files {
		if f.folderID == folderID {
			refs = append(refs, f.ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// DownloadBytes implements DocumentStore.
func (s *InMemoryStore) DownloadBytes(_ context.Context, fileID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[fileID]
	if !ok {
		return nil, fmt.Errorf("file %q not found", fileID)
	}
	return append([]byte(nil), f.content...), nil
}

// Move implements DocumentStore.
func (s *InMemoryStore) Move(_ context.Context, folderID, newParentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.folders[folderID]
	if !ok {
		return fmt.Errorf("folder %q not found", folderID)
	}
	f.parentID = newParentID
	return nil
}

// WriteJSON implements DocumentStore, replacing an existing file of the same
// name.
func (s *InMemoryStore) WriteJSON(_ context.Context, folderID, filename string, obj any) error {
	payload, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filename, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.folderID == folderID && strings.EqualFold(f.ref.Name, filename) {
			f.content = payload
			return nil
		}
	}
	id := uuid.New().String()
	s.files[id] = &memFile{
		ref:      domain.DocumentRef{ID: id, Name: filename, MimeType: "application/json"},
		folderID: folderID,
		content:  payload,
	}
	return nil
}

// PlainTextExtractor treats every document as UTF-8 text. Real deployments
// plug in a PDF/Word-aware extractor; tests and local runs use this.
type PlainTextExtractor struct{}

// Extract implements TextExtractor.
func (PlainTextExtractor) Extract(_ context.Context, _ domain.DocumentRef, raw []byte) (string, error) {
	return string(raw), nil
}
