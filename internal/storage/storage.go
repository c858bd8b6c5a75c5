// Package storage defines the collaborator interfaces the pipeline consumes
// for documents and locations, plus in-memory implementations used by tests
// and local runs. Production adapters (drive, object store) satisfy these
// interfaces elsewhere; the pipeline core never imports them.
package storage

import (
	"context"

	"github.com/hithonix/hireflow/internal/domain"
)

// DocumentStore is the document collaborator. IDs are opaque.
type DocumentStore interface {
	// ListFolders returns the child folders of a parent, one per candidate
	// in an intake area.
	ListFolders(ctx context.Context, parentID string) ([]domain.DocumentRef, error)

	// ListFiles returns the documents directly inside a folder.
	ListFiles(ctx context.Context, folderID string) ([]domain.DocumentRef, error)

	// DownloadBytes fetches a document's raw content.
	DownloadBytes(ctx context.Context, fileID string) ([]byte, error)

	// Move reparents a folder.
	Move(ctx context.Context, folderID, newParentID string) error

	// WriteJSON writes obj as filename inside folderID, replacing any
	// existing file of that name.
	WriteJSON(ctx context.Context, folderID, filename string, obj any) error
}

// TextExtractor turns a stored document into plain text. PDF/Word handling
// is the implementation's concern; the pipeline treats it as opaque.
type TextExtractor interface {
	Extract(ctx context.Context, ref domain.DocumentRef, raw []byte) (string, error)
}

// LocationResolver maps a (stage, role) pair to the folder candidates of
// that role land in for that stage. Returns "" when the role is not
// configured for the stage; the router treats that as a configuration error
// and leaves the candidate in place.
type LocationResolver interface {
	RoleToFolder(stage domain.Stage, role string) string
}

// StaticResolver resolves locations from a fixed map, which is how the
// role→folder configuration arrives from config files.
type StaticResolver struct {
	// Folders maps stage → role key → folder id. Role keys are normalized
	// with domain.NormalizeKey.
	Folders map[domain.Stage]map[string]string
}

// RoleToFolder implements LocationResolver.
func (r StaticResolver) RoleToFolder(stage domain.Stage, role string) string {
	byRole, ok := r.Folders[stage]
	if !ok {
		return ""
	}
	return byRole[domain.NormalizeKey(role)]
}
