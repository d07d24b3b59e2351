// Package loader orchestrates a load: enumerate Drive metadata, stage the
// file bytes in a scratch directory, and run extraction over the staged
// files to produce documents with provenance metadata.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	driveapi "google.golang.org/api/drive/v3"

	"github.com/custodia-labs/driveload/internal/connectors/google"
	"github.com/custodia-labs/driveload/internal/connectors/google/drive"
	"github.com/custodia-labs/driveload/internal/core/domain"
	"github.com/custodia-labs/driveload/internal/extract"
	"github.com/custodia-labs/driveload/internal/logger"
)

// Enumerator lists Drive files as provenance metadata.
type Enumerator interface {
	Enumerate(ctx context.Context, scope drive.Scope) ([]domain.FileMeta, error)
}

// Materializer downloads one Drive file to a local path.
type Materializer interface {
	Materialize(ctx context.Context, fileID, basePath string) (string, error)
}

// Extractor turns a staged directory into documents.
type Extractor interface {
	Read(ctx context.Context, dir string, metaFn extract.MetadataFunc) ([]domain.Document, error)
}

// Options selects what to load. A folder id takes precedence over file
// ids; with neither, Load warns and returns an empty result.
type Options struct {
	// DriveID scopes enumeration to a shared drive.
	DriveID string
	// FolderID loads a folder recursively.
	FolderID string
	// FileIDs loads explicit files.
	FileIDs []string
	// MimeTypes restricts folder results by MIME type.
	//
	// Deprecated: use Query with a mimeType predicate instead. Kept for
	// callers of the original connector surface.
	MimeTypes []string
	// Query is a free-form Drive query predicate.
	Query string
}

// Loader loads Drive files into documents.
type Loader struct {
	enumerator   Enumerator
	materializer Materializer
	extractor    Extractor
}

// New creates a Loader from its three collaborators.
func New(e Enumerator, m Materializer, x Extractor) *Loader {
	return &Loader{enumerator: e, materializer: m, extractor: x}
}

// NewFromService wires a Loader over a Drive service with the default
// extraction registry and the given rate limiter.
func NewFromService(svc *driveapi.Service, limiter *google.RateLimiter) *Loader {
	return New(
		drive.NewEnumerator(svc, limiter),
		drive.NewMaterializer(svc, limiter),
		extract.NewDirectoryReader(nil),
	)
}

// Load enumerates the selected files, materializes them, and extracts
// documents. Every returned document's ID is the Drive file id it came
// from, 1:1 with the enumerated metadata.
func (l *Loader) Load(ctx context.Context, opts Options) ([]domain.Document, error) {
	var (
		metas []domain.FileMeta
		err   error
	)

	switch {
	case opts.FolderID != "":
		logger.Section("enumerate folder " + opts.FolderID)
		metas, err = l.enumerator.Enumerate(ctx, drive.Scope{
			DriveID:   opts.DriveID,
			FolderID:  opts.FolderID,
			MimeTypes: opts.MimeTypes,
			Query:     opts.Query,
		})
		if err != nil {
			return nil, fmt.Errorf("enumerate folder %s: %w", opts.FolderID, err)
		}
	case len(opts.FileIDs) > 0:
		logger.Section("enumerate files")
		for _, fileID := range opts.FileIDs {
			fileMetas, err := l.enumerator.Enumerate(ctx, drive.Scope{
				DriveID:   opts.DriveID,
				FileID:    fileID,
				MimeTypes: opts.MimeTypes,
				Query:     opts.Query,
			})
			if err != nil {
				return nil, fmt.Errorf("enumerate file %s: %w", fileID, err)
			}
			metas = append(metas, fileMetas...)
		}
	default:
		logger.Warn("either a folder id or file ids must be provided")
		return []domain.Document{}, nil
	}

	return l.assemble(ctx, metas)
}

// assemble stages every file in a scratch directory, extracts documents
// with a path-keyed metadata lookup, and rewrites each document's ID to
// the originating file id. The scratch directory is removed on every exit
// path.
func (l *Loader) assemble(ctx context.Context, metas []domain.FileMeta) ([]domain.Document, error) {
	scratch, err := os.MkdirTemp("", "driveload-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	metadata := make(map[string]map[string]any, len(metas))
	for _, meta := range metas {
		finalPath, err := l.materializer.Materialize(ctx, meta.ID, filepath.Join(scratch, meta.ID))
		if err != nil {
			return nil, fmt.Errorf("materialize file %s: %w", meta.ID, err)
		}
		metadata[finalPath] = meta.MetadataMap()
	}

	docs, err := l.extractor.Read(ctx, scratch, func(path string) map[string]any {
		return metadata[path]
	})
	if err != nil {
		return nil, err
	}

	for i := range docs {
		if fileID := docs[i].FileID(); fileID != "" {
			docs[i].ID = fileID
		}
	}

	logger.Info("loaded %d documents from %d files", len(docs), len(metas))
	return docs, nil
}
