package extract

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/driveload/internal/core/domain"
	"github.com/custodia-labs/driveload/internal/logger"
)

// MetadataFunc resolves provenance metadata for a staged file path.
// Returning nil attaches no metadata.
type MetadataFunc func(path string) map[string]any

// DirectoryReader extracts documents from every regular file in a
// directory tree.
type DirectoryReader struct {
	registry *Registry
}

// NewDirectoryReader creates a reader over the given registry.
// A nil registry means DefaultRegistry.
func NewDirectoryReader(registry *Registry) *DirectoryReader {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &DirectoryReader{registry: registry}
}

// Read walks dir and normalises each regular file, attaching the metadata
// the callback resolves for its path. A file whose extraction fails is
// logged and skipped so one corrupt download does not sink the batch; a
// failure to walk the directory itself is returned as an extraction error.
func (r *DirectoryReader) Read(ctx context.Context, dir string, metaFn MetadataFunc) ([]domain.Document, error) {
	var docs []domain.Document

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		var meta map[string]any
		if metaFn != nil {
			meta = copyMetadata(metaFn(path))
		}

		doc, err := r.registry.Lookup(path).Normalise(ctx, path, meta)
		if err != nil {
			logger.Warn("extract %s: %v", path, err)
			return nil
		}

		docs = append(docs, *doc)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: read directory %s: %v", domain.ErrExtraction, dir, walkErr)
	}

	return docs, nil
}

func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
