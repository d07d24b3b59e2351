package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/driveload/internal/core/domain"
	"github.com/custodia-labs/driveload/internal/extract/docx"
	"github.com/custodia-labs/driveload/internal/extract/pdf"
	"github.com/custodia-labs/driveload/internal/extract/plaintext"
	"github.com/custodia-labs/driveload/internal/extract/pptx"
	"github.com/custodia-labs/driveload/internal/extract/xlsx"
)

// Normaliser extracts the text of one file format.
type Normaliser interface {
	// Extensions returns the file extensions this normaliser handles,
	// lowercase and dot-prefixed (".docx").
	Extensions() []string

	// Normalise reads the file at path and produces a document carrying
	// the given metadata.
	Normalise(ctx context.Context, path string, metadata map[string]any) (*domain.Document, error)
}

// Registry selects a normaliser by file extension, with a fallback for
// extensions no registered normaliser claims.
type Registry struct {
	byExt    map[string]Normaliser
	fallback Normaliser
}

// NewRegistry creates an empty registry with the given fallback.
func NewRegistry(fallback Normaliser) *Registry {
	return &Registry{
		byExt:    make(map[string]Normaliser),
		fallback: fallback,
	}
}

// Register adds a normaliser for all of its extensions. Later
// registrations win on conflict.
func (r *Registry) Register(n Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// Lookup returns the normaliser for the path's extension, or the fallback.
func (r *Registry) Lookup(path string) Normaliser {
	if n, ok := r.byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return n
	}
	return r.fallback
}

// DefaultRegistry wires every built-in format normaliser with a plain-text
// fallback. This covers all three Workspace export formats plus PDF.
func DefaultRegistry() *Registry {
	r := NewRegistry(plaintext.New())
	r.Register(docx.New())
	r.Register(xlsx.New())
	r.Register(pptx.New())
	r.Register(pdf.New())
	return r
}
