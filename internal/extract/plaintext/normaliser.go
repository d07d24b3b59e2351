// Package plaintext extracts text files verbatim. It is the fallback
// normaliser for extensions no other normaliser claims.
package plaintext

import (
	"context"
	"os"

	"github.com/google/uuid"

	"github.com/custodia-labs/driveload/internal/core/domain"
)

// Normaliser handles plain text content.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the text extensions this normaliser claims directly.
// As the registry fallback it also receives every unclaimed extension.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".md", ".csv", ".json", ".xml", ".html", ".yaml", ".yml", ".log"}
}

// Normalise reads the file verbatim.
func (n *Normaliser) Normalise(_ context.Context, path string, metadata map[string]any) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &domain.Document{
		ID:       uuid.New().String(),
		Text:     string(data),
		Metadata: metadata,
	}, nil
}
