package docx

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/driveload/internal/core/domain"
)

func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.docx")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	return path
}

const documentXMLFixture = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t> world</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestNormalise(t *testing.T) {
	ctx := context.Background()

	t.Run("joins runs and separates paragraphs", func(t *testing.T) {
		path := writeArchive(t, map[string]string{"word/document.xml": documentXMLFixture})

		doc, err := New().Normalise(ctx, path, map[string]any{"file id": "X"})

		require.NoError(t, err)
		assert.Equal(t, "Hello world\nSecond paragraph", doc.Text)
		assert.Equal(t, "X", doc.Metadata["file id"])
		assert.NotEmpty(t, doc.ID)
	})

	t.Run("archive without document part yields empty text", func(t *testing.T) {
		path := writeArchive(t, map[string]string{"word/styles.xml": "<styles/>"})

		doc, err := New().Normalise(ctx, path, nil)

		require.NoError(t, err)
		assert.Empty(t, doc.Text)
	})

	t.Run("non-zip input is invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.docx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o600))

		_, err := New().Normalise(ctx, path, nil)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".docx"}, New().Extensions())
}
