package xlsx

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

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
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

const sharedStringsFixture = `<?xml version="1.0"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <si><t>Name</t></si>
  <si><r><t>Wid</t></r><r><t>get</t></r></si>
</sst>`

const sheetFixture = `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row><c t="s"><v>0</v></c><c t="inlineStr"><is><t>Qty</t></is></c></row>
    <row><c t="s"><v>1</v></c><c><v>3</v></c></row>
  </sheetData>
</worksheet>`

func TestNormalise(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves shared and inline strings into rows", func(t *testing.T) {
		path := writeArchive(t, map[string]string{
			"xl/sharedStrings.xml":      sharedStringsFixture,
			"xl/worksheets/sheet1.xml":  sheetFixture,
			"xl/workbook.xml":           "<workbook/>",
			"[Content_Types].xml":       "<Types/>",
			"xl/worksheets/unrelated.x": "ignored",
		})

		doc, err := New().Normalise(ctx, path, map[string]any{"file id": "X"})

		require.NoError(t, err)
		assert.Equal(t, "Name\tQty\nWidget\t3", doc.Text)
		assert.Equal(t, "X", doc.Metadata["file id"])
	})

	t.Run("multiple sheets are separated by a blank line", func(t *testing.T) {
		sheet := `<worksheet><sheetData><row><c><v>7</v></c></row></sheetData></worksheet>`
		path := writeArchive(t, map[string]string{
			"xl/worksheets/sheet1.xml": sheet,
			"xl/worksheets/sheet2.xml": sheet,
		})

		doc, err := New().Normalise(ctx, path, nil)

		require.NoError(t, err)
		assert.Equal(t, "7\n\n7", doc.Text)
	})

	t.Run("out of range shared index becomes empty cell", func(t *testing.T) {
		path := writeArchive(t, map[string]string{
			"xl/worksheets/sheet1.xml": `<worksheet><sheetData><row><c><v>a</v></c><c t="s"><v>99</v></c><c><v>b</v></c></row></sheetData></worksheet>`,
		})

		doc, err := New().Normalise(ctx, path, nil)

		require.NoError(t, err)
		assert.Equal(t, "a\t\tb", doc.Text)
	})

	t.Run("workbook without sheets yields empty text", func(t *testing.T) {
		path := writeArchive(t, map[string]string{"xl/workbook.xml": "<workbook/>"})

		doc, err := New().Normalise(ctx, path, nil)

		require.NoError(t, err)
		assert.Empty(t, doc.Text)
	})

	t.Run("non-zip input is invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("nope"), 0o600))

		_, err := New().Normalise(ctx, path, nil)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".xlsx"}, New().Extensions())
}
