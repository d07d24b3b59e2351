package drive

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	drv "google.golang.org/api/drive/v3"

	"github.com/custodia-labs/driveload/internal/connectors/google"
)

func TestMaterialize(t *testing.T) {
	ctx := context.Background()

	t.Run("native document exports with mapped extension", func(t *testing.T) {
		var exportMime string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/files/DOC":
				writeJSON(t, w, &drv.File{Id: "DOC", Name: "Design notes", MimeType: MimeTypeDocument})
			case "/files/DOC/export":
				exportMime = r.URL.Query().Get("mimeType")
				w.Write([]byte("docx bytes"))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})

		m := NewMaterializer(newTestService(t, handler), nil)
		base := filepath.Join(t.TempDir(), "DOC")

		path, err := m.Materialize(ctx, "DOC", base)

		require.NoError(t, err)
		assert.Equal(t, base+".docx", path)
		assert.Equal(t, ExportFormats[MimeTypeDocument].MimeType, exportMime)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "docx bytes", string(data))
	})

	t.Run("spreadsheet and presentation extensions", func(t *testing.T) {
		tests := []struct {
			mimeType string
			ext      string
		}{
			{MimeTypeSpreadsheet, ".xlsx"},
			{MimeTypePresentation, ".pptx"},
		}

		for _, tt := range tests {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/files/F":
					writeJSON(t, w, &drv.File{Id: "F", MimeType: tt.mimeType})
				case "/files/F/export":
					w.Write([]byte("exported"))
				}
			})

			m := NewMaterializer(newTestService(t, handler), nil)
			base := filepath.Join(t.TempDir(), "F")

			path, err := m.Materialize(ctx, "F", base)

			require.NoError(t, err)
			assert.Equal(t, base+tt.ext, path)
		}
	})

	t.Run("regular file downloads raw to the base path", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/files/TXT", r.URL.Path)
			if r.URL.Query().Get("alt") == "media" {
				w.Write([]byte("hello world"))
				return
			}
			writeJSON(t, w, &drv.File{Id: "TXT", Name: "hello.txt", MimeType: "text/plain"})
		})

		m := NewMaterializer(newTestService(t, handler), nil)
		base := filepath.Join(t.TempDir(), "TXT")

		path, err := m.Materialize(ctx, "TXT", base)

		require.NoError(t, err)
		assert.Equal(t, base, path, "no extension appended for raw downloads")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(data))
	})

	t.Run("failed export leaves no file behind", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/files/BAD":
				writeJSON(t, w, &drv.File{Id: "BAD", MimeType: MimeTypeDocument})
			case "/files/BAD/export":
				http.Error(w, "export failed", http.StatusInternalServerError)
			}
		})

		dir := t.TempDir()
		m := NewMaterializer(newTestService(t, handler), nil)

		_, err := m.Materialize(ctx, "BAD", filepath.Join(dir, "BAD"))

		require.Error(t, err)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "no partial or staging files")
	})

	t.Run("missing file surfaces not found", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})

		m := NewMaterializer(newTestService(t, handler), nil)

		_, err := m.Materialize(ctx, "gone", filepath.Join(t.TempDir(), "gone"))

		require.Error(t, err)
		assert.True(t, google.IsNotFound(err))
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Run("writes content and cleans staging file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.txt")

		require.NoError(t, writeAtomic(path, strings.NewReader("payload")))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "staging file renamed, not copied")
	})

	t.Run("failed read removes the staging file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.txt")

		err := writeAtomic(path, errReader{})

		require.Error(t, err)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
