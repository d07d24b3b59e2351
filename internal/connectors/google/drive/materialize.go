package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/driveload/internal/connectors/google"
	"github.com/custodia-labs/driveload/internal/logger"
)

// Google Workspace MIME types that must be exported rather than downloaded.
const (
	MimeTypeDocument     = "application/vnd.google-apps.document"
	MimeTypeSpreadsheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypePresentation = "application/vnd.google-apps.presentation"
)

// ExportFormat is the Office format a Workspace document converts to.
type ExportFormat struct {
	// MimeType is requested from the export endpoint.
	MimeType string
	// Extension is appended to the staged file name.
	Extension string
}

// ExportFormats maps each Workspace MIME type to its export conversion.
// Fixed at process start; files of any other MIME type download unchanged.
var ExportFormats = map[string]ExportFormat{
	MimeTypeDocument: {
		MimeType:  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Extension: ".docx",
	},
	MimeTypeSpreadsheet: {
		MimeType:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Extension: ".xlsx",
	},
	MimeTypePresentation: {
		MimeType:  "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		Extension: ".pptx",
	},
}

// Materializer downloads Drive files to local paths.
type Materializer struct {
	svc     *drive.Service
	limiter *google.RateLimiter
}

// NewMaterializer creates a Materializer over the given Drive service.
// A nil limiter disables rate limiting (useful in tests).
func NewMaterializer(svc *drive.Service, limiter *google.RateLimiter) *Materializer {
	return &Materializer{svc: svc, limiter: limiter}
}

// Materialize downloads the file's bytes to basePath and returns the final
// path. Workspace documents are export-converted and get the mapped
// extension appended; everything else downloads raw to basePath unchanged.
// The bytes land in a temp file that is renamed into place, so a failed
// download never leaves a partial file behind.
func (m *Materializer) Materialize(ctx context.Context, fileID, basePath string) (string, error) {
	if err := m.wait(ctx); err != nil {
		return "", err
	}

	meta, err := m.svc.Files.Get(fileID).
		Context(ctx).
		SupportsAllDrives(true).
		Fields("id, name, mimeType").
		Do()
	if err != nil {
		return "", fmt.Errorf("get file %s: %w", fileID, google.WrapError(err))
	}

	if err := m.wait(ctx); err != nil {
		return "", err
	}

	finalPath := basePath
	var resp *http.Response
	if format, ok := ExportFormats[meta.MimeType]; ok {
		finalPath = basePath + format.Extension
		logger.Debug("exporting %s (%s) as %s", fileID, meta.MimeType, format.MimeType)
		resp, err = m.svc.Files.Export(fileID, format.MimeType).
			Context(ctx).
			Download()
		if err != nil {
			return "", fmt.Errorf("export file %s: %w", fileID, google.WrapError(err))
		}
	} else {
		logger.Debug("downloading %s (%s)", fileID, meta.MimeType)
		resp, err = m.svc.Files.Get(fileID).
			Context(ctx).
			SupportsAllDrives(true).
			Download()
		if err != nil {
			return "", fmt.Errorf("download file %s: %w", fileID, google.WrapError(err))
		}
	}
	defer resp.Body.Close()

	if err := writeAtomic(finalPath, resp.Body); err != nil {
		return "", fmt.Errorf("stage file %s: %w", fileID, err)
	}

	return finalPath, nil
}

func (m *Materializer) wait(ctx context.Context) error {
	if m.limiter == nil {
		return nil
	}
	return m.limiter.Wait(ctx)
}

// writeAtomic streams r into a temp file next to path and renames it into
// place once fully written.
func writeAtomic(path string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".staging-*")
	if err != nil {
		return err
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
