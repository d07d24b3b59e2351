package domain

// FileMeta is the provenance record for a single Drive file, produced by
// enumeration and carried unchanged through download and extraction.
// Timestamps are kept as the RFC 3339 strings the Drive API returns.
type FileMeta struct {
	// ID is the Drive file identifier, unique within the provider.
	ID string

	// Author is the display name of the first owner, or "Shared Drive"
	// for items that live in a shared drive (those report no owners).
	Author string

	// Name is the display name of the file.
	Name string

	// MimeType is the Drive MIME type of the file.
	MimeType string

	// CreatedTime is when the file was created.
	CreatedTime string

	// ModifiedTime is when the file was last modified.
	ModifiedTime string
}

// Fixed metadata keys attached to every produced document. The key names
// are part of the connector's output contract.
const (
	MetaKeyFileID     = "file id"
	MetaKeyAuthor     = "author"
	MetaKeyFileName   = "file name"
	MetaKeyMimeType   = "mime type"
	MetaKeyCreatedAt  = "created at"
	MetaKeyModifiedAt = "modified at"
)

// MetadataMap returns the file's provenance fields under the fixed keys.
func (m FileMeta) MetadataMap() map[string]any {
	return map[string]any{
		MetaKeyFileID:     m.ID,
		MetaKeyAuthor:     m.Author,
		MetaKeyFileName:   m.Name,
		MetaKeyMimeType:   m.MimeType,
		MetaKeyCreatedAt:  m.CreatedTime,
		MetaKeyModifiedAt: m.ModifiedTime,
	}
}
