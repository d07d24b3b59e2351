package domain

// Document is a text-bearing record produced by the extraction layer.
// After assembly its ID equals the Drive file identifier it came from.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Text is the extracted text content.
	Text string

	// Metadata contains provenance key-value pairs. For documents loaded
	// from Drive it carries the fixed FileMeta keys (see filemeta.go).
	Metadata map[string]any
}

// FileID returns the originating Drive file identifier from the metadata,
// or an empty string if the document carries none.
func (d Document) FileID() string {
	if d.Metadata == nil {
		return ""
	}
	id, _ := d.Metadata[MetaKeyFileID].(string)
	return id
}
