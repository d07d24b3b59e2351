package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFolderQuery(t *testing.T) {
	t.Run("base query matches folder children", func(t *testing.T) {
		q := BuildFolderQuery("abc123", nil, "")

		assert.Equal(t, "('abc123' in parents)", q)
	})

	t.Run("mime filter keeps folders traversable", func(t *testing.T) {
		q := BuildFolderQuery("abc123", []string{"application/pdf"}, "")

		assert.Equal(t,
			"('abc123' in parents) and (mimeType='application/pdf' or mimeType='application/vnd.google-apps.folder')",
			q)
	})

	t.Run("folder mime not duplicated when already present", func(t *testing.T) {
		q := BuildFolderQuery("abc123", []string{MimeTypeFolder, "application/pdf"}, "")

		assert.Equal(t,
			"('abc123' in parents) and (mimeType='application/vnd.google-apps.folder' or mimeType='application/pdf')",
			q)
	})

	t.Run("mime filter does not mutate the input slice", func(t *testing.T) {
		types := make([]string, 1, 4)
		types[0] = "application/pdf"

		BuildFolderQuery("abc123", types, "")

		assert.Equal(t, []string{"application/pdf"}, types)
	})

	t.Run("query string is ored with the folder type", func(t *testing.T) {
		q := BuildFolderQuery("abc123", nil, "name contains 'report'")

		assert.Equal(t,
			"('abc123' in parents) and ((mimeType='application/vnd.google-apps.folder') or (name contains 'report'))",
			q)
	})

	t.Run("mime filter and query string combine", func(t *testing.T) {
		q := BuildFolderQuery("abc123", []string{"application/pdf"}, "modifiedTime > '2023-01-01'")

		assert.Equal(t,
			"('abc123' in parents)"+
				" and (mimeType='application/pdf' or mimeType='application/vnd.google-apps.folder')"+
				" and ((mimeType='application/vnd.google-apps.folder') or (modifiedTime > '2023-01-01'))",
			q)
	})
}
