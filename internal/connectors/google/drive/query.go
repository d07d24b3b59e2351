package drive

import (
	"fmt"
	"strings"
)

// BuildFolderQuery constructs the files.list query for one folder level.
//
// The base predicate matches direct children of folderID. A MIME filter is
// ANDed in as an OR-group of equality clauses; the folder MIME type is
// always part of that group so subfolders keep being traversed. A caller
// query string is ANDed in OR-ed with the folder type, for the same reason.
func BuildFolderQuery(folderID string, mimeTypes []string, queryString string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "('%s' in parents)", folderID)

	if len(mimeTypes) > 0 {
		types := mimeTypes
		if !containsString(types, MimeTypeFolder) {
			types = append(append([]string(nil), types...), MimeTypeFolder)
		}
		clauses := make([]string, len(types))
		for i, m := range types {
			clauses[i] = fmt.Sprintf("mimeType='%s'", m)
		}
		fmt.Fprintf(&b, " and (%s)", strings.Join(clauses, " or "))
	}

	if queryString != "" {
		fmt.Fprintf(&b, " and ((mimeType='%s') or (%s))", MimeTypeFolder, queryString)
	}

	return b.String()
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
