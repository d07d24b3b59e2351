// Package drive enumerates and downloads Google Drive files.
//
// The Enumerator turns a folder (recursively) or an explicit file id into
// flat provenance metadata; the Materializer downloads one file to disk,
// converting Google Workspace documents to Office formats on export.
package drive
