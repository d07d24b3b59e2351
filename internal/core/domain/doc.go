// Package domain holds the core value types exchanged between the Drive
// connector, the extraction layer, and callers: file provenance metadata,
// extracted documents, and the domain error sentinels.
package domain
