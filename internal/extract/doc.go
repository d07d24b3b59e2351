// Package extract turns staged files into text-bearing documents.
//
// A DirectoryReader walks a directory, picks a format normaliser for each
// file by extension, and attaches caller-supplied provenance metadata via a
// path lookup callback. Format normalisers live in subpackages.
package extract
