// Package pptx extracts text from OOXML presentations, the export format
// for Google Slides.
package pptx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/driveload/internal/core/domain"
)

// Normaliser handles PPTX presentations.
type Normaliser struct{}

// New creates a new PPTX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".pptx"}
}

// Normalise collects the text runs of every slide, one slide per block.
func (n *Normaliser) Normalise(_ context.Context, path string, metadata map[string]any) (*domain.Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive", domain.ErrInvalidInput)
	}
	defer reader.Close()

	var slides []string
	for _, name := range slideFiles(&reader.Reader) {
		text, err := readSlideText(&reader.Reader, name)
		if err != nil {
			return nil, err
		}
		if text != "" {
			slides = append(slides, text)
		}
	}

	return &domain.Document{
		ID:       uuid.New().String(),
		Text:     strings.Join(slides, "\n\n"),
		Metadata: metadata,
	}, nil
}

// slideFiles lists slide entries in a stable order. Lexical order is close
// enough to presentation order for text extraction.
func slideFiles(reader *zip.Reader) []string {
	var names []string
	for _, file := range reader.File {
		if strings.HasPrefix(file.Name, "ppt/slides/slide") && strings.HasSuffix(file.Name, ".xml") {
			names = append(names, file.Name)
		}
	}
	sort.Strings(names)
	return names
}

// readSlideText walks the slide XML token stream collecting the content of
// every DrawingML <a:t> element, one text run per line.
func readSlideText(reader *zip.Reader, name string) (string, error) {
	var rc io.ReadCloser
	for _, file := range reader.File {
		if file.Name == name {
			opened, err := file.Open()
			if err != nil {
				return "", domain.ErrInvalidInput
			}
			rc = opened
			break
		}
	}
	if rc == nil {
		return "", nil
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var runs []string
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", domain.ErrInvalidInput
		}

		switch t := tok.(type) {
		case xml.StartElement:
			inText = t.Name.Local == "t"
		case xml.EndElement:
			inText = false
		case xml.CharData:
			if inText {
				if text := string(t); strings.TrimSpace(text) != "" {
					runs = append(runs, text)
				}
			}
		}
	}

	return strings.TrimSpace(strings.Join(runs, "\n")), nil
}
