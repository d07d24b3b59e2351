// Package xlsx extracts cell text from OOXML spreadsheets, the export
// format for Google Sheets.
package xlsx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/driveload/internal/core/domain"
)

// Normaliser handles XLSX spreadsheets.
type Normaliser struct{}

// New creates a new XLSX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".xlsx"}
}

// Normalise renders each worksheet as tab-separated rows. Shared strings
// are resolved; sheets are separated by a blank line.
func (n *Normaliser) Normalise(_ context.Context, path string, metadata map[string]any) (*domain.Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive", domain.ErrInvalidInput)
	}
	defer reader.Close()

	shared, err := readSharedStrings(&reader.Reader)
	if err != nil {
		return nil, err
	}

	var sheets []string
	for _, name := range sheetFiles(&reader.Reader) {
		text, err := readSheetText(&reader.Reader, name, shared)
		if err != nil {
			return nil, err
		}
		if text != "" {
			sheets = append(sheets, text)
		}
	}

	return &domain.Document{
		ID:       uuid.New().String(),
		Text:     strings.Join(sheets, "\n\n"),
		Metadata: metadata,
	}, nil
}

// sheetFiles lists worksheet entries in a stable order.
func sheetFiles(reader *zip.Reader) []string {
	var names []string
	for _, file := range reader.File {
		if strings.HasPrefix(file.Name, "xl/worksheets/sheet") && strings.HasSuffix(file.Name, ".xml") {
			names = append(names, file.Name)
		}
	}
	sort.Strings(names)
	return names
}

// sharedStringsXML represents xl/sharedStrings.xml. Each string item is
// either a single <t> or a sequence of rich-text runs.
type sharedStringsXML struct {
	Items []struct {
		Text string `xml:"t"`
		Runs []struct {
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

func readSharedStrings(reader *zip.Reader) ([]string, error) {
	content, ok, err := readZipFile(reader, "xl/sharedStrings.xml")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var sst sharedStringsXML
	if err := xml.Unmarshal(content, &sst); err != nil {
		return nil, domain.ErrInvalidInput
	}

	strs := make([]string, len(sst.Items))
	for i, item := range sst.Items {
		if len(item.Runs) > 0 {
			var b strings.Builder
			for _, r := range item.Runs {
				b.WriteString(r.Text)
			}
			strs[i] = b.String()
			continue
		}
		strs[i] = item.Text
	}
	return strs, nil
}

// worksheetXML represents the cell grid of one worksheet.
type worksheetXML struct {
	Rows []struct {
		Cells []cellXML `xml:"c"`
	} `xml:"sheetData>row"`
}

type cellXML struct {
	Type   string `xml:"t,attr"`
	Value  string `xml:"v"`
	Inline struct {
		Text string `xml:"t"`
	} `xml:"is"`
}

func readSheetText(reader *zip.Reader, name string, shared []string) (string, error) {
	content, ok, err := readZipFile(reader, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	var sheet worksheetXML
	if err := xml.Unmarshal(content, &sheet); err != nil {
		return "", domain.ErrInvalidInput
	}

	var rows []string
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = cellText(c, shared)
		}
		rows = append(rows, strings.Join(cells, "\t"))
	}
	return strings.TrimSpace(strings.Join(rows, "\n")), nil
}

// cellText resolves one cell value. Type "s" indexes the shared string
// table, "inlineStr" carries its text inline, anything else is literal.
func cellText(c cellXML, shared []string) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(c.Value)
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		return c.Inline.Text
	default:
		return c.Value
	}
}

func readZipFile(reader *zip.Reader, name string) ([]byte, bool, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, false, domain.ErrInvalidInput
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, false, domain.ErrInvalidInput
		}
		return content, true, nil
	}
	return nil, false, nil
}
