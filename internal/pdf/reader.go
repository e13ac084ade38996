package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page holds the extracted plain text of one document page
type Page struct {
	Number int // 1-based
	Text   string
}

// Reader extracts per-page text from in-memory PDF documents
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit per document
	}
}

// ExtractPages extracts the text of every page. Pages with no
// extractable text yield an empty string, never an error; only a
// document that cannot be opened at all fails.
//
// With layout enabled, horizontal gaps between text runs are rendered
// as padding so that column and label alignment survives extraction,
// which the structured field patterns rely on.
func (r *Reader) ExtractPages(data []byte, layout bool) ([]Page, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	if int64(len(data)) > r.maxFileSize {
		return nil, fmt.Errorf("document too large: %d bytes (max: %d bytes)",
			len(data), r.maxFileSize)
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	pages := make([]Page, 0, pdfReader.NumPage())
	totalLength := 0

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, Page{Number: pageNum})
			continue
		}

		text := r.pageText(page, layout)

		if totalLength+len(text) > r.maxTextSize {
			remaining := r.maxTextSize - totalLength
			if remaining < 0 {
				remaining = 0
			}
			text = text[:remaining]
		}
		totalLength += len(text)

		pages = append(pages, Page{Number: pageNum, Text: text})
	}

	return pages, nil
}

// pageText extracts one page, preferring row-ordered extraction so that
// the result keeps its line structure
func (r *Reader) pageText(page pdf.Page, layout bool) string {
	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		return joinRows(rows, layout)
	}

	// Fall back to the flat extraction; a page that fails both ways is
	// reported as empty, not as an error.
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}

// joinRows renders row-ordered text runs into newline-separated lines
func joinRows(rows pdf.Rows, layout bool) string {
	var builder strings.Builder

	for i, row := range rows {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(joinRow(row.Content, layout))
	}

	return builder.String()
}

// joinRow concatenates the text runs of a single row. In layout mode,
// large horizontal gaps become proportional runs of spaces; otherwise
// runs are separated by a single space.
func joinRow(texts []pdf.Text, layout bool) string {
	var builder strings.Builder
	var cursor float64

	for i, t := range texts {
		if i > 0 {
			gap := t.X - cursor
			switch {
			case layout && t.FontSize > 0 && gap > t.FontSize:
				// Half a font size approximates one character cell.
				pad := int(gap / (t.FontSize / 2))
				if pad > 80 {
					pad = 80
				}
				builder.WriteString(strings.Repeat(" ", pad))
			case gap > 0.1:
				builder.WriteByte(' ')
			}
		}
		builder.WriteString(t.S)
		cursor = t.X + t.W
	}

	return builder.String()
}
