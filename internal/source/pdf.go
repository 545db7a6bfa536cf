package source

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrPDFUnreadable is returned when a PDF cannot be parsed
	ErrPDFUnreadable = errors.New("pdf unreadable")

	// ErrPDFNoText is returned for PDFs without a text layer, e.g. scans
	ErrPDFNoText = errors.New("pdf has no extractable text")
)

var pdfMagic = []byte("%PDF-")

// isPDF reports whether data carries the PDF header
func isPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\r\n\t "), pdfMagic)
}

// PDFText extracts the plain text of every page, one page after another
func PDFText(data []byte) (text string, err error) {
	// The parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrPDFUnreadable, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPDFUnreadable, err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrPDFUnreadable, i, err)
		}
		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, content)
		}
	}

	if len(pages) == 0 {
		return "", ErrPDFNoText
	}
	return strings.Join(pages, "\n"), nil
}
