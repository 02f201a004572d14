// Package pdfextract pulls per-page text out of uploaded PDFs. Extraction
// strategies run in a fixed order and the first one that yields any text
// wins; a readable PDF with no extractable text at all gets per-page
// image placeholders instead of failing.
package pdfextract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable means the file could not be opened as a PDF at all: it is
// corrupted, encrypted, or not a PDF.
var ErrUnreadable = errors.New("unable to extract text from PDF")

// ImagePagePlaceholder marks pages with no extractable text.
const ImagePagePlaceholder = "[Image-based page - OCR needed]"

// Result is the outcome of extracting one document.
type Result struct {
	// Pages maps 1-based page numbers (string keys) to extracted text.
	// Pages whose text is empty after trimming are omitted, except in the
	// image-based case where every page carries the placeholder.
	Pages map[string]string
	// TotalPages counts the pages present in Pages.
	TotalPages int
	// IsImageBased is true when no strategy found text on any page.
	IsImageBased bool
}

type strategy struct {
	name string
	fn   func(path string) (map[string]string, error)
}

// Extractor runs the extraction strategy chain.
type Extractor struct {
	strategies []strategy
	pageCount  func(path string) (int, error)
}

// New returns an Extractor with the production strategy order: plain-text
// walk first, row assembly second.
func New() *Extractor {
	return &Extractor{
		strategies: []strategy{
			{name: "plaintext", fn: extractPlainText},
			{name: "rows", fn: extractByRows},
		},
		pageCount: countPages,
	}
}

// Extract tries each strategy in order and returns the first non-empty page
// map. When every strategy comes back empty but the file opens and has
// pages, each page gets the image placeholder. An unopenable file returns
// ErrUnreadable.
func (e *Extractor) Extract(path string) (*Result, error) {
	for _, s := range e.strategies {
		pages, err := s.fn(path)
		if err != nil {
			continue
		}
		if len(pages) > 0 {
			return &Result{Pages: pages, TotalPages: len(pages)}, nil
		}
	}

	total, err := e.pageCount(path)
	if err != nil || total == 0 {
		return nil, fmt.Errorf("%w: the file might be corrupted, password-protected, or image-based", ErrUnreadable)
	}

	pages := make(map[string]string, total)
	for i := 1; i <= total; i++ {
		pages[strconv.Itoa(i)] = ImagePagePlaceholder
	}
	return &Result{Pages: pages, TotalPages: total, IsImageBased: true}, nil
}

// extractPlainText reads each page's content stream as plain text.
func extractPlainText(path string) (pages map[string]string, err error) {
	defer recoverExtraction("plaintext", &err)

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages = make(map[string]string)
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages[strconv.Itoa(i)] = text
		}
	}
	return pages, nil
}

// extractByRows rebuilds page text from positioned text rows. Some
// layout-heavy PDFs yield text here that the plain-text walk misses.
func extractByRows(path string) (pages map[string]string, err error) {
	defer recoverExtraction("rows", &err)

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages = make(map[string]string)
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		var sb strings.Builder
		for _, row := range rows {
			for _, word := range row.Content {
				sb.WriteString(word.S)
			}
			sb.WriteString("\n")
		}
		if text := sb.String(); strings.TrimSpace(text) != "" {
			pages[strconv.Itoa(i)] = text
		}
	}
	return pages, nil
}

func countPages(path string) (n int, err error) {
	defer recoverExtraction("pagecount", &err)

	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	return reader.NumPage(), nil
}

// recoverExtraction converts panics from the pdf library into strategy
// errors, so one malformed content stream doesn't take the request down.
func recoverExtraction(name string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("pdf %s extraction panicked: %v", name, r)
	}
}
