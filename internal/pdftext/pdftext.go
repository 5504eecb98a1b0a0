// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts the embedded text layer from transcript PDFs.
// Only the text layer is read; scanned image-only PDFs would need OCR and
// are reported as errors instead.
// Implements: prd001-intake (R1-R3);
//
//	docs/ARCHITECTURE § Intake.
package pdftext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageBreak joins page texts so downstream normalization sees a line break
// and a page-break control character at each boundary (R2.2).
const pageBreak = "\n\f\n"

// ExtractFile returns the text content of a transcript input. PDF inputs go
// through text-layer extraction; .txt inputs are read as-is so already
// extracted text can be reparsed (R1.2).
func ExtractFile(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading text input %s: %w", path, err)
		}
		return string(data), nil
	}
	return extractPDF(path)
}

// extractPDF pulls the embedded text layer page by page, caching font
// objects across pages since transcripts reuse the same few fonts (R2.1).
func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	fonts := make(map[string]*pdf.Font)
	var pages []string

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("reading pdf page %d of %s: %w", i, path, err)
		}
		pages = append(pages, text)
	}

	joined := joinPages(pages)
	if strings.TrimSpace(joined) == "" {
		return "", fmt.Errorf("no text layer in %s (scanned image or empty document)", path)
	}
	return joined, nil
}

// joinPages concatenates page texts with the page-break separator, skipping
// blank pages.
func joinPages(pages []string) string {
	kept := make([]string, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p) == "" {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, pageBreak)
}
