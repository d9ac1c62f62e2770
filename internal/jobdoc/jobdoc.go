// Package jobdoc extracts job-description text from uploaded PDF or plain-text files.
package jobdoc

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	TypePDF   = "application/pdf"
	TypePlain = "text/plain"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type (only PDF and TXT allowed)")
	ErrEmpty           = errors.New("no readable text in uploaded file")
)

// DetectType resolves the upload's content type, falling back to the file extension
// when the client sent none. It returns ErrUnsupportedType for anything else.
func DetectType(filename, contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" || ct == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".txt":
			ct = TypePlain
		case ".pdf":
			ct = TypePDF
		}
	}
	switch ct {
	case TypePDF, TypePlain:
		return ct, nil
	default:
		return "", ErrUnsupportedType
	}
}

// ExtractText returns the document text with surrounding whitespace trimmed.
func ExtractText(filename, contentType string, content []byte) (string, error) {
	ct, err := DetectType(filename, contentType)
	if err != nil {
		return "", err
	}

	text := string(content)
	if ct == TypePDF {
		text, err = extractPDF(content)
		if err != nil {
			return "", fmt.Errorf("read pdf %q: %w", filename, err)
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

func extractPDF(content []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
