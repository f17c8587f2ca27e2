package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/mdcount/internal/doctree"
)

// ErrUnsupportedFormat is returned for files no parser can read.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Parser reads a document and describes its structure to h as a flat,
// balanced event stream. Errors returned by h stop the parse and are
// returned as is.
type Parser interface {
	Parse(r io.Reader, filename string, h doctree.Handler) error
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Settings holds the knobs shared by the parsers ForFile hands out.
type Settings struct {
	// PdftotextFallback retries PDFs the Go reader cannot open with the
	// pdftotext binary, when it is installed.
	PdftotextFallback bool
}

// DefaultSettings is used by the package-level ForFile.
var DefaultSettings = Settings{PdftotextFallback: true}

// ForFile returns the appropriate parser for a filename. A name without
// an extension, such as "<stdin>", is read as Markdown.
func (s Settings) ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case "", ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: s.PdftotextFallback}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ForFile returns the parser for filename using DefaultSettings.
func ForFile(filename string) (Parser, error) {
	return DefaultSettings.ForFile(filename)
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == "" || SupportedExtensions[ext]
}
