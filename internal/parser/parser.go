package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pdfchunk/internal/doctree"
)

// ErrUnsupportedType is returned for file extensions no loader handles.
var ErrUnsupportedType = errors.New("unsupported file type")

// Loader turns raw document bytes into a page-addressable Document.
type Loader interface {
	Load(data []byte, filename string) (doctree.Document, error)
}

// Options tune the loaders built by ForFile.
type Options struct {
	// FallbackPdftotext retries unreadable PDFs with the pdftotext binary.
	FallbackPdftotext bool
	// TextMode selects how page text is pulled from a PDF.
	TextMode TextMode
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".docx":     true,
}

// ForFile returns the appropriate loader for a filename.
func ForFile(filename string, opts Options) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFLoader{FallbackPdftotext: opts.FallbackPdftotext, Mode: opts.TextMode}, nil
	case ".txt":
		return &TextLoader{}, nil
	case ".md", ".markdown":
		return &MarkdownLoader{}, nil
	case ".csv":
		return &CSVLoader{}, nil
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// OpenBytes loads an in-memory document, picking the loader by filename.
func OpenBytes(data []byte, filename string, opts Options) (doctree.Document, error) {
	l, err := ForFile(filename, opts)
	if err != nil {
		return nil, err
	}
	return l.Load(data, filename)
}

// Open loads a document from disk. PDFs keep the file open until the
// returned Document is closed.
func Open(path string, opts Options) (doctree.Document, error) {
	if !IsSupportedExtension(path) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(path))
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return openPDFFile(path, opts)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return OpenBytes(data, filepath.Base(path), opts)
}

// unreadable wraps a loader failure so callers can match
// doctree.ErrUnreadableDocument.
func unreadable(kind string, err error) error {
	return fmt.Errorf("%w: %s: %v", doctree.ErrUnreadableDocument, kind, err)
}
