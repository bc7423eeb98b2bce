// Package inspect reads lightweight metadata (title, page and heading counts)
// from document files. It never validates document content; an inspector only
// reports what it can find.
package inspect

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned by ForFile for extensions without an inspector.
var ErrUnsupported = errors.New("unsupported file extension")

// Info is the metadata an inspector could extract. Zero values mean unknown.
type Info struct {
	Title    string `json:"title,omitempty"`
	Pages    int    `json:"pages,omitempty"`
	Headings int    `json:"headings,omitempty"`
}

// Inspector extracts Info from raw document bytes.
type Inspector interface {
	Inspect(data []byte, filename string) (Info, error)
}

// ForFile returns the inspector for a filename's extension.
func ForFile(filename string) (Inspector, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFInspector{}, nil
	case ".docx":
		return &DOCXInspector{}, nil
	case ".html", ".htm":
		return &HTMLInspector{}, nil
	case ".md", ".markdown":
		return &MarkdownInspector{}, nil
	default:
		return nil, fmt.Errorf("%s: %w", ext, ErrUnsupported)
	}
}

// File inspects data using the inspector registered for filename.
func File(data []byte, filename string) (Info, error) {
	in, err := ForFile(filename)
	if err != nil {
		return Info{}, err
	}
	return in.Inspect(data, filename)
}
