package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/dgallion1/docshelf/internal/library"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var introPolicy = bluemonday.UGCPolicy()

// Markdown converts a folder's intro text to sanitized HTML.
func Markdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(introPolicy.SanitizeBytes(buf.Bytes())), nil
}

// FolderIntro renders the readme file of folder. A folder without one, or an
// empty readme name, yields no intro and no error.
func FolderIntro(lib *library.Library, folder, readme string) (template.HTML, error) {
	if readme == "" {
		return "", nil
	}
	src, err := lib.ReadFile(folder, readme)
	if errors.Is(err, library.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return Markdown(src)
}
