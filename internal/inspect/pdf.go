package inspect

import (
	"bytes"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFInspector reads the page count and the Info dictionary title of a PDF.
type PDFInspector struct{}

func (p *PDFInspector) Inspect(data []byte, filename string) (info Info, err error) {
	// The pdf reader panics on some truncated xref tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf %s: %v", filename, r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("read pdf %s: %w", filename, err)
	}

	info.Pages = reader.NumPage()
	info.Title = strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text())
	return info, nil
}
