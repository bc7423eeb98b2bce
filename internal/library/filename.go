package library

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the day.month.year format embedded in document filenames.
const DateLayout = "02.01.2006"

// datedName matches the extension-less part of a filename ending in " (DD.MM.YYYY)".
var datedName = regexp.MustCompile(`(?s)^(.*) \((\d{2}\.\d{2}\.\d{4})\)$`)

// Document is a dated file inside a folder.
type Document struct {
	Filename string    // Name as stored on disk
	Label    string    // Filename without the " (DD.MM.YYYY).ext" suffix
	Date     time.Time // Date parsed from the filename
}

// ParseFilename extracts the display label and date from a filename of the form
// "<label> (DD.MM.YYYY)<ext>". The extension match is case-sensitive. Names that
// do not match, or whose date is not a real calendar date, report false.
func ParseFilename(name, ext string) (Document, bool) {
	if ext == "" || !strings.HasSuffix(name, ext) {
		return Document{}, false
	}
	m := datedName.FindStringSubmatch(strings.TrimSuffix(name, ext))
	if m == nil {
		return Document{}, false
	}
	date, err := time.Parse(DateLayout, m[2])
	if err != nil {
		return Document{}, false
	}
	return Document{
		Filename: name,
		Label:    m[1],
		Date:     date,
	}, true
}

// DisplayName is the label shown for the document. A document named only by its
// date suffix falls back to its filename.
func (d Document) DisplayName() string {
	if d.Label == "" {
		return d.Filename
	}
	return d.Label
}
