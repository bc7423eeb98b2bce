package render

import (
	"net/url"
	"strings"
)

// Links builds the hrefs placed in rendered pages.
type Links interface {
	Index() string
	Folder(folder string) string
	Document(folder, filename string) string
}

// ServerLinks points at the routes served by the HTTP server.
type ServerLinks struct{}

func (ServerLinks) Index() string { return "/" }

func (ServerLinks) Folder(folder string) string {
	return "/folder/" + url.PathEscape(folder)
}

func (ServerLinks) Document(folder, filename string) string {
	return "/pdf/" + url.PathEscape(folder) + "/" + url.PathEscape(filename)
}

// StaticLinks points at a generated output tree. Folder pages are linked
// relative to the output root, prefixed with "./" so a colon in a folder name
// is not read as a URL scheme; documents are fetched from DocumentBase, which
// is empty when the pages are served from the same host as the documents.
type StaticLinks struct {
	DocumentBase string
}

func (StaticLinks) Index() string { return "../index.html" }

func (StaticLinks) Folder(folder string) string {
	return "./" + url.PathEscape(folder) + "/index.html"
}

func (s StaticLinks) Document(folder, filename string) string {
	return strings.TrimSuffix(s.DocumentBase, "/") + ServerLinks{}.Document(folder, filename)
}
