// Package render produces the HTML index and folder pages.
package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/dgallion1/docshelf/internal/library"
)

const pageStyle = `
        body {
            font-family: Arial, sans-serif;
            background-color: #f4f4f4;
            padding: 20px;
        }
        h1 {
            text-align: center;
        }
        a {
            color: #000;
            text-decoration: none;
        }
        a:hover {
            color: #000;
            text-decoration: none;
        }`

const indexTemplate = `<!DOCTYPE html>
<html lang="de">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Fächerübersicht</title>
    <style>{{template "style"}}
        .folder-link {
            display: block;
            margin: 10px 0;
            padding: 10px;
            background-color: #ddd;
            border-radius: 5px;
            color: #333;
            font-size: 18px;
        }
        .folder-link:hover {
            background-color: #bbb;
        }
    </style>
</head>
<body>
    <h1>Fächerübersicht</h1>
    <div id="folders-container">
{{- range .}}
        <a href="{{.Href}}" class="folder-link">{{.Name}}</a>
{{- end}}
    </div>
</body>
</html>
`

const folderTemplate = `<!DOCTYPE html>
<html lang="de">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Übersicht - {{.Name}}</title>
    <style>{{template "style"}}
        .pdf-container {
            display: grid;
            grid-template-columns: repeat(auto-fill, minmax(200px, 1fr));
            gap: 20px;
        }
        .pdf-box {
            padding: 10px;
            background-color: #fff;
            border: 1px solid #ccc;
            border-radius: 5px;
            text-align: center;
            cursor: pointer;
        }
        .pdf-meta {
            display: block;
            margin-top: 5px;
            color: #666;
            font-size: 12px;
        }
        .intro {
            max-width: 800px;
            margin: 0 auto 20px;
        }
    </style>
</head>
<body>
    <p><a href="{{.IndexHref}}">&larr; Fächerübersicht</a></p>
    <h1>PDF Übersicht - {{.Name}}</h1>
{{- if .Intro}}
    <div class="intro">{{.Intro}}</div>
{{- end}}
    <div class="pdf-container">
{{- range .Documents}}
        <div class="pdf-box"><a href="{{.Href}}" target="_blank" rel="noopener">{{.Label}}<span class="pdf-meta">{{.Date}}{{if .Pages}} &middot; {{.Pages}} S.{{end}}</span></a></div>
{{- end}}
    </div>
</body>
</html>
`

// DocumentView is one document box on a folder page.
type DocumentView struct {
	Label    string
	Filename string
	Date     string
	Pages    int
}

// FolderPage is the input to Renderer.Folder.
type FolderPage struct {
	Name      string
	Documents []DocumentView
	Intro     template.HTML // Sanitized HTML shown above the grid, may be empty
}

// Views converts indexed documents into their display form, keeping order.
func Views(docs []library.Document) []DocumentView {
	views := make([]DocumentView, len(docs))
	for i, d := range docs {
		views[i] = DocumentView{
			Label:    d.DisplayName(),
			Filename: d.Filename,
			Date:     d.Date.Format(library.DateLayout),
		}
	}
	return views
}

// Renderer executes the page templates. It is safe for concurrent use.
type Renderer struct {
	index  *template.Template
	folder *template.Template
	links  Links
}

// New parses the page templates. Links decides where rendered hrefs point.
func New(links Links) *Renderer {
	base := template.Must(template.New("style").Parse(pageStyle))
	return &Renderer{
		index:  template.Must(template.Must(base.Clone()).New("index").Parse(indexTemplate)),
		folder: template.Must(template.Must(base.Clone()).New("folder").Parse(folderTemplate)),
		links:  links,
	}
}

type folderLink struct {
	Name string
	Href string
}

// Index writes the folder overview. An empty list still yields a complete page.
func (r *Renderer) Index(w io.Writer, folders []string) error {
	items := make([]folderLink, len(folders))
	for i, f := range folders {
		items[i] = folderLink{Name: f, Href: r.links.Folder(f)}
	}
	if err := r.index.ExecuteTemplate(w, "index", items); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	return nil
}

type documentLink struct {
	DocumentView
	Href string
}

// Folder writes the document grid for one folder in the given order.
func (r *Renderer) Folder(w io.Writer, page FolderPage) error {
	docs := make([]documentLink, len(page.Documents))
	for i, d := range page.Documents {
		docs[i] = documentLink{DocumentView: d, Href: r.links.Document(page.Name, d.Filename)}
	}
	data := struct {
		Name      string
		IndexHref string
		Intro     template.HTML
		Documents []documentLink
	}{
		Name:      page.Name,
		IndexHref: r.links.Index(),
		Intro:     page.Intro,
		Documents: docs,
	}
	if err := r.folder.ExecuteTemplate(w, "folder", data); err != nil {
		return fmt.Errorf("render folder %q: %w", page.Name, err)
	}
	return nil
}
