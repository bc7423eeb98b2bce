package inspect

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownInspector counts top-level headings; the first one becomes the title.
type MarkdownInspector struct{}

func (p *MarkdownInspector) Inspect(data []byte, filename string) (Info, error) {
	doc := goldmark.DefaultParser().Parse(text.NewReader(data))

	var info Info
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		info.Headings++
		if info.Title == "" {
			info.Title = string(heading.Text(data))
		}
	}
	return info, nil
}
