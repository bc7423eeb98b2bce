package inspect

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXInspector counts heading paragraphs; the first heading becomes the title.
type DOCXInspector struct{}

func (p *DOCXInspector) Inspect(data []byte, filename string) (Info, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("parse docx %s: %w", filename, err)
	}

	var info Info
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if docxHeadingLevel(para) == 0 {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		info.Headings++
		if info.Title == "" {
			info.Title = text
		}
	}
	return info, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
