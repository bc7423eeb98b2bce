package inspect

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// HTMLInspector reads the <title> and counts h1-h6 elements.
type HTMLInspector struct{}

func (p *HTMLInspector) Inspect(data []byte, filename string) (Info, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("parse html %s: %w", filename, err)
	}
	return Info{
		Title:    findTitle(doc),
		Headings: countHeadings(doc),
	}, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func countHeadings(n *html.Node) int {
	count := 0
	if n.Type == html.ElementNode && headingLevel(n.Data) > 0 {
		count++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countHeadings(c)
	}
	return count
}
