package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// blockElements end a line of extracted text
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "section": true, "article": true, "title": true,
}

// Prepare turns raw input into the text handed to the engines: visible text
// when the input is HTML, always composed to Unicode NFC
func Prepare(text string, isHTML bool) (string, error) {
	if isHTML {
		plain, err := PlainText(text)
		if err != nil {
			return "", err
		}
		text = plain
	}
	return norm.NFC.String(text), nil
}

// PlainText extracts the visible text of an HTML document, skipping
// scripts/styles. Block elements become line breaks.
func PlainText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var lines []string
	var line strings.Builder
	flush := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			lines = append(lines, s)
		}
		line.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			}
		}

		if n.Type == html.TextNode {
			if words := strings.Fields(n.Data); len(words) > 0 {
				if line.Len() > 0 {
					line.WriteString(" ")
				}
				line.WriteString(strings.Join(words, " "))
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			flush()
		}
	}
	walk(doc)
	flush()

	return strings.Join(lines, "\n"), nil
}
