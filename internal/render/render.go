// Package render turns raw page content into the derived HTML and plain-text
// forms stored alongside it. It must be called on every content write, before
// the page is persisted.
package render

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/niklasfasching/go-org/org"
	"golang.org/x/net/html"
)

// linkRegex matches [[Title]] wiki links. The character class mirrors the set
// of characters forbidden in page titles.
var linkRegex = regexp.MustCompile(`\[\[([^()\[\]` + "`" + `*_/\\\n\r]*)\]\]`)

// Rendered holds the derived forms of a page's content.
type Rendered struct {
	HTML string
	Text string
}

// Render converts raw org content into HTML, resolving [[Title]] wiki links
// to /wiki/ URLs, and derives the plain-text form from the rendered HTML.
func Render(content string) (Rendered, error) {
	linked := linkRegex.ReplaceAllStringFunc(content, func(match string) string {
		title := match[2 : len(match)-2]
		return fmt.Sprintf("[[/wiki/%s][%s]]", url.PathEscape(title), title)
	})

	htmlContent, err := org.New().Parse(strings.NewReader(linked), "").Write(newHTMLWriter())
	if err != nil {
		return Rendered{}, fmt.Errorf("error rendering content: %w", err)
	}

	text, err := extractText(htmlContent)
	if err != nil {
		return Rendered{}, fmt.Errorf("error extracting text: %w", err)
	}

	return Rendered{HTML: htmlContent, Text: text}, nil
}

func newHTMLWriter() *org.HTMLWriter {
	w := org.NewHTMLWriter()
	w.HighlightCodeBlock = func(source, lang string, inline bool, params map[string]string) string {
		var buf bytes.Buffer
		lexer := lexers.Get(lang)
		if lexer == nil {
			lexer = lexers.Fallback
		}
		iterator, err := lexer.Tokenise(nil, source)
		if err != nil {
			return source
		}
		formatter := chromahtml.New(chromahtml.WithClasses(true))
		if err := formatter.Format(&buf, styles.Get("friendly"), iterator); err != nil {
			return source
		}
		return buf.String()
	}
	return w
}

// extractText walks the rendered HTML and concatenates its text nodes. The
// result feeds full-text search, never presentation.
func extractText(rendered string) (string, error) {
	root, err := html.Parse(strings.NewReader(rendered))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return strings.TrimSpace(buf.String()), nil
}
