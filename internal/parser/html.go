package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mdcount/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. The file's own text is the document
// body; elements map onto the Markdown structure they render, so the
// same options apply to a page and to its Markdown source.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string, h doctree.Handler) error {
	doc, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	w := &htmlWalker{em: doctree.NewEmitter(h)}
	if body := findBody(doc); body != nil {
		w.walk(body)
	} else {
		w.walk(doc)
	}
	return w.em.Err()
}

type htmlWalker struct {
	em    *doctree.Emitter
	inPre int
}

func (w *htmlWalker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.em.Text([]byte(n.Data))
		return
	case html.ElementNode:
	case html.DocumentNode:
		w.children(n)
		return
	default:
		return
	}

	switch n.Data {
	case "script", "style", "head", "template", "noscript":
		return
	case "img":
		if alt := attr(n, "alt"); alt != "" {
			w.em.Wrap(doctree.Image, []byte(alt))
		}
		return
	}
	// Footnote reference numbers and back arrows.
	if role := attr(n, "role"); role == "doc-noteref" || role == "doc-backlink" {
		return
	}

	k, ok := w.htmlKind(n)
	if !ok {
		w.children(n)
		return
	}
	if k == doctree.CodeBlock {
		w.inPre++
		defer func() { w.inPre-- }()
	}
	w.em.Enter(k)
	w.children(n)
	w.em.Exit(k)
}

func (w *htmlWalker) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *htmlWalker) htmlKind(n *html.Node) (doctree.Kind, bool) {
	if headingLevel(n.Data) > 0 {
		return doctree.Heading, true
	}
	if isFootnoteSection(n) {
		return doctree.Footnote, true
	}
	switch n.Data {
	case "p":
		return doctree.Paragraph, true
	case "blockquote":
		return doctree.Blockquote, true
	case "ul", "ol", "dl":
		return doctree.List, true
	case "li", "dt", "dd":
		return doctree.ListItem, true
	case "pre":
		return doctree.CodeBlock, true
	case "code", "kbd", "samp":
		if w.inPre > 0 {
			return 0, false
		}
		return doctree.InlineCode, true
	case "table":
		return doctree.Table, true
	case "tr":
		return doctree.TableRow, true
	case "td", "th":
		return doctree.TableCell, true
	case "em", "i":
		return doctree.Emphasis, true
	case "strong", "b":
		return doctree.Strong, true
	case "a":
		return doctree.Link, true
	case "s", "del", "strike":
		return doctree.Strikethrough, true
	}
	return 0, false
}

// isFootnoteSection recognises the footnote container Markdown renderers
// emit: role="doc-endnotes" or class "footnotes".
func isFootnoteSection(n *html.Node) bool {
	if attr(n, "role") == "doc-endnotes" {
		return true
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == "footnotes" {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
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

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
