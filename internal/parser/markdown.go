package parser

import (
	"bytes"
	"io"

	"github.com/dgallion1/mdcount/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MarkdownParser handles Markdown files using goldmark, with the GFM,
// footnote and definition list extensions and optional front matter.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string, h doctree.Handler) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	em := doctree.NewEmitter(h)
	if meta, body, ok := splitFrontMatter(src); ok {
		em.Wrap(doctree.Metadata, meta)
		src = body
	}
	if err := em.Err(); err != nil {
		return err
	}

	md := goldmark.New(goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
		extension.DefinitionList,
	))
	doc := md.Parser().Parse(text.NewReader(src))

	w := &markdownWalker{em: em, src: src}
	return ast.Walk(doc, w.visit)
}

// markdownWalker turns the goldmark AST into events. goldmark splits a
// run of text at delimiter characters, so adjacent text nodes are joined
// into one Text event before any other node is handled.
type markdownWalker struct {
	em   *doctree.Emitter
	src  []byte
	text []byte
}

func (w *markdownWalker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.(type) {
	case *ast.Text, *ast.String:
	default:
		w.flush()
	}
	status := w.node(n, entering)
	return status, w.em.Err()
}

func (w *markdownWalker) flush() {
	if len(w.text) == 0 {
		return
	}
	w.em.Text(w.text)
	w.text = nil
}

// appendText adds a text node's value, resolving backslash escapes and
// character references unless the node is raw, as in code spans.
func (w *markdownWalker) appendText(value []byte, raw bool) {
	if !raw {
		value = util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(value)))
	}
	w.text = append(w.text, value...)
}

func (w *markdownWalker) node(n ast.Node, entering bool) ast.WalkStatus {
	switch node := n.(type) {
	case *ast.Text:
		if entering {
			w.appendText(node.Value(w.src), node.IsRaw())
			if node.SoftLineBreak() || node.HardLineBreak() {
				w.text = append(w.text, '\n')
			}
		}
		return ast.WalkContinue
	case *ast.String:
		if entering {
			w.appendText(node.Value, node.IsRaw())
		}
		return ast.WalkContinue
	case *ast.CodeBlock, *ast.FencedCodeBlock:
		if entering {
			w.em.Wrap(doctree.CodeBlock, segmentsValue(n.Lines(), w.src))
		}
		return ast.WalkSkipChildren
	case *ast.HTMLBlock:
		if entering {
			raw := segmentsValue(node.Lines(), w.src)
			if node.HasClosure() {
				raw = append(raw, node.ClosureLine.Value(w.src)...)
			}
			w.em.Enter(doctree.HTMLBlock)
			w.em.HTML(raw)
			w.em.Exit(doctree.HTMLBlock)
		}
		return ast.WalkSkipChildren
	case *ast.RawHTML:
		if entering {
			w.em.Enter(doctree.HTMLInline)
			w.em.HTML(segmentsValue(node.Segments, w.src))
			w.em.Exit(doctree.HTMLInline)
		}
		return ast.WalkSkipChildren
	case *ast.AutoLink:
		if entering {
			w.em.Wrap(doctree.Link, node.Label(w.src))
		}
		return ast.WalkSkipChildren
	case *ast.ThematicBreak, *east.FootnoteLink, *east.FootnoteBacklink, *east.TaskCheckBox:
		// Markers only; nothing to read.
		return ast.WalkSkipChildren
	}

	k, ok := markdownKind(n)
	if !ok {
		return ast.WalkContinue
	}
	if entering {
		w.em.Enter(k)
	} else {
		w.em.Exit(k)
	}
	return ast.WalkContinue
}

// markdownKind maps container nodes to their structural kind. Nodes it
// does not know, the document itself and the footnote list among them,
// pass their children through without a node of their own.
func markdownKind(n ast.Node) (doctree.Kind, bool) {
	switch node := n.(type) {
	case *ast.Heading:
		return doctree.Heading, true
	case *ast.Paragraph, *ast.TextBlock:
		return doctree.Paragraph, true
	case *ast.Blockquote:
		return doctree.Blockquote, true
	case *ast.List, *east.DefinitionList:
		return doctree.List, true
	case *ast.ListItem, *east.DefinitionTerm, *east.DefinitionDescription:
		return doctree.ListItem, true
	case *ast.CodeSpan:
		return doctree.InlineCode, true
	case *ast.Emphasis:
		if node.Level >= 2 {
			return doctree.Strong, true
		}
		return doctree.Emphasis, true
	case *ast.Link:
		return doctree.Link, true
	case *ast.Image:
		return doctree.Image, true
	case *east.Table:
		return doctree.Table, true
	case *east.TableHeader, *east.TableRow:
		return doctree.TableRow, true
	case *east.TableCell:
		return doctree.TableCell, true
	case *east.Strikethrough:
		return doctree.Strikethrough, true
	case *east.Footnote:
		return doctree.Footnote, true
	}
	return 0, false
}

func segmentsValue(segs *text.Segments, src []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.Bytes()
}
