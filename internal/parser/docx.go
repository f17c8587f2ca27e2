package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mdcount/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading and quote paragraph styles map
// to headings and blockquotes; tables keep their rows and cells.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string, h doctree.Handler) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("parse docx: %w", err)
	}

	em := doctree.NewEmitter(h)
	for _, item := range doc.Document.Body.Items {
		switch o := item.(type) {
		case *docx.Paragraph:
			emitDocxParagraph(em, o)
		case *docx.Table:
			emitDocxTable(em, o)
		}
		if err := em.Err(); err != nil {
			return err
		}
	}
	return nil
}

func emitDocxParagraph(em *doctree.Emitter, para *docx.Paragraph) {
	text := docxParagraphText(para)
	if text == "" {
		return
	}
	style := docxStyle(para)
	switch {
	case docxHeadingLevel(style) > 0:
		em.Wrap(doctree.Heading, []byte(text))
	case isDocxQuote(style):
		em.Enter(doctree.Blockquote)
		em.Wrap(doctree.Paragraph, []byte(text))
		em.Exit(doctree.Blockquote)
	default:
		em.Wrap(doctree.Paragraph, []byte(text))
	}
}

func emitDocxTable(em *doctree.Emitter, tbl *docx.Table) {
	em.Enter(doctree.Table)
	for _, tr := range tbl.TableRows {
		em.Enter(doctree.TableRow)
		for _, tc := range tr.TableCells {
			em.Enter(doctree.TableCell)
			for _, para := range tc.Paragraphs {
				emitDocxParagraph(em, para)
			}
			for _, nested := range tc.Tables {
				emitDocxTable(em, nested)
			}
			em.Exit(doctree.TableCell)
		}
		em.Exit(doctree.TableRow)
	}
	em.Exit(doctree.Table)
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

func docxHeadingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if s == "title" {
		return 1
	}
	if !strings.HasPrefix(s, "heading") || len(s) != len("heading")+1 {
		return 0
	}
	level := int(s[len(s)-1] - '0')
	if level < 1 || level > 6 {
		return 0
	}
	return level
}

func isDocxQuote(style string) bool {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	return s == "quote" || s == "intensequote"
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			docxRunText(&buf, c)
		case *docx.Hyperlink:
			docxRunText(&buf, &c.Run)
		}
	}
	return strings.TrimSpace(buf.String())
}

func docxRunText(buf *strings.Builder, run *docx.Run) {
	for _, rc := range run.Children {
		if t, ok := rc.(*docx.Text); ok {
			buf.WriteString(t.Text)
		}
	}
}
