// Package counter counts the words of a document the way a reader would:
// markup never counts, and each structural category of text is counted
// or skipped according to Options.
//
// The innermost node that belongs to a category decides whether a run of
// text counts. A code block inside a blockquote follows CodeBlocks alone,
// and text outside every category always counts.
package counter

import (
	"io"
	"strings"

	"github.com/dgallion1/mdcount/internal/doctree"
	"github.com/dgallion1/mdcount/internal/parser"
)

// Count counts the words of a Markdown document using Default options.
func Count(text string) (int, error) {
	return CountWithOptions(text, Default)
}

// CountWithOptions counts the words of a Markdown document.
func CountWithOptions(text string, opts Options) (int, error) {
	return CountWith(&parser.MarkdownParser{}, strings.NewReader(text), "", opts)
}

// CountEvents counts a pre-built event stream.
func CountEvents(events []doctree.Event, opts Options) (int, error) {
	w := NewWalker(opts)
	for _, ev := range events {
		if err := w.Handle(ev); err != nil {
			return 0, err
		}
	}
	return w.Finish()
}

// CountDocument counts a document of any supported format, chosen by the
// extension of filename.
func CountDocument(r io.Reader, filename string, opts Options) (int, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return 0, err
	}
	return CountWith(p, r, filename, opts)
}

// CountWith counts a document read by p.
func CountWith(p parser.Parser, r io.Reader, filename string, opts Options) (int, error) {
	w := NewWalker(opts)
	if err := p.Parse(r, filename, w); err != nil {
		return 0, err
	}
	return w.Finish()
}
