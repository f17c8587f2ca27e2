package counter

import "github.com/dgallion1/mdcount/internal/doctree"

// Category is the single Options flag that decides whether a run of text
// counts. Body is the document's own prose and is always counted.
type Category Options

const Body Category = 0

// Included reports whether text governed by c counts under opts.
func (c Category) Included(opts Options) bool {
	return c == Body || opts.Has(Options(c))
}

func (c Category) String() string {
	if c == Body {
		return "body"
	}
	return Options(c).String()
}

// decisive maps each kind that governs inclusion to its category. Kinds
// missing from the table are transparent and defer to their nearest
// decisive ancestor.
var decisive = map[doctree.Kind]Category{
	doctree.Document:   Body,
	doctree.Heading:    Category(Headings),
	doctree.Blockquote: Category(Blockquotes),
	doctree.CodeBlock:  Category(CodeBlocks),
	doctree.InlineCode: Category(InlineCode),
	doctree.Table:      Category(Tables),
	doctree.TableRow:   Category(Tables),
	doctree.TableCell:  Category(Tables),
	doctree.Footnote:   Category(Footnotes),
	doctree.HTMLBlock:  Category(HTML),
	doctree.HTMLInline: Category(HTML),
	doctree.Metadata:   Category(Metadata),
}

// CategoryOf returns the category kind k decides, and false when k is
// transparent.
func CategoryOf(k doctree.Kind) (Category, bool) {
	c, ok := decisive[k]
	return c, ok
}

// GoverningCategory resolves the category of the innermost decisive entry
// on the stack. The Document entry at the bottom guarantees a result.
func GoverningCategory(s *Stack) Category {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if c, ok := CategoryOf(s.entries[i].Kind); ok {
			return c
		}
	}
	return Body
}
