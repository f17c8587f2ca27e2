package counter

import (
	"bytes"
	"fmt"

	"github.com/dgallion1/mdcount/internal/doctree"
	"github.com/dgallion1/mdcount/internal/segment"
	"github.com/dgallion1/mdcount/internal/tagscan"
)

// Walker consumes a document's event stream and keeps a running word
// total. A Walker counts one document; it is not safe for concurrent use.
//
// Elements left open by an HTML block carry over to the blocks after it.
// Each following block is held back until it ends: the elements keep
// governing it only if an end tag inside it closes one of them, otherwise
// they are dropped before the block is counted.
type Walker struct {
	opts  Options
	stack *Stack
	scan  tagscan.Scanner
	total int

	held      []doctree.Event
	heldDepth int
}

func NewWalker(opts Options) *Walker {
	return &Walker{opts: opts, stack: NewStack()}
}

func (w *Walker) Handle(ev doctree.Event) error {
	if w.held != nil {
		return w.hold(ev)
	}
	if ev.Type == doctree.Enter && !ev.Kind.IsHTML() && w.carriesBlockElements() {
		w.held = []doctree.Event{ev}
		w.heldDepth = 1
		return nil
	}
	return w.apply(ev)
}

func (w *Walker) apply(ev doctree.Event) error {
	switch ev.Type {
	case doctree.Enter:
		w.stack.Enter(ev.Kind)
	case doctree.Exit:
		if !ev.Kind.IsHTML() {
			err := w.stack.Exit(ev.Kind)
			w.syncScanner()
			return err
		}
		// Elements left open by raw HTML outlive the span that opened them.
		open := w.stack.DetachElements()
		if err := w.stack.Exit(ev.Kind); err != nil {
			w.stack.AttachElements(open)
			return err
		}
		w.stack.AttachElements(open)
	case doctree.Text:
		w.text(ev.Text)
	case doctree.HTML:
		w.html(ev.Text)
	default:
		return fmt.Errorf("unknown event type %d", ev.Type)
	}
	return nil
}

// carriesBlockElements reports whether elements opened by an HTML block
// sit directly above the innermost node.
func (w *Walker) carriesBlockElements() bool {
	for _, e := range w.stack.TopElements() {
		if e.Kind == doctree.HTMLBlock {
			return true
		}
	}
	return false
}

func (w *Walker) hold(ev doctree.Event) error {
	ev.Text = bytes.Clone(ev.Text)
	w.held = append(w.held, ev)
	switch ev.Type {
	case doctree.Enter:
		w.heldDepth++
	case doctree.Exit:
		w.heldDepth--
	}
	if w.heldDepth > 0 {
		return nil
	}
	return w.release()
}

// release replays the held block, first dropping the carried elements
// unless the block closes one of them.
func (w *Walker) release() error {
	held := w.held
	w.held, w.heldDepth = nil, 0

	if !closesAny(held, w.stack.TopElements()) {
		w.stack.DetachElements()
		w.syncScanner()
	}
	if err := w.apply(held[0]); err != nil {
		return err
	}
	for _, ev := range held[1:] {
		if err := w.Handle(ev); err != nil {
			return err
		}
	}
	return nil
}

// closesAny reports whether the raw HTML in events ends any of elements.
func closesAny(events []doctree.Event, elements []Entry) bool {
	open := make(map[string]bool, len(elements))
	for _, e := range elements {
		open[e.Tag] = true
	}
	for _, ev := range events {
		if ev.Type != doctree.HTML {
			continue
		}
		for _, tok := range tagscan.Scan(ev.Text) {
			if tok.Type == tagscan.EndTag && open[tok.Name] {
				return true
			}
		}
	}
	return false
}

// syncScanner forgets a script or style element once the stack no longer
// holds it.
func (w *Walker) syncScanner() {
	if tag := w.scan.Skipping(); tag != "" && !w.stack.HasElement(tag) {
		w.scan.Reset()
	}
}

func (w *Walker) text(b []byte) {
	if w.scan.Skipping() != "" {
		return
	}
	if !GoverningCategory(w.stack).Included(w.opts) {
		return
	}
	w.total += segment.Count(b)
}

func (w *Walker) html(markup []byte) {
	kind := w.htmlKind()
	for _, tok := range w.scan.Scan(markup) {
		switch tok.Type {
		case tagscan.Text:
			w.text(tok.Text)
		case tagscan.StartTag:
			if !tagscan.IsVoid(tok.Name) {
				w.stack.OpenElement(kind, tok.Name)
			}
		case tagscan.EndTag:
			w.stack.CloseElement(tok.Name)
		}
	}
}

// htmlKind is the kind given to elements opened by raw markup: that of the
// innermost HTML node, or HTMLInline when markup arrives outside one.
func (w *Walker) htmlKind() doctree.Kind {
	for i := len(w.stack.entries) - 1; i > 0; i-- {
		e := w.stack.entries[i]
		if e.Kind.IsHTML() {
			return e.Kind
		}
		if !e.element() {
			break
		}
	}
	return doctree.HTMLInline
}

// Total returns the words counted so far.
func (w *Walker) Total() int {
	return w.total
}

// Finish closes any elements still open and checks that every node the
// stream opened was closed.
func (w *Walker) Finish() (int, error) {
	if w.held != nil {
		held := w.held
		w.held, w.heldDepth = nil, 0
		w.stack.DetachElements()
		for _, ev := range held {
			if err := w.apply(ev); err != nil {
				return w.total, err
			}
		}
	}
	w.stack.DetachElements()
	w.scan.Reset()
	if w.stack.Depth() != 1 {
		top := w.stack.Top()
		return w.total, &StructureError{Op: "finish", Got: top.Kind, Depth: w.stack.Depth()}
	}
	return w.total, nil
}
