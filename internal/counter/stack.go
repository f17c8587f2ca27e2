package counter

import "github.com/dgallion1/mdcount/internal/doctree"

// Entry is one open node on a Stack. Entries with a Tag are HTML
// elements opened by raw markup; they can be closed out of order and are
// closed implicitly by their container.
type Entry struct {
	Kind doctree.Kind
	Tag  string
}

func (e Entry) element() bool { return e.Tag != "" }

// Stack tracks the nodes enclosing the current point of a walk, innermost
// last. It always holds the Document entry at the bottom.
type Stack struct {
	entries []Entry
}

func NewStack() *Stack {
	return &Stack{entries: []Entry{{Kind: doctree.Document}}}
}

// Enter opens a node.
func (s *Stack) Enter(k doctree.Kind) {
	s.entries = append(s.entries, Entry{Kind: k})
}

// Exit closes the innermost node, which must be of kind k. Elements still
// open inside it are closed with it. A failed Exit leaves the stack as it
// was.
func (s *Stack) Exit(k doctree.Kind) error {
	i := s.nodeIndex()
	top := s.entries[i]
	if i == 0 || top.Kind != k {
		return &StructureError{Op: "exit", Want: k, Got: top.Kind, Depth: s.Depth()}
	}
	s.entries = s.entries[:i]
	return nil
}

// nodeIndex is the position of the innermost entry that is not an element.
func (s *Stack) nodeIndex() int {
	i := len(s.entries) - 1
	for i > 0 && s.entries[i].element() {
		i--
	}
	return i
}

// OpenElement pushes an HTML element entry.
func (s *Stack) OpenElement(k doctree.Kind, tag string) {
	s.entries = append(s.entries, Entry{Kind: k, Tag: tag})
}

// CloseElement removes the innermost open element named tag together with
// any elements opened after it. Nodes above it stay where they are. It
// reports false, and changes nothing, when no such element is open.
func (s *Stack) CloseElement(tag string) bool {
	at := -1
	for i := len(s.entries) - 1; i > 0; i-- {
		if s.entries[i].Tag == tag {
			at = i
			break
		}
	}
	if at < 0 {
		return false
	}
	kept := s.entries[:at]
	for _, e := range s.entries[at+1:] {
		if !e.element() {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return true
}

// DetachElements pops the elements above the innermost node and returns
// them outermost first.
func (s *Stack) DetachElements() []Entry {
	i := s.nodeIndex() + 1
	out := append([]Entry(nil), s.entries[i:]...)
	s.entries = s.entries[:i]
	return out
}

// AttachElements pushes elements previously returned by DetachElements.
func (s *Stack) AttachElements(es []Entry) {
	s.entries = append(s.entries, es...)
}

// TopElements returns the elements above the innermost node without
// removing them.
func (s *Stack) TopElements() []Entry {
	return append([]Entry(nil), s.entries[s.nodeIndex()+1:]...)
}

// HasElement reports whether an element named tag is open anywhere.
func (s *Stack) HasElement(tag string) bool {
	for _, e := range s.entries[1:] {
		if e.Tag == tag {
			return true
		}
	}
	return false
}

// Depth is the number of open entries, Document included.
func (s *Stack) Depth() int {
	return len(s.entries)
}

// Top returns the innermost entry.
func (s *Stack) Top() Entry {
	return s.entries[len(s.entries)-1]
}

// Entries returns a copy of the open entries, outermost first.
func (s *Stack) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}
