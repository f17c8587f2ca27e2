package doctree

// Kind identifies a structural node a run of text can sit inside.
type Kind uint8

const (
	Document Kind = iota
	Heading
	Paragraph
	Blockquote
	List
	ListItem
	CodeBlock
	InlineCode
	Table
	TableRow
	TableCell
	Footnote
	HTMLBlock
	HTMLInline
	Metadata

	// Inline formatting. These never decide inclusion on their own.
	Emphasis
	Strong
	Link
	Image
	Strikethrough
)

var kindNames = [...]string{
	Document:      "document",
	Heading:       "heading",
	Paragraph:     "paragraph",
	Blockquote:    "blockquote",
	List:          "list",
	ListItem:      "list_item",
	CodeBlock:     "code_block",
	InlineCode:    "inline_code",
	Table:         "table",
	TableRow:      "table_row",
	TableCell:     "table_cell",
	Footnote:      "footnote",
	HTMLBlock:     "html_block",
	HTMLInline:    "html_inline",
	Metadata:      "metadata",
	Emphasis:      "emphasis",
	Strong:        "strong",
	Link:          "link",
	Image:         "image",
	Strikethrough: "strikethrough",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsHTML reports whether k wraps raw HTML markup.
func (k Kind) IsHTML() bool {
	return k == HTMLBlock || k == HTMLInline
}

// EventType distinguishes the entries of a document's event stream.
type EventType uint8

const (
	Enter EventType = iota + 1 // a node opens
	Exit                       // the most recently opened node of Kind closes
	Text                       // literal text
	HTML                       // raw markup inside an HTMLBlock or HTMLInline node
)

func (t EventType) String() string {
	switch t {
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	case Text:
		return "text"
	case HTML:
		return "html"
	}
	return "unknown"
}

// Event is one step of a flat, well-nested walk over a document.
// Text holds a slice of the source for Text and HTML events; it is
// only valid for the duration of the Handle call.
type Event struct {
	Type EventType
	Kind Kind
	Text []byte
}

// Handler consumes a document's event stream. The stream starts inside
// an implicit Document node, so producers never emit Document events.
type Handler interface {
	Handle(ev Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ev Event) error

func (f HandlerFunc) Handle(ev Event) error { return f(ev) }

// Emitter wraps a Handler with the helpers producers use and records the
// first error so producers can keep walking without checking every call.
type Emitter struct {
	h   Handler
	err error
}

func NewEmitter(h Handler) *Emitter {
	return &Emitter{h: h}
}

func (e *Emitter) emit(ev Event) {
	if e.err != nil {
		return
	}
	e.err = e.h.Handle(ev)
}

// Enter opens a node of kind k.
func (e *Emitter) Enter(k Kind) { e.emit(Event{Type: Enter, Kind: k}) }

// Exit closes a node of kind k.
func (e *Emitter) Exit(k Kind) { e.emit(Event{Type: Exit, Kind: k}) }

// Text emits literal text. Empty text is dropped.
func (e *Emitter) Text(b []byte) {
	if len(b) == 0 {
		return
	}
	e.emit(Event{Type: Text, Text: b})
}

// HTML emits raw markup.
func (e *Emitter) HTML(b []byte) {
	if len(b) == 0 {
		return
	}
	e.emit(Event{Type: HTML, Text: b})
}

// Wrap emits text wrapped in a node of kind k.
func (e *Emitter) Wrap(k Kind, b []byte) {
	e.Enter(k)
	e.Text(b)
	e.Exit(k)
}

// Err returns the first error returned by the handler.
func (e *Emitter) Err() error {
	return e.err
}

// Recorder is a Handler that keeps a copy of every event. Useful for
// inspecting what a parser produced.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Handle(ev Event) error {
	if ev.Text != nil {
		ev.Text = append([]byte(nil), ev.Text...)
	}
	r.Events = append(r.Events, ev)
	return nil
}
