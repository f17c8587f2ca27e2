package parser

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/mdcount/internal/doctree"
)

// TextParser handles plain text files. Blank lines separate paragraphs;
// there is no other structure.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string, h doctree.Handler) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	em := doctree.NewEmitter(h)
	var current bytes.Buffer

	flush := func() {
		if current.Len() > 0 {
			em.Wrap(doctree.Paragraph, current.Bytes())
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return err
	}
	return em.Err()
}
