package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/dgallion1/mdcount/internal/doctree"
)

// CSVParser handles CSV files. The whole file is one table; the header
// row is a row like any other.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string, h doctree.Handler) error {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	em := doctree.NewEmitter(h)
	opened := false
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("parse csv: %w", err)
		}
		if !opened {
			em.Enter(doctree.Table)
			opened = true
		}
		em.Enter(doctree.TableRow)
		for _, cell := range record {
			em.Wrap(doctree.TableCell, []byte(cell))
		}
		em.Exit(doctree.TableRow)
		if err := em.Err(); err != nil {
			return err
		}
	}
	if opened {
		em.Exit(doctree.Table)
	}
	return em.Err()
}
