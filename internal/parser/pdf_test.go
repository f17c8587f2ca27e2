package parser

import (
	"strings"
	"testing"
)

func TestPDFParser_Malformed(t *testing.T) {
	p := &PDFParser{FallbackPdftotext: false}
	err := p.Parse(strings.NewReader("%PDF-1.4 this is not really a pdf"), "broken.pdf", nil)
	if err == nil || !strings.Contains(err.Error(), "extract pdf text") {
		t.Fatalf("expected an extraction error, got %v", err)
	}
}

func TestPDFParser_Empty(t *testing.T) {
	p := &PDFParser{}
	if err := p.Parse(strings.NewReader(""), "empty.pdf", nil); err == nil {
		t.Fatal("expected an error for an empty pdf")
	}
}
