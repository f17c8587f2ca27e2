package parser

import (
	"errors"
	"fmt"
	"testing"
)

func TestCSVParser_Table(t *testing.T) {
	got := trace(t, &CSVParser{}, "name,role\nAda,engineer\n", "people.csv")
	want := `+table ` +
		`+table_row +table_cell "name" -table_cell +table_cell "role" -table_cell -table_row ` +
		`+table_row +table_cell "Ada" -table_cell +table_cell "engineer" -table_cell -table_row ` +
		`-table`
	if got != want {
		t.Errorf("events:\n got %s\nwant %s", got, want)
	}
}

func TestCSVParser_RaggedRows(t *testing.T) {
	balanced(t, &CSVParser{}, "a,b,c\nd\ne,f\n", "ragged.csv")
}

func TestCSVParser_Empty(t *testing.T) {
	if got := trace(t, &CSVParser{}, "", "empty.csv"); got != "" {
		t.Errorf("expected no events, got %s", got)
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"README.md", "*parser.MarkdownParser"},
		{"notes.MARKDOWN", "*parser.MarkdownParser"},
		{"<stdin>", "*parser.MarkdownParser"},
		{"notes.txt", "*parser.TextParser"},
		{"data.csv", "*parser.CSVParser"},
		{"page.htm", "*parser.HTMLParser"},
		{"doc.pdf", "*parser.PDFParser"},
		{"doc.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			p, err := ForFile(tt.filename)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := fmt.Sprintf("%T", p); got != tt.want {
				t.Errorf("ForFile(%q) = %s, want %s", tt.filename, got, tt.want)
			}
		})
	}
}

func TestForFile_Unsupported(t *testing.T) {
	_, err := ForFile("image.png")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if IsSupportedExtension("image.png") {
		t.Error("expected .png to be unsupported")
	}
}

func TestSettings_PdftotextFallback(t *testing.T) {
	p, err := Settings{PdftotextFallback: false}.ForFile("doc.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.(*PDFParser).FallbackPdftotext {
		t.Error("expected fallback to follow settings")
	}
}
