package parser

import (
	"bytes"
	"encoding/json"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// frontMatterFormats are the delimiters recognised at the top of a
// Markdown document. A bare "{" opener is left out: it reads too many
// ordinary documents as JSON.
var frontMatterFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("---yaml", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
	frontmatter.NewFormat("---toml", "---", toml.Unmarshal),
	frontmatter.NewFormat(";;;", ";;;", json.Unmarshal),
	frontmatter.NewFormat("---json", "---", json.Unmarshal),
}

// splitFrontMatter separates a leading front matter block from the
// Markdown body. It returns the block's content without its delimiter
// lines. ok is false when there is no block, when it does not decode, or
// when it decodes to nothing; the whole source is then Markdown.
func splitFrontMatter(src []byte) (meta, body []byte, ok bool) {
	var fields map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader(src), &fields, frontMatterFormats...)
	if err != nil || len(fields) == 0 || len(rest) == len(src) {
		return nil, src, false
	}
	return innerLines(src[:len(src)-len(rest)]), rest, true
}

// innerLines drops the first and last non-blank lines of block.
func innerLines(block []byte) []byte {
	lines := bytes.SplitAfter(block, []byte("\n"))
	i, j := 0, len(lines)
	for i < j && len(bytes.TrimSpace(lines[i])) == 0 {
		i++
	}
	for j > i && len(bytes.TrimSpace(lines[j-1])) == 0 {
		j--
	}
	if j-i < 2 {
		return nil
	}
	return bytes.Join(lines[i+1:j-1], nil)
}
