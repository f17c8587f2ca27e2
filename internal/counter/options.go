package counter

import (
	"fmt"
	"strings"
)

// Options selects which structural categories count toward the total.
// Bit positions are part of the serialized form and never change.
type Options uint16

const (
	InlineCode Options = 1 << 0
	// 1 << 1 is reserved.
	CodeBlocks  Options = 1 << 2
	Tables      Options = 1 << 3
	Footnotes   Options = 1 << 4
	HTML        Options = 1 << 5
	Blockquotes Options = 1 << 6
	Metadata    Options = 1 << 7
	Headings    Options = 1 << 8

	None    Options = 0
	All     Options = InlineCode | CodeBlocks | Tables | Footnotes | HTML | Blockquotes | Metadata | Headings
	Default Options = Headings | Footnotes | Tables
)

var flagNames = []struct {
	flag Options
	name string
}{
	{Headings, "headings"},
	{Blockquotes, "blockquotes"},
	{CodeBlocks, "code-blocks"},
	{InlineCode, "inline-code"},
	{Footnotes, "footnotes"},
	{Tables, "tables"},
	{HTML, "html"},
	{Metadata, "metadata"},
}

// Flags returns every individual flag keyed by its text name.
func Flags() map[string]Options {
	out := make(map[string]Options, len(flagNames))
	for _, f := range flagNames {
		out[f.name] = f.flag
	}
	return out
}

// FlagNames returns the text names of all flags in display order.
func FlagNames() []string {
	out := make([]string, len(flagNames))
	for i, f := range flagNames {
		out[i] = f.name
	}
	return out
}

// Has reports whether every flag in f is set in o.
func (o Options) Has(f Options) bool {
	return o&f == f
}

// Union returns the flags set in o or f.
func (o Options) Union(f Options) Options {
	return o | f
}

// Without returns o with the flags of f cleared.
func (o Options) Without(f Options) Options {
	return o &^ f
}

// Intersect returns the flags set in both o and f.
func (o Options) Intersect(f Options) Options {
	return o & f
}

// Set returns o with f set or cleared.
func (o Options) Set(f Options, on bool) Options {
	if on {
		return o.Union(f)
	}
	return o.Without(f)
}

// String renders o as a comma-separated list of flag names, "none" for
// the empty set.
func (o Options) String() string {
	o &= All
	if o == None {
		return "none"
	}
	var names []string
	for _, f := range flagNames {
		if o.Has(f.flag) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseOptions reads the text form produced by String. It also accepts
// "all", "none" and "default", and underscores in place of hyphens.
func ParseOptions(s string) (Options, error) {
	var o Options
	byName := Flags()
	for _, part := range strings.Split(s, ",") {
		name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(part)), "_", "-")
		switch name {
		case "", "none":
			continue
		case "all":
			o |= All
			continue
		case "default":
			o |= Default
			continue
		}
		f, ok := byName[name]
		if !ok {
			return None, fmt.Errorf("unknown option %q (valid: %s)", part, strings.Join(FlagNames(), ", "))
		}
		o |= f
	}
	return o, nil
}

func (o Options) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Options) UnmarshalText(b []byte) error {
	v, err := ParseOptions(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
