package ast

import (
	"io"

	"github.com/fatih/color"
)

// Style is a pretty-print formatting hint: each fragment of
// emitted source is tagged with the kind of thing it represents so a
// terminal-aware Printer can colourize it.
type Style int

const (
	Plain Style = iota
	ActionStyle
	LiteralStyle
	DefinitionStyle
	OperatorStyle
	ReferenceStyle
	TypeStyle
	FilenameStyle
)

// Printer is the sink PrettyPrint writes styled fragments to. PlainPrinter
// discards styling (used for pretty-print/round-trip testing, where ANSI
// codes would corrupt the text); ANSIPrinter colourizes via fatih/color,
// the same library the CLI uses for diagnostics.
type Printer interface {
	Write(s Style, text string)
	Indent(level int)
}

// PlainPrinter renders styled fragments as plain text.
type PlainPrinter struct {
	Out io.Writer
}

func NewPlainPrinter(w io.Writer) *PlainPrinter { return &PlainPrinter{Out: w} }

func (p *PlainPrinter) Write(_ Style, text string) {
	io.WriteString(p.Out, text)
}

func (p *PlainPrinter) Indent(level int) {
	for i := 0; i < level; i++ {
		io.WriteString(p.Out, "    ")
	}
}

// ANSIPrinter renders styled fragments with terminal colour, for the CLI's
// `print-ast` / REPL output.
type ANSIPrinter struct {
	Out    io.Writer
	colors map[Style]*color.Color
}

func NewANSIPrinter(w io.Writer) *ANSIPrinter {
	return &ANSIPrinter{
		Out: w,
		colors: map[Style]*color.Color{
			ActionStyle:     color.New(color.FgMagenta),
			LiteralStyle:    color.New(color.FgGreen),
			DefinitionStyle: color.New(color.FgCyan, color.Bold),
			OperatorStyle:   color.New(color.FgWhite),
			ReferenceStyle:  color.New(color.FgBlue),
			TypeStyle:       color.New(color.FgYellow),
			FilenameStyle:   color.New(color.FgGreen, color.Underline),
		},
	}
}

func (p *ANSIPrinter) Write(s Style, text string) {
	if c, ok := p.colors[s]; ok {
		c.Fprint(p.Out, text)
		return
	}
	io.WriteString(p.Out, text)
}

func (p *ANSIPrinter) Indent(level int) {
	for i := 0; i < level; i++ {
		io.WriteString(p.Out, "    ")
	}
}
