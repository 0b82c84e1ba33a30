package typepath

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/airzhe/subxt/internal/diagnostics"
)

// Parse reads a single type path from input. Whitespace between tokens is
// insignificant. Paths are single-line, so diagnostics anchor at line 1 with
// the column pointing into input.
func Parse(input string) (*Path, *diagnostics.DiagnosticError) {
	p := newParser(input)
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.ch != 0 {
		return nil, p.errorf(diagnostics.ErrT001, "unexpected character %q after path", p.ch)
	}
	return path, nil
}

// MustParse is Parse for literals known to be valid; it panics on error.
func MustParse(input string) *Path {
	path, err := Parse(input)
	if err != nil {
		panic(fmt.Sprintf("typepath: MustParse(%q): %v", input, err))
	}
	return path
}

type parser struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	column       int  // current column number
}

func newParser(input string) *parser {
	p := &parser{input: input}
	p.readChar()
	return p
}

func (p *parser) readChar() {
	if p.readPosition >= len(p.input) {
		p.ch = 0
		p.position = p.readPosition
		p.readPosition++
		p.column++
		return
	}
	r, w := utf8.DecodeRuneInString(p.input[p.readPosition:])
	p.ch = r
	p.position = p.readPosition
	p.readPosition += w
	p.column++
}

func (p *parser) peekChar() rune {
	if p.readPosition >= len(p.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(p.input[p.readPosition:])
	return r
}

func (p *parser) skipWhitespace() {
	for p.ch == ' ' || p.ch == '\t' || p.ch == '\n' || p.ch == '\r' {
		p.readChar()
	}
}

func (p *parser) pos() diagnostics.Pos {
	return diagnostics.Pos{Line: 1, Column: p.column}
}

func (p *parser) errorf(code diagnostics.ErrorCode, format string, args ...any) *diagnostics.DiagnosticError {
	return diagnostics.NewError(code, p.pos(), format, args...)
}

// parsePath = ["::"] segment { "::" segment }
func (p *parser) parsePath() (*Path, *diagnostics.DiagnosticError) {
	path := &Path{}

	p.skipWhitespace()
	if p.ch == ':' {
		if err := p.expectSeparator(); err != nil {
			return nil, err
		}
		path.Leading = true
	}

	for {
		seg, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		path.Segments = append(path.Segments, *seg)

		p.skipWhitespace()
		if p.ch != ':' {
			return path, nil
		}
		if err := p.expectSeparator(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) expectSeparator() *diagnostics.DiagnosticError {
	if p.ch != ':' || p.peekChar() != ':' {
		return p.errorf(diagnostics.ErrT001, "expected %q", Separator)
	}
	p.readChar()
	p.readChar()
	return nil
}

// parseSegment = ident [ "<" arg { "," arg } ">" ]
func (p *parser) parseSegment() (*Segment, *diagnostics.DiagnosticError) {
	p.skipWhitespace()
	if !isIdentStart(p.ch) {
		if p.ch == 0 {
			return nil, p.errorf(diagnostics.ErrT002, "expected identifier, found end of path")
		}
		return nil, p.errorf(diagnostics.ErrT002, "expected identifier, found %q", p.ch)
	}

	seg := &Segment{Pos: p.pos()}
	seg.Ident = p.readIdent()

	p.skipWhitespace()
	if p.ch != '<' {
		return seg, nil
	}
	p.readChar() // consume '<'

	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		seg.Args = append(seg.Args, *arg)

		p.skipWhitespace()
		switch p.ch {
		case ',':
			p.readChar()
		case '>':
			p.readChar()
			return seg, nil
		case 0:
			return nil, p.errorf(diagnostics.ErrT003, "unterminated generic argument list")
		default:
			return nil, p.errorf(diagnostics.ErrT001, "expected ',' or '>' in generic argument list, found %q", p.ch)
		}
	}
}

// parseArg = lifetime | const-literal | path
//
// Lifetimes and const literals are kept as raw text; only type arguments
// participate in substitution matching.
func (p *parser) parseArg() (*Arg, *diagnostics.DiagnosticError) {
	p.skipWhitespace()
	pos := p.pos()

	if p.ch == '\'' {
		p.readChar()
		if !isIdentStart(p.ch) {
			return nil, p.errorf(diagnostics.ErrT002, "expected lifetime name after '")
		}
		return &Arg{Kind: ArgLifetime, Raw: "'" + p.readIdent(), Pos: pos}, nil
	}

	if unicode.IsDigit(p.ch) {
		start := p.position
		for unicode.IsDigit(p.ch) || p.ch == '_' {
			p.readChar()
		}
		return &Arg{Kind: ArgConst, Raw: p.input[start:p.position], Pos: pos}, nil
	}

	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}

	// Bare true/false is a const expression, not a type.
	if !path.Leading && len(path.Segments) == 1 && len(path.Segments[0].Args) == 0 {
		if ident := path.Segments[0].Ident; ident == "true" || ident == "false" {
			return &Arg{Kind: ArgConst, Raw: ident, Pos: pos}, nil
		}
	}

	return &Arg{Kind: ArgType, Type: path, Pos: pos}, nil
}

func (p *parser) readIdent() string {
	start := p.position
	for isIdentPart(p.ch) {
		p.readChar()
	}
	return p.input[start:p.position]
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}
