// Package typepath models the qualified type paths the generator encounters
// in schema metadata and substitution configuration: a sequence of
// identifier segments with an optional leading global separator, where any
// segment may carry generic arguments.
//
// Paths compare structurally, but the table's map key is the canonical
// whitespace-free text returned by String. Both sides of the substitution
// table (ingestion and lookup) derive their key through the same function so
// that equivalent but differently formatted paths land on the same entry.
package typepath

import (
	"strings"

	"github.com/airzhe/subxt/internal/diagnostics"
)

// SelfCrate is the reserved first segment denoting the target project's own
// root namespace. A path starting with it is absolute, same as a path
// starting with the global separator.
const SelfCrate = "crate"

// Separator joins path segments in textual form.
const Separator = "::"

// ArgKind discriminates the kinds of generic arguments a segment can carry.
type ArgKind int

const (
	// ArgType is a type argument, the only kind that participates in
	// substitution matching.
	ArgType ArgKind = iota
	// ArgLifetime is a lifetime argument such as 'a.
	ArgLifetime
	// ArgConst is a const argument such as an integer or bool literal.
	ArgConst
)

// Arg is one generic argument on a path segment.
type Arg struct {
	Kind ArgKind
	Type *Path  // set when Kind == ArgType
	Raw  string // original text for lifetime and const arguments
	Pos  diagnostics.Pos
}

// Segment is one identifier of a path, optionally with generic arguments.
type Segment struct {
	Ident string
	Args  []Arg
	Pos   diagnostics.Pos
}

// TypeArgs returns the segment's type arguments in order, with lifetime and
// const arguments filtered out.
func (s *Segment) TypeArgs() []*Path {
	var args []*Path
	for i := range s.Args {
		if s.Args[i].Kind == ArgType {
			args = append(args, s.Args[i].Type)
		}
	}
	return args
}

// Path is a parsed type path.
type Path struct {
	// Leading reports whether the path starts with the global separator.
	Leading  bool
	Segments []Segment
}

// IsAbsolute reports whether the path is anchored: it starts with the
// global separator or its first segment is the self-crate marker.
func (p *Path) IsAbsolute() bool {
	if p.Leading {
		return true
	}
	return len(p.Segments) > 0 && p.Segments[0].Ident == SelfCrate
}

// Last returns the final segment, or nil for an empty path.
func (p *Path) Last() *Segment {
	if len(p.Segments) == 0 {
		return nil
	}
	return &p.Segments[len(p.Segments)-1]
}

// Join returns a new path extending p with plain (argument-free) segments.
func (p *Path) Join(idents ...string) *Path {
	joined := &Path{
		Leading:  p.Leading,
		Segments: make([]Segment, 0, len(p.Segments)+len(idents)),
	}
	joined.Segments = append(joined.Segments, p.Segments...)
	for _, ident := range idents {
		joined.Segments = append(joined.Segments, Segment{Ident: ident})
	}
	return joined
}

// String renders the canonical whitespace-free text of the path, generic
// arguments included. This is the table's key-derivation function.
func (p *Path) String() string {
	var b strings.Builder
	p.write(&b)
	return b.String()
}

func (p *Path) write(b *strings.Builder) {
	if p.Leading {
		b.WriteString(Separator)
	}
	for i := range p.Segments {
		if i > 0 {
			b.WriteString(Separator)
		}
		seg := &p.Segments[i]
		b.WriteString(seg.Ident)
		if len(seg.Args) == 0 {
			continue
		}
		b.WriteByte('<')
		for j := range seg.Args {
			if j > 0 {
				b.WriteByte(',')
			}
			arg := &seg.Args[j]
			if arg.Kind == ArgType {
				arg.Type.write(b)
			} else {
				b.WriteString(arg.Raw)
			}
		}
		b.WriteByte('>')
	}
}

// Equal reports structural equality, ignoring positions. Type arguments
// compare recursively; lifetime and const arguments compare by text.
func (p *Path) Equal(other *Path) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.Leading != other.Leading || len(p.Segments) != len(other.Segments) {
		return false
	}
	for i := range p.Segments {
		a, b := &p.Segments[i], &other.Segments[i]
		if a.Ident != b.Ident || len(a.Args) != len(b.Args) {
			return false
		}
		for j := range a.Args {
			if !a.Args[j].equal(&b.Args[j]) {
				return false
			}
		}
	}
	return true
}

func (a *Arg) equal(b *Arg) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == ArgType {
		return a.Type.Equal(b.Type)
	}
	return a.Raw == b.Raw
}

// HasGenerics reports whether any segment of the path carries generic
// arguments.
func (p *Path) HasGenerics() bool {
	for i := range p.Segments {
		if len(p.Segments[i].Args) > 0 {
			return true
		}
	}
	return false
}
