// Package substitutes implements the type-path substitution table consulted
// while emitting typed client bindings. When the emitter reaches a named
// type from the schema it asks the table whether the path should be
// rewritten to a target-side type, and with which generic arguments.
//
// A substitution is more than a rename: the source pattern may be generic
// and the target may reorder its parameters, pin one to a concrete type, or
// omit some entirely. The table therefore keeps, next to each target path,
// an optional parameter template describing how the target's generic
// argument list is built from the source's.
//
// The table is built and extended during configuration on a single
// goroutine; after that only Lookup is called, which is read-only and safe
// for any number of concurrent readers.
package substitutes

import (
	"sort"

	"github.com/airzhe/subxt/internal/diagnostics"
	"github.com/airzhe/subxt/internal/typepath"
)

// AbsolutePath is a type path certified to be anchored: it starts with the
// global separator or the self-crate marker. The invariant is established by
// NewAbsolutePath and never broken afterwards.
type AbsolutePath struct {
	path *typepath.Path
}

// NewAbsolutePath validates that p is anchored.
func NewAbsolutePath(p *typepath.Path) (AbsolutePath, *diagnostics.DiagnosticError) {
	if p == nil || !p.IsAbsolute() {
		pos := diagnostics.Pos{Line: 1, Column: 1}
		if p != nil && len(p.Segments) > 0 {
			pos = p.Segments[0].Pos
		}
		return AbsolutePath{}, diagnostics.NewError(diagnostics.ErrS001, pos,
			"the substitute path must be a global absolute path; try prefixing with the global separator `%s` or `%s`",
			typepath.Separator, typepath.SelfCrate)
	}
	return AbsolutePath{path: p}, nil
}

// Path returns the wrapped path.
func (a AbsolutePath) Path() *typepath.Path { return a.path }

// Entry is one user-supplied substitution: rewrite occurrences of Source to
// Target.
type Entry struct {
	Source *typepath.Path
	Target AbsolutePath
}

// SlotKind discriminates parameter template slots.
type SlotKind int

const (
	// SlotPassThrough forwards one of the source's generic arguments.
	SlotPassThrough SlotKind = iota
	// SlotConcrete pins the position to a fixed absolute type path.
	SlotConcrete
)

// ParamSlot is one position of a parameter template.
type ParamSlot struct {
	Kind SlotKind
	// Index is the position of the forwarded parameter among the source
	// pattern's type arguments. Meaningful only for SlotPassThrough.
	Index int
	// Path is the parameter as written on the source pattern for
	// SlotPassThrough, or the pinned absolute path for SlotConcrete.
	Path *typepath.Path
}

// ParamTemplate describes, position by position, how the target's generic
// argument list is built from the source's. An empty (non-nil) template is
// meaningful: the target takes no generic arguments at all.
type ParamTemplate []ParamSlot

// Substitutes is the substitution table: source key to target path, plus an
// optional parameter template per key. Keys are the canonical whitespace-free
// path text, generic arguments included.
type Substitutes struct {
	targets map[string]AbsolutePath
	params  map[string]ParamTemplate
}

// New creates a table seeded with the default substitutions. crateAnchor is
// the generator target project's own root path (an absolute path such as
// `::subxt` or `crate`), under which most default targets live.
func New(crateAnchor *typepath.Path) *Substitutes {
	defaults := []struct {
		source string
		target *typepath.Path
	}{
		{"bitvec::order::Lsb0", crateAnchor.Join("utils", "bits", "Lsb0")},
		{"bitvec::order::Msb0", crateAnchor.Join("utils", "bits", "Msb0")},
		{"sp_core::crypto::AccountId32", crateAnchor.Join("ext", "sp_core", "crypto", "AccountId32")},
		{"primitive_types::H160", crateAnchor.Join("ext", "sp_core", "H160")},
		{"primitive_types::H256", crateAnchor.Join("ext", "sp_core", "H256")},
		{"primitive_types::H512", crateAnchor.Join("ext", "sp_core", "H512")},
		{"sp_runtime::multiaddress::MultiAddress", crateAnchor.Join("ext", "sp_runtime", "MultiAddress")},
		{"frame_support::traits::misc::WrapperKeepOpaque", crateAnchor.Join("utils", "WrapperKeepOpaque")},
		// BTreeMap and BTreeSet impose an ordering constraint on their key
		// types that generated definitions do not implement by default.
		// Decoding them into plain sequences (KeyedVec is a Vec alias with
		// suitable type params) sidesteps the constraint.
		{"BTreeMap", crateAnchor.Join("utils", "KeyedVec")},
		{"BTreeSet", typepath.MustParse("::std::vec::Vec")},
	}

	s := &Substitutes{
		targets: make(map[string]AbsolutePath, len(defaults)),
		params:  make(map[string]ParamTemplate),
	}
	for _, d := range defaults {
		s.targets[d.source] = AbsolutePath{path: d.target}
	}
	return s
}

// Extend ingests user substitutions in order. Each entry is validated and
// inserted independently; the first invalid entry aborts with its diagnostic
// and nothing about that entry is persisted. An entry whose source key is
// already present overwrites both the target and any prior parameter
// template.
func (s *Substitutes) Extend(entries []Entry) *diagnostics.DiagnosticError {
	for i := range entries {
		if err := s.add(&entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Substitutes) add(e *Entry) *diagnostics.DiagnosticError {
	source := e.Source
	target := e.Target.Path()
	if source == nil || len(source.Segments) == 0 || target == nil || len(target.Segments) == 0 {
		return diagnostics.NewError(diagnostics.ErrS003, diagnostics.Pos{Line: 1, Column: 1}, "empty path")
	}

	// Generic arguments are only meaningful on the final segment of the
	// source pattern.
	for i := range source.Segments[:len(source.Segments)-1] {
		seg := &source.Segments[i]
		if len(seg.Args) > 0 {
			return diagnostics.NewError(diagnostics.ErrS002, seg.Args[0].Pos, "namespace segment cannot be generic")
		}
	}

	sourceArgs := source.Last().TypeArgs()
	var template ParamTemplate
	if len(sourceArgs) > 0 {
		// The source declared generics, so the target's argument list is
		// rebuilt from them. An empty template still overrides: lookup then
		// shrinks the effective arguments to the target's arity.
		template = ParamTemplate{}
		for _, arg := range target.Last().Args {
			if arg.Kind != typepath.ArgType {
				continue
			}
			slot, err := resolveSlot(&arg, sourceArgs)
			if err != nil {
				return err
			}
			template = append(template, slot)
		}
	}

	key := source.String()
	s.targets[key] = e.Target
	if template != nil {
		s.params[key] = template
	} else {
		delete(s.params, key)
	}
	return nil
}

// resolveSlot classifies one target generic argument: either it names one of
// the source pattern's generic parameters (pass-through) or it is a concrete
// absolute type (pinned). Anything else is rejected; in particular a nested
// generic such as `::x::Bar<Vec<A>>` stays unsupported rather than emitting
// a target the downstream walker cannot resolve.
func resolveSlot(arg *typepath.Arg, sourceArgs []*typepath.Path) (ParamSlot, *diagnostics.DiagnosticError) {
	for i, src := range sourceArgs {
		if src.Equal(arg.Type) {
			return ParamSlot{Kind: SlotPassThrough, Index: i, Path: src}, nil
		}
	}
	if arg.Type.IsAbsolute() && !arg.Type.HasGenerics() {
		return ParamSlot{Kind: SlotConcrete, Path: arg.Type}, nil
	}
	return ParamSlot{}, diagnostics.NewError(diagnostics.ErrS004, arg.Pos, "generic parameter could not be resolved or is not absolute")
}

// Lookup resolves path against the table. callerParams is the walker's
// already-resolved generic argument list for this occurrence; it is not part
// of the key match, which uses the canonical text of path exactly as the
// ingestion side does.
//
// On a hit, the returned arguments are the stored template resolved against
// callerParams (pass-through slots forward the caller's argument at the
// recorded source position, concrete slots yield their pinned path), or
// callerParams unchanged when no template is stored. Lookup never fails; a
// miss returns ok == false.
func (s *Substitutes) Lookup(path *typepath.Path, callerParams []*typepath.Path) (*typepath.Path, []*typepath.Path, bool) {
	target, ok := s.targets[path.String()]
	if !ok {
		return nil, nil, false
	}
	template, ok := s.params[path.String()]
	if !ok {
		return target.Path(), callerParams, true
	}

	effective := make([]*typepath.Path, len(template))
	for i, slot := range template {
		switch slot.Kind {
		case SlotPassThrough:
			if slot.Index < len(callerParams) {
				effective[i] = callerParams[slot.Index]
			} else {
				// The walker supplied fewer arguments than the pattern
				// declares; fall back to the parameter as written.
				effective[i] = slot.Path
			}
		case SlotConcrete:
			effective[i] = slot.Path
		}
	}
	return target.Path(), effective, true
}

// Keys returns the table's source keys in sorted order.
func (s *Substitutes) Keys() []string {
	keys := make([]string, 0, len(s.targets))
	for key := range s.targets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Target returns the stored target path for a source key.
func (s *Substitutes) Target(key string) (*typepath.Path, bool) {
	target, ok := s.targets[key]
	if !ok {
		return nil, false
	}
	return target.Path(), true
}

// Template returns the stored parameter template for a source key, if any.
func (s *Substitutes) Template(key string) (ParamTemplate, bool) {
	template, ok := s.params[key]
	return template, ok
}
