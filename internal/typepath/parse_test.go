package typepath

import (
	"testing"

	"github.com/airzhe/subxt/internal/diagnostics"
)

// mustParse parses input and fails the test on error.
func mustParse(t *testing.T, input string) *Path {
	t.Helper()
	path, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q): unexpected error: %v", input, err)
	}
	return path
}

// expectParseError asserts Parse fails with the given code.
func expectParseError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	_, err := Parse(input)
	if err == nil {
		t.Fatalf("Parse(%q): expected error %s, got none", input, code)
	}
	if err.Code != code {
		t.Fatalf("Parse(%q): expected error %s, got %s: %s", input, code, err.Code, err.Error())
	}
	return err
}

func TestParse_Simple(t *testing.T) {
	path := mustParse(t, "sp_core::crypto::AccountId32")
	if path.Leading {
		t.Error("expected no leading separator")
	}
	if len(path.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(path.Segments))
	}
	for i, want := range []string{"sp_core", "crypto", "AccountId32"} {
		if got := path.Segments[i].Ident; got != want {
			t.Errorf("segment[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestParse_LeadingSeparator(t *testing.T) {
	path := mustParse(t, "::std::vec::Vec")
	if !path.Leading {
		t.Error("expected leading separator")
	}
	if !path.IsAbsolute() {
		t.Error("expected path to be absolute")
	}
}

func TestParse_SingleIdent(t *testing.T) {
	path := mustParse(t, "BTreeMap")
	if len(path.Segments) != 1 || path.Segments[0].Ident != "BTreeMap" {
		t.Fatalf("unexpected segments: %v", path.Segments)
	}
	if path.IsAbsolute() {
		t.Error("bare ident must not be absolute")
	}
}

func TestParse_CrateMarker(t *testing.T) {
	path := mustParse(t, "crate::utils::bits::Lsb0")
	if path.Leading {
		t.Error("expected no leading separator")
	}
	if !path.IsAbsolute() {
		t.Error("crate-rooted path must be absolute")
	}
}

func TestParse_Generics(t *testing.T) {
	path := mustParse(t, "sp_runtime::MultiAddress<AccountId, Index>")
	last := path.Last()
	if last.Ident != "MultiAddress" {
		t.Fatalf("last segment = %q, want MultiAddress", last.Ident)
	}
	args := last.TypeArgs()
	if len(args) != 2 {
		t.Fatalf("expected 2 type args, got %d", len(args))
	}
	if args[0].String() != "AccountId" || args[1].String() != "Index" {
		t.Errorf("args = %s, %s", args[0], args[1])
	}
}

func TestParse_GenericsOnNamespaceSegment(t *testing.T) {
	// Legal to parse; rejected later at ingestion.
	path := mustParse(t, "a::b<T>::c")
	if len(path.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(path.Segments))
	}
	if len(path.Segments[1].Args) != 1 {
		t.Errorf("expected args on middle segment, got %d", len(path.Segments[1].Args))
	}
}

func TestParse_NestedGenerics(t *testing.T) {
	path := mustParse(t, "Wrapper<Vec<u8>, Option<T>>")
	args := path.Last().TypeArgs()
	if len(args) != 2 {
		t.Fatalf("expected 2 type args, got %d", len(args))
	}
	if got := args[0].String(); got != "Vec<u8>" {
		t.Errorf("first arg = %q, want Vec<u8>", got)
	}
}

func TestParse_AbsoluteGenericArg(t *testing.T) {
	path := mustParse(t, "Foo<::core::primitive::u8>")
	arg := path.Last().TypeArgs()[0]
	if !arg.IsAbsolute() {
		t.Error("expected absolute argument")
	}
}

func TestParse_FiltersLifetimesAndConsts(t *testing.T) {
	path := mustParse(t, "Holder<'a, T, 32, true>")
	last := path.Last()
	if len(last.Args) != 4 {
		t.Fatalf("expected 4 raw args, got %d", len(last.Args))
	}
	args := last.TypeArgs()
	if len(args) != 1 {
		t.Fatalf("expected 1 type arg after filtering, got %d", len(args))
	}
	if args[0].String() != "T" {
		t.Errorf("type arg = %q, want T", args[0])
	}
	if last.Args[0].Kind != ArgLifetime || last.Args[0].Raw != "'a" {
		t.Errorf("args[0] = %+v, want lifetime 'a", last.Args[0])
	}
	if last.Args[2].Kind != ArgConst || last.Args[2].Raw != "32" {
		t.Errorf("args[2] = %+v, want const 32", last.Args[2])
	}
	if last.Args[3].Kind != ArgConst || last.Args[3].Raw != "true" {
		t.Errorf("args[3] = %+v, want const true", last.Args[3])
	}
}

func TestParse_WhitespaceInsignificant(t *testing.T) {
	dense := mustParse(t, "frame_support::Wrapper<A,B>")
	spaced := mustParse(t, "  frame_support :: Wrapper < A , B >  ")
	if !dense.Equal(spaced) {
		t.Errorf("differently spaced paths not structurally equal:\n%s\n%s", dense, spaced)
	}
	if dense.String() != spaced.String() {
		t.Errorf("canonical forms differ: %q vs %q", dense.String(), spaced.String())
	}
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"BTreeMap",
		"::std::vec::Vec",
		"crate::utils::KeyedVec",
		"sp_runtime::MultiAddress<AccountId,Index>",
		"Holder<'a,T,32>",
		"Foo<Bar<Baz>>",
	}
	for _, input := range inputs {
		path := mustParse(t, input)
		if got := path.String(); got != input {
			t.Errorf("round trip of %q = %q", input, got)
		}
		again := mustParse(t, path.String())
		if !path.Equal(again) {
			t.Errorf("reparsing %q lost structure", input)
		}
	}
}

// ---------------------------------------------------------------------------
// T001 — Unexpected character
// ---------------------------------------------------------------------------

func TestT001_SingleColon(t *testing.T) {
	expectParseError(t, "a:b", diagnostics.ErrT001)
}

func TestT001_TrailingGarbage(t *testing.T) {
	expectParseError(t, "a::b!", diagnostics.ErrT001)
}

func TestT001_BadArgSeparator(t *testing.T) {
	expectParseError(t, "Foo<A;B>", diagnostics.ErrT001)
}

// ---------------------------------------------------------------------------
// T002 — Expected identifier
// ---------------------------------------------------------------------------

func TestT002_Empty(t *testing.T) {
	expectParseError(t, "", diagnostics.ErrT002)
}

func TestT002_OnlySeparator(t *testing.T) {
	expectParseError(t, "::", diagnostics.ErrT002)
}

func TestT002_TrailingSeparator(t *testing.T) {
	expectParseError(t, "a::b::", diagnostics.ErrT002)
}

// ---------------------------------------------------------------------------
// T003 — Unterminated generic argument list
// ---------------------------------------------------------------------------

func TestT003_UnterminatedGenerics(t *testing.T) {
	expectParseError(t, "Foo<A, B", diagnostics.ErrT003)
}

func TestErrorPosition_Column(t *testing.T) {
	err := expectParseError(t, "a:b", diagnostics.ErrT001)
	if err.Pos.Line != 1 {
		t.Errorf("line = %d, want 1", err.Pos.Line)
	}
	if err.Pos.Column != 2 {
		t.Errorf("column = %d, want 2", err.Pos.Column)
	}
}
