package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leeola/tanc/token"
)

func TestParseLossless(t *testing.T) {
	srcs := []string{
		"# foo\n{\n  bar = \"bar\";\n}\n",
		"rec {\n  a.b.c = [ 1 2.5 ./x.nix { y = 1; } ];\n  inherit (pkgs) c \"d\";\n  inherit e;\n}",
		"{ pkgs ? import <nixpkgs> {}, ... }@args: with pkgs; stdenv.mkDerivation { name = \"x\"; }",
		"let /* c */ x = 1; in if x == 1 then a.b or c else !d && -e < f // g ++ h",
		"assert x ? y.z; (f (x: x)) y",
	}
	for _, src := range srcs {
		root, err := Parse([]byte(src))
		if err != nil {
			t.Errorf("%q: %v", src, err)
			continue
		}
		if got := root.Text(); got != src {
			t.Errorf("lossy parse: got %q want %q", got, src)
		}
	}
}

func TestParseTree(t *testing.T) {
	root, err := Parse([]byte("# foo\n{\n  bar = \"bar\";\n}"))
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`NRoot`,
		`  TComment "# foo"`,
		`  TWhitespace "\n"`,
		`  NAttrSet`,
		`    TLCurl "{"`,
		`    TWhitespace "\n  "`,
		`    NBinding`,
		`      NAttrPath`,
		`        NIdent`,
		`          TIdent "bar"`,
		`      TWhitespace " "`,
		`      TAssign "="`,
		`      TWhitespace " "`,
		`      NString`,
		`        TString "\"bar\""`,
		`      TSemicolon ";"`,
		`    TWhitespace "\n"`,
		`    TRCurl "}"`,
	}, "\n") + "\n"
	if diff := cmp.Diff(want, root.Dump()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	set := root.Nodes()[0]
	b := set.Nodes()[0]
	if got := string(b.FirstToken().Bytes); got != "bar" {
		t.Errorf("first token %q", got)
	}
	if got := string(b.LastToken().Bytes); got != ";" {
		t.Errorf("last token %q", got)
	}
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		in   string
		want NodeKind
	}{
		{"x", NIdent},
		{"42", NLiteral},
		{"./a.nix", NLiteral},
		{`"s"`, NString},
		{"''s''", NString},
		{"[ 1 2 ]", NList},
		{"{ }", NAttrSet},
		{"rec { a = 1; }", NAttrSet},
		{"(a)", NParen},
		{"a.b.c or d", NSelect},
		{"a ? b", NHasAttr},
		{"f x y", NApply},
		{"x: x", NLambda},
		{"{ a, b ? 1, ... }: a", NLambda},
		{"{ a }: a", NLambda},
		{"{ }: 1", NLambda},
		{"args@{ a, ... }: a", NLambda},
		{"{ a, ... }@args: a", NLambda},
		{"let a = 1; in a", NLetIn},
		{"with a; b", NWith},
		{"if a then b else c", NIf},
		{"assert a; b", NAssert},
		{"a + b * c", NBinOp},
		{"!a", NUnaryOp},
		{"-1", NUnaryOp},
	}
	for _, tt := range tests {
		root, err := Parse([]byte(tt.in))
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		nodes := root.Nodes()
		if len(nodes) != 1 {
			t.Errorf("%q: root has %d nodes", tt.in, len(nodes))
			continue
		}
		if nodes[0].Kind != tt.want {
			t.Errorf("%q: got %s want %s", tt.in, nodes[0].Kind, tt.want)
		}
	}
}

func TestParsePrecedence(t *testing.T) {
	root, err := Parse([]byte("a + b * c"))
	if err != nil {
		t.Fatal(err)
	}
	op := root.Nodes()[0]
	kids := op.Nodes()
	if len(kids) != 2 || kids[0].Kind != NIdent || kids[1].Kind != NBinOp {
		t.Errorf("unexpected shape:\n%s", root.Dump())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrEmptyDoc},
		{"# just a comment\n", ErrEmptyDoc},
		{"{ a = 1 }", ErrParse},
		{"{ a = 1;", ErrParse},
		{"{ a = 1; } }", ErrParse},
		{")", ErrParse},
		{"{ = 1; }", ErrParse},
		{"let a = 1;", ErrParse},
		{"if a then b", ErrParse},
		{`"abc`, token.ErrUnterminated},
		{`"abc`, ErrParse},
		{`{ a = "${x}"; }`, token.ErrUnsupported},
	}
	for _, tt := range tests {
		_, err := Parse([]byte(tt.in))
		if !errors.Is(err, tt.want) {
			t.Errorf("%q: got %v want %v", tt.in, err, tt.want)
		}
	}
}

func TestParseMaxDepth(t *testing.T) {
	src := []byte("[[[[[1]]]]]")
	if _, err := Parse(src, ParseMaxDepth(3)); !errors.Is(err, ErrTooDeep) {
		t.Errorf("got %v want %v", err, ErrTooDeep)
	}
	if _, err := Parse(src); err != nil {
		t.Errorf("default depth: %v", err)
	}
}

func TestParseTokens(t *testing.T) {
	var toks []token.Token
	src := "{ a = 1; }"
	if _, err := Parse([]byte(src), ParseTokens(&toks)); err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	for i := range toks {
		sb.Write(toks[i].Bytes)
	}
	if sb.String() != src {
		t.Errorf("got %q want %q", sb.String(), src)
	}
}
