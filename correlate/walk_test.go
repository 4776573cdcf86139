package correlate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leeola/tanc/parse"
)

type walkTest struct {
	Name  string
	Src   string
	Want  []string
	Decls int
}

var walkTests = []walkTest{
	{
		Name:  "inner-doc",
		Src:   "{\n  # foo\n  bar = \"bar\";\n}",
		Want:  []string{`{}.bar [2:2, 2:14) "foo"`},
		Decls: 2,
	},
	{
		Name:  "root-doc",
		Src:   "# foo\n{ bar = \"bar\"; }",
		Want:  []string{`{} [1:0, 1:16) "foo"`},
		Decls: 2,
	},
	{
		Name:  "no-comments",
		Src:   "{ a = 1; b = { c = 2; }; }",
		Decls: 4,
	},
	{
		Name: "nested-dotted",
		Src: `{
  # svc
  services = {
    # the web server
    nginx.enable = true;
  };
}`,
		Want: []string{
			`{}.services [2:2, 5:4) "svc"`,
			`{}.services{}.nginx.enable [4:4, 4:24) "the web server"`,
		},
		Decls: 4,
	},
	{
		Name: "joined",
		Src:  "{\n  # one\n  # two\n  a = 1;\n}",
		Want: []string{`{}.a [3:2, 3:8) "one\ntwo"`},
	},
	{
		Name: "cleared-per-declaration",
		Src:  "{\n  # a doc\n  a = 1;\n  b = 2;\n}",
		Want: []string{`{}.a [2:2, 2:8) "a doc"`},
	},
	{
		Name: "trailing-dropped",
		Src:  "{\n  a = 1;\n  # trailing\n}\n# after",
	},
	{
		Name: "value-doc",
		Src:  "{\n  x = # set doc\n    { a = 1; };\n}",
		Want: []string{`{}.x{} [2:4, 2:14) "set doc"`},
	},
	{
		Name: "list",
		Src: `{
  xs = [
    # first
    { a = 1; }
    # dropped
    2
    # second
    { b = 2; }
    # trailing
  ];
}`,
		Want: []string{
			`{}.xs[0]{} [3:4, 3:14) "first"`,
			`{}.xs[2]{} [7:4, 7:14) "second"`,
		},
		Decls: 6,
	},
	{
		Name: "inherit",
		Src:  "{\n  # from pkgs\n  inherit (pkgs) a b;\n  inherit c;\n}",
		Want: []string{
			`{}.a [2:17, 2:18) "from pkgs"`,
			`{}.b [2:19, 2:20) "from pkgs"`,
		},
		Decls: 4,
	},
	{
		Name: "block-comment",
		Src:  "{\n  /*\n   * multi\n   * line\n   */\n  a = 1;\n}",
		Want: []string{`{}.a [5:2, 5:8) "multi\nline"`},
	},
	{
		Name: "utf16-columns",
		Src:  "{ s = \"\U0001F600é\"; /* d */ b = 1; }",
		Want: []string{`{}.b [0:21, 0:27) "d"`},
	},
	{
		Name: "multiline-string",
		Src:  "{\n  s = ''\n    x\n  '';\n  # d\n  t = \"a\nb\";\n}",
		Want: []string{`{}.t [5:2, 6:3) "d"`},
	},
	{
		Name: "quoted-name",
		Src:  "{\n  # q\n  \"a b\".c = 1;\n}",
		Want: []string{`{}."a b".c [2:2, 2:14) "q"`},
	},
	{
		Name: "rec-paren-select",
		Src:  "rec {\n  # p\n  a = (pkgs.hello);\n  b = ({ c = x.y or 1; });\n}",
		Want: []string{`{}.a [2:2, 2:19) "p"`},
		Decls: 5,
	},
}

func walk(src string) (*Result, error) {
	root, err := parse.Parse([]byte(src))
	if err != nil {
		return nil, err
	}
	return Walk(root, []byte(src))
}

func TestWalk(t *testing.T) {
	for _, wt := range walkTests {
		t.Run(wt.Name, func(t *testing.T) {
			res, err := walk(wt.Src)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, e := range res.Entries {
				got = append(got, fmt.Sprintf("%s %s %q", e.Path, e.Range, e.Text))
			}
			if diff := cmp.Diff(wt.Want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
			if wt.Decls != 0 && res.Decls != wt.Decls {
				t.Errorf("got %d declarations want %d", res.Decls, wt.Decls)
			}
		})
	}
}

func TestWalkUnsupported(t *testing.T) {
	tests := []struct {
		Src  string
		Kind parse.NodeKind
	}{
		{Src: "let x = 1; in { a = x; }", Kind: parse.NLetIn},
		{Src: "{ a = x: x; }", Kind: parse.NLambda},
		{Src: "{ a = b + c; }", Kind: parse.NBinOp},
		{Src: "{ a = f x; }", Kind: parse.NApply},
		{Src: "{ a = [ (with b; c) ]; }", Kind: parse.NWith},
		{Src: "{ inherit (f x) a; }", Kind: parse.NApply},
		{Src: "{ a = if b then c else d; }", Kind: parse.NIf},
	}
	for _, tc := range tests {
		_, err := walk(tc.Src)
		if !errors.Is(err, ErrUnsupportedSyntax) {
			t.Errorf("%q: got %v", tc.Src, err)
			continue
		}
		var se *SyntaxErr
		if !errors.As(err, &se) || se.Kind != tc.Kind {
			t.Errorf("%q: got %v", tc.Src, err)
		}
	}
}

func TestWalkDuplicate(t *testing.T) {
	for _, src := range []string{
		"{ a = 1; a = 2; }",
		"{ a.b = 1; inherit b; a.b = 2; }",
		"{ x = { }; inherit x; }",
	} {
		if _, err := walk(src); !errors.Is(err, ErrDuplicatePath) {
			t.Errorf("%q: got %v", src, err)
		}
	}
}
