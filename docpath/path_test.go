package docpath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type pathTest struct {
	Str  string
	Path Path
}

var pathTests = []pathTest{
	{Str: "", Path: nil},
	{Str: "{}", Path: Path{AttrSetSeg()}},
	{Str: "{}.bar", Path: Path{AttrSetSeg(), IdentSeg("bar")}},
	{
		Str:  "{}.services{}.nginx",
		Path: Path{AttrSetSeg(), IdentSeg("services"), AttrSetSeg(), IdentSeg("nginx")},
	},
	{Str: `{}."foo bar"`, Path: Path{AttrSetSeg(), IdentSeg("foo bar")}},
	{Str: `{}."a.b"{}`, Path: Path{AttrSetSeg(), IdentSeg("a.b"), AttrSetSeg()}},
	{Str: "{}.xs[0]{}.y", Path: Path{AttrSetSeg(), IdentSeg("xs"), IndexSeg(0), AttrSetSeg(), IdentSeg("y")}},
	{Str: "{}.foo-bar'.x_1", Path: Path{AttrSetSeg(), IdentSeg("foo-bar'"), IdentSeg("x_1")}},
	{Str: "[12][3]", Path: Path{IndexSeg(12), IndexSeg(3)}},
}

func TestPathString(t *testing.T) {
	for _, pt := range pathTests {
		if got := pt.Path.String(); got != pt.Str {
			t.Errorf("got %q want %q", got, pt.Str)
		}
	}
}

func TestPathParse(t *testing.T) {
	for _, pt := range pathTests {
		p, err := Parse(pt.Str)
		if err != nil {
			t.Errorf("%q: %v", pt.Str, err)
			continue
		}
		if !p.Equal(pt.Path) {
			t.Errorf("%q: %s", pt.Str, cmp.Diff(pt.Path, p))
		}
	}
}

func TestPathParseErrors(t *testing.T) {
	for _, s := range []string{
		"{",
		"{}.",
		"{}.1x",
		"[",
		"[x]",
		"[-1]",
		`."unterminated`,
		"bar",
		"{}..x",
	} {
		if _, err := Parse(s); !errors.Is(err, ErrBadPath) {
			t.Errorf("%q: got %v", s, err)
		}
	}
}

func TestPathCompare(t *testing.T) {
	ordered := []string{
		"",
		"{}",
		"{}{}",
		"{}.a",
		"{}.a{}",
		"{}.a.b",
		"{}.b",
		"{}[0]",
		"{}[2]",
		"{}[10]",
	}
	ps := make([]Path, len(ordered))
	for i, s := range ordered {
		p, err := Parse(s)
		if err != nil {
			t.Fatal(err)
		}
		ps[i] = p
	}
	for i := range ps {
		for j := range ps {
			got := ps[i].Compare(ps[j])
			var want int
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			if got != want {
				t.Errorf("compare(%q, %q) = %d want %d", ordered[i], ordered[j], got, want)
			}
		}
	}
}

func TestPathChildParent(t *testing.T) {
	root := Path{AttrSetSeg()}
	a := root.Child(IdentSeg("a"))
	b := root.Child(IdentSeg("b"))
	if a.String() != "{}.a" || b.String() != "{}.b" {
		t.Fatalf("got %s %s", a, b)
	}
	if !a.Parent().Equal(root) {
		t.Errorf("parent of %s is %s", a, a.Parent())
	}
	c := a.Parent().Child(IdentSeg("c"))
	if a.String() != "{}.a" {
		t.Errorf("child modified sibling: %s", a)
	}
	if c.String() != "{}.c" {
		t.Errorf("got %s", c)
	}
	if Path(nil).Parent() != nil {
		t.Error("parent of empty path")
	}
	last, ok := a.Last()
	if !ok || last != IdentSeg("a") {
		t.Errorf("last %v %t", last, ok)
	}
}

func TestPathText(t *testing.T) {
	var p Path
	if err := p.UnmarshalText([]byte("{}.x[1]")); err != nil {
		t.Fatal(err)
	}
	d, _ := p.MarshalText()
	if string(d) != "{}.x[1]" {
		t.Errorf("got %s", d)
	}
}
