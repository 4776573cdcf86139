package docindex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leeola/tanc/docpath"
	"github.com/leeola/tanc/parse"
	"github.com/leeola/tanc/posindex"
)

const fooSrc = "{\n  # foo\n  bar = \"bar\";\n}\n"

func quiet() Option {
	return WithLogger(slog.New(slog.DiscardHandler))
}

func mustPath(t *testing.T, s string) docpath.Path {
	t.Helper()
	p, err := docpath.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func at(line, char uint32) posindex.Position {
	return posindex.Position{Line: line, Character: char}
}

func TestRoundTrip(t *testing.T) {
	x := New(quiet())
	if err := x.Insert("a.nix", nil, []byte(fooSrc)); err != nil {
		t.Fatal(err)
	}
	if got := x.DocAtPath("a.nix", nil, mustPath(t, "{}.bar")).String(); got != "foo" {
		t.Errorf("by path: got %q", got)
	}
	tests := []struct {
		At   posindex.Position
		Want string
	}{
		{At: at(0, 0)},
		{At: at(1, 1)},
		{At: at(1, 4)},
		{At: at(2, 1)},
		{At: at(2, 2), Want: "foo"},
		{At: at(2, 13), Want: "foo"},
		{At: at(2, 14)},
		{At: at(3, 0)},
		{At: at(9, 0)},
	}
	for _, tc := range tests {
		d := x.DocAt("a.nix", nil, tc.At)
		if tc.Want == "" {
			if d != nil {
				t.Errorf("at %s: got %q want none", tc.At, d)
			}
			continue
		}
		if d.String() != tc.Want {
			t.Errorf("at %s: got %q want %q", tc.At, d, tc.Want)
		}
	}
}

func TestReplace(t *testing.T) {
	x := New(quiet())
	if err := x.Insert("a.nix", nil, []byte(fooSrc)); err != nil {
		t.Fatal(err)
	}
	if err := x.Insert("a.nix", nil, []byte("{\n  # baz doc\n  baz = 1;\n}")); err != nil {
		t.Fatal(err)
	}
	if d := x.DocAtPath("a.nix", nil, mustPath(t, "{}.bar")); d != nil {
		t.Errorf("old entry reachable: %q", d)
	}
	if got := x.DocAtPath("a.nix", nil, mustPath(t, "{}.baz")).String(); got != "baz doc" {
		t.Errorf("got %q", got)
	}
	if got := x.DocAt("a.nix", nil, at(2, 5)).String(); got != "baz doc" {
		t.Errorf("got %q", got)
	}
	if d := x.DocAt("a.nix", nil, at(2, 10)); d != nil {
		t.Errorf("old range reachable: %q", d)
	}
}

func TestInsertFailureKeepsPrevious(t *testing.T) {
	x := New(quiet())
	if err := x.Insert("a.nix", nil, []byte(fooSrc)); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		Src string
		Err error
	}{
		{Src: "{ bar = ", Err: ErrParse},
		{Src: "let a = 1; in { }", Err: ErrUnsupportedSyntax},
		{Src: "{ a = 1; a = 2; }", Err: ErrDuplicatePath},
		{Src: "", Err: ErrParse},
	}
	for _, tc := range tests {
		err := x.Insert("a.nix", nil, []byte(tc.Src))
		if !errors.Is(err, tc.Err) {
			t.Errorf("%q: got %v want %v", tc.Src, err, tc.Err)
		}
		if got := x.DocAtPath("a.nix", nil, mustPath(t, "{}.bar")).String(); got != "foo" {
			t.Errorf("%q: previous index lost", tc.Src)
		}
	}
}

func TestAbsentKey(t *testing.T) {
	x := New(quiet())
	rev := "abc123"
	if err := x.Insert("a.nix", &rev, []byte(fooSrc)); err != nil {
		t.Fatal(err)
	}
	if d := x.DocAt("a.nix", nil, at(2, 2)); d != nil {
		t.Errorf("working copy: got %q", d)
	}
	if d := x.DocAt("b.nix", &rev, at(2, 2)); d != nil {
		t.Errorf("other file: got %q", d)
	}
	other := "def456"
	if d := x.DocAtPath("a.nix", &other, mustPath(t, "{}.bar")); d != nil {
		t.Errorf("other revision: got %q", d)
	}
	same := "abc123"
	if got := x.DocAt("a.nix", &same, at(2, 2)).String(); got != "foo" {
		t.Errorf("got %q", got)
	}
	// the key does not alias the caller's revision
	rev = "changed"
	if got := x.DocAt("a.nix", &same, at(2, 2)).String(); got != "foo" {
		t.Errorf("after caller change: got %q", got)
	}
}

func TestKeysRemove(t *testing.T) {
	x := New(quiet())
	r1, r2 := "r1", "r2"
	ins := []struct {
		Path string
		Rev  *string
	}{
		{"b.nix", &r2},
		{"b.nix", nil},
		{"a.nix", &r1},
		{"a.nix", nil},
		{"c.nix", &r1},
	}
	for _, in := range ins {
		if err := x.Insert(in.Path, in.Rev, []byte(fooSrc)); err != nil {
			t.Fatal(err)
		}
	}
	keys := func() []string {
		var res []string
		for _, k := range x.Keys() {
			res = append(res, k.String())
		}
		return res
	}
	want := []string{"a.nix", "b.nix", "r1:a.nix", "r1:c.nix", "r2:b.nix"}
	if diff := cmp.Diff(want, keys()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if !x.Remove("b.nix", nil) {
		t.Error("remove b.nix")
	}
	if x.Remove("b.nix", nil) {
		t.Error("removed twice")
	}
	if x.File("b.nix", nil) != nil {
		t.Error("b.nix still indexed")
	}
	want = []string{"a.nix", "r1:a.nix", "r1:c.nix", "r2:b.nix"}
	if diff := cmp.Diff(want, keys()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestInsertAll(t *testing.T) {
	x := New(quiet(), WithWorkers(2))
	var srcs []Source
	for i := range 10 {
		srcs = append(srcs, Source{
			FilePath: fmt.Sprintf("f%d.nix", i),
			Src:      fmt.Appendf(nil, "{\n  # doc %d\n  v = %d;\n}", i, i),
		})
	}
	if err := x.InsertAll(context.Background(), srcs); err != nil {
		t.Fatal(err)
	}
	for i := range 10 {
		got := x.DocAtPath(fmt.Sprintf("f%d.nix", i), nil, mustPath(t, "{}.v")).String()
		if want := fmt.Sprintf("doc %d", i); got != want {
			t.Errorf("got %q want %q", got, want)
		}
	}

	bad := append([]Source{{FilePath: "new.nix", Src: []byte(fooSrc)}}, Source{FilePath: "f0.nix", Src: []byte("{")})
	err := x.InsertAll(context.Background(), bad)
	var fe *FileErr
	if !errors.As(err, &fe) || fe.Key.FilePath != "f0.nix" || !errors.Is(err, ErrParse) {
		t.Fatalf("got %v", err)
	}
	if x.File("new.nix", nil) != nil {
		t.Error("partial InsertAll swapped in")
	}
	if got := x.DocAtPath("f0.nix", nil, mustPath(t, "{}.v")).String(); got != "doc 0" {
		t.Errorf("got %q", got)
	}
}

func TestConcurrentReaders(t *testing.T) {
	x := New(quiet())
	if err := x.Insert("a.nix", nil, []byte(fooSrc)); err != nil {
		t.Fatal(err)
	}
	alt := []byte("{\n  # foo\n  bar = 1;\n}")
	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				src := []byte(fooSrc)
				if (i+j)%2 == 0 {
					src = alt
				}
				if err := x.Insert("a.nix", nil, src); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				if got := x.DocAt("a.nix", nil, at(2, 3)).String(); got != "foo" {
					t.Errorf("got %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestFileIndex(t *testing.T) {
	f, err := NewFileIndex([]byte("# top\n{\n  # a\n  a = { b = 1; };\n}"), quiet(), WithParseOptions(parse.ParseMaxDepth(16)))
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range f.Entries() {
		got = append(got, fmt.Sprintf("%s %s %s", e.Path, e.Range, e.Doc))
	}
	want := []string{
		"{} [1:0, 4:1) top",
		"{}.a [3:2, 3:17) a",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if f.Decls() != 4 {
		t.Errorf("decls %d", f.Decls())
	}
	if got := f.DocAt(at(3, 10)).String(); got != "a" {
		t.Errorf("inner: got %q", got)
	}
	if got := f.DocAt(at(2, 0)).String(); got != "top" {
		t.Errorf("outer: got %q", got)
	}
	if _, err := NewFileIndex([]byte("[[[1]]]"), quiet(), WithParseOptions(parse.ParseMaxDepth(2))); !errors.Is(err, ErrParse) {
		t.Errorf("max depth: got %v", err)
	}
}
