package lsp

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.lsp.dev/protocol"

	"github.com/leeola/tanc/docindex"
)

const testURI = protocol.DocumentURI("file:///x/a.nix")

func newTestServer() *Server {
	log := slog.New(slog.DiscardHandler)
	return NewServer(docindex.New(docindex.WithLogger(log)), log)
}

func open(t *testing.T, s *Server, text string) {
	t.Helper()
	err := s.DidOpen(context.Background(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: text},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func hover(t *testing.T, s *Server, line, char uint32) string {
	t.Helper()
	h, err := s.Hover(context.Background(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: line, Character: char},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if h == nil {
		return ""
	}
	return h.Contents.Value
}

func TestHoverLifecycle(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()
	if got := hover(t, s, 0, 0); got != "" {
		t.Errorf("before open: %q", got)
	}
	open(t, s, "{\n  # foo\n  bar = \"bar\";\n}\n")
	if got, want := hover(t, s, 2, 3), "`{}.bar`\n\nfoo"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
	if got := hover(t, s, 1, 3); got != "" {
		t.Errorf("on comment: %q", got)
	}

	change := func(text string) {
		err := s.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
			TextDocument: protocol.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
				Version:                2,
			},
			ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: text}},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	change("{\n  # foo\n  bar = ")
	if d := s.docs.get(string(testURI)); d == nil || d.err == nil {
		t.Fatal("expected an index error")
	}
	if got := hover(t, s, 2, 3); got != "`{}.bar`\n\nfoo" {
		t.Errorf("previous index lost: %q", got)
	}

	change("{\n  # baz\n  baz = 1;\n}")
	if got := hover(t, s, 2, 3); got != "`{}.baz`\n\nbaz" {
		t.Errorf("got %q", got)
	}

	err := s.DidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := hover(t, s, 2, 3); got != "" {
		t.Errorf("after close: %q", got)
	}
	if s.docs.get(string(testURI)) != nil {
		t.Error("document kept after close")
	}
}

func TestDiagnostics(t *testing.T) {
	s := newTestServer()
	open(t, s, "{\n  \"é\" = ;\n}")
	d := s.docs.get(string(testURI))
	ds := validateDocument(d)
	if len(ds) != 1 {
		t.Fatalf("got %d diagnostics", len(ds))
	}
	want := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 8},
		End:   protocol.Position{Line: 1, Character: 9},
	}
	if diff := cmp.Diff(want, ds[0].Range); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if ds[0].Severity != protocol.DiagnosticSeverityError {
		t.Errorf("severity %v", ds[0].Severity)
	}

	open(t, s, "{ a = 1; }")
	if ds := validateDocument(s.docs.get(string(testURI))); len(ds) != 0 {
		t.Errorf("got %v", ds)
	}
}

func TestExtractPosition(t *testing.T) {
	line, col, ok := extractPosition("parse error: expected ';' at `...` at offset 9 (line=3, col=14)")
	if !ok || line != 3 || col != 14 {
		t.Errorf("got %d %d %t", line, col, ok)
	}
	if _, _, ok := extractPosition("no position"); ok {
		t.Error("found a position")
	}
}

func TestSemanticTokens(t *testing.T) {
	tests := []struct {
		Text string
		Want []uint32
	}{
		{
			Text: "{ a = 1; }",
			Want: []uint32{0, 2, 1, semProperty, 0, 0, 4, 1, semNumber, 0},
		},
		{
			Text: "# c\n{ a = 1; }",
			Want: []uint32{
				0, 0, 3, semComment, 0,
				1, 2, 1, semProperty, 0,
				0, 4, 1, semNumber, 0,
			},
		},
		{
			Text: "/* x\ny */ { a = 1; }",
			Want: []uint32{
				0, 0, 4, semComment, 0,
				1, 0, 4, semComment, 0,
				0, 7, 1, semProperty, 0,
				0, 4, 1, semNumber, 0,
			},
		},
		{
			Text: "rec { inherit (p) \"é\"; }",
			Want: []uint32{
				0, 0, 3, semKeyword, 0,
				0, 6, 7, semKeyword, 0,
				0, 12, 3, semProperty, 0,
			},
		},
	}
	for _, tc := range tests {
		s := newTestServer()
		open(t, s, tc.Text)
		res, err := s.SemanticTokensFull(context.Background(), &protocol.SemanticTokensParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tc.Want, res.Data); diff != "" {
			t.Errorf("%q (-want +got):\n%s", tc.Text, diff)
		}
	}
}

func TestCompletion(t *testing.T) {
	s := newTestServer()
	open(t, s, "{\n  # a doc\n  a = { # b doc\n  b = 1; };\n  c = 2;\n}")
	res, err := s.Completion(context.Background(), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, it := range res.Items {
		got = append(got, it.Label+" "+it.Detail)
	}
	want := []string{"a {}.a", "b {}.a{}.b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
