package lsp

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/leeola/tanc/docpath"
)

// Completion offers the documented names of the document, each with its
// documentation.
func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	f := s.idx.File(string(params.TextDocument.URI), nil)
	if f == nil {
		return nil, nil
	}
	completions := []protocol.CompletionItem{}
	seen := map[string]bool{}
	for _, e := range f.Entries() {
		last, ok := e.Path.Last()
		if !ok || last.Kind != docpath.Ident || seen[last.Name] {
			continue
		}
		seen[last.Name] = true
		completions = append(completions, protocol.CompletionItem{
			Label:  last.Name,
			Kind:   protocol.CompletionItemKindProperty,
			Detail: e.Path.String(),
			Documentation: protocol.MarkupContent{
				Kind:  protocol.Markdown,
				Value: e.Doc.String(),
			},
		})
	}
	return &protocol.CompletionList{Items: completions}, nil
}
