package lsp

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"

	"github.com/leeola/tanc/docindex"
	"github.com/leeola/tanc/posindex"
)

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	f := s.idx.File(string(params.TextDocument.URI), nil)
	if f == nil {
		return nil, nil
	}
	e := f.EntryAt(posindex.Position{
		Line:      params.Position.Line,
		Character: params.Position.Character,
	})
	if e == nil {
		return nil, nil
	}
	r := toRange(e.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: buildHoverText(e),
		},
		Range: &r,
	}, nil
}

func buildHoverText(e *docindex.Entry) string {
	return fmt.Sprintf("`%s`\n\n%s", e.Path, e.Doc)
}

func toRange(r posindex.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}
