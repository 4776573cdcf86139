package lsp

import (
	"context"
	"sync"

	"go.lsp.dev/protocol"

	"github.com/leeola/tanc/docindex"
)

type documentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
	idx  *docindex.RepositoryIndex
}

type document struct {
	uri     string
	content string
	version int32
	// err is the failure to index content; the index then holds an
	// earlier version.
	err error
}

func (ds *documentStore) get(uri string) *document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.docs[uri]
}

func (ds *documentStore) put(uri string, content string, version int32) *document {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	d := &document{
		uri:     uri,
		content: content,
		version: version,
		err:     ds.idx.Insert(uri, nil, []byte(content)),
	}
	ds.docs[uri] = d
	return d
}

func (ds *documentStore) remove(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
	ds.idx.Remove(uri, nil)
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	d := s.docs.put(uri, params.TextDocument.Text, params.TextDocument.Version)
	s.publishDiagnostics(ctx, d)
	return nil
}

// DidChange applies full document changes; the server only advertises
// full synchronisation.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	if len(params.ContentChanges) == 0 {
		return nil
	}
	content := params.ContentChanges[len(params.ContentChanges)-1].Text
	d := s.docs.put(uri, content, params.TextDocument.Version)
	s.publishDiagnostics(ctx, d)
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.docs.remove(uri)
	if s.conn != nil {
		s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentURI(uri),
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}
