// Package lsp serves documentation hovers over the language server
// protocol.
//
// Open documents are indexed in a [docindex.RepositoryIndex] under their
// URI on every change.  A document that fails to index keeps its previous
// index, and the failure is published as a diagnostic.
package lsp

import (
	"context"
	"io"
	"log/slog"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/leeola/tanc/docindex"
)

const lsName = "tanc"

var (
	version = "0.0.1"
)

type Server struct {
	conn jsonrpc2.Conn
	idx  *docindex.RepositoryIndex
	docs *documentStore
	log  *slog.Logger
}

// NewServer returns a server indexing documents into idx.  If log is nil
// slog.Default() is used.
func NewServer(idx *docindex.RepositoryIndex, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		idx: idx,
		log: log,
		docs: &documentStore{
			docs: make(map[string]*document),
			idx:  idx,
		},
	}
}

// Serve runs the protocol over rwc until the connection closes or ctx is
// done.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	stream := jsonrpc2.NewStream(rwc)
	handler := protocol.ServerHandler(s, nil)
	conn := jsonrpc2.NewConn(stream)
	s.conn = conn
	conn.Go(ctx, handler)
	select {
	case <-conn.Done():
		return conn.Err()
	case <-ctx.Done():
		conn.Close()
		<-conn.Done()
		return ctx.Err()
	}
}

// Stdio joins a reader and a writer, typically stdin and stdout, into a
// stream whose Close does nothing.
func Stdio(r io.Reader, w io.Writer) io.ReadWriteCloser {
	return &stdioReadWriteCloser{read: r, write: w}
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}

func (s *Server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			Change:    protocol.TextDocumentSyncKindFull,
			OpenClose: true,
		},
		HoverProvider:      true,
		CompletionProvider: &protocol.CompletionOptions{},
		SemanticTokensProvider: map[string]interface{}{
			"full":   true,
			"range":  true,
			"legend": semanticLegend,
		},
	}
	s.log.Info("initialize", "client", clientName(params))
	return &protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.ServerInfo{
			Name:    lsName,
			Version: version,
		},
	}, nil
}

func clientName(params *protocol.InitializeParams) string {
	if params == nil || params.ClientInfo == nil {
		return ""
	}
	return params.ClientInfo.Name
}

func (s *Server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) Exit(ctx context.Context) error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *Server) SetTrace(ctx context.Context, params *protocol.SetTraceParams) error {
	return nil
}
