package lsp

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"go.lsp.dev/protocol"
)

func (s *Server) publishDiagnostics(ctx context.Context, d *document) {
	diagnostics := validateDocument(d)
	if d.err != nil {
		s.log.Debug("index failed", "uri", d.uri, "version", d.version, "error", d.err)
	}
	if s.conn != nil {
		s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentURI(d.uri),
			Version:     uint32(d.version),
			Diagnostics: diagnostics,
		})
	}
}

func validateDocument(d *document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if d.err == nil {
		return diagnostics
	}
	diagnostic := protocol.Diagnostic{
		Severity: protocol.DiagnosticSeverityError,
		Message:  d.err.Error(),
		Source:   lsName,
	}
	if line, col, ok := extractPosition(d.err.Error()); ok {
		c := utf16Col(d.content, line, col)
		diagnostic.Range = protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: c},
			End:   protocol.Position{Line: uint32(line), Character: c + 1},
		}
	}
	return append(diagnostics, diagnostic)
}

var posRE = regexp.MustCompile(`line=(\d+), col=(\d+)`)

// extractPosition finds the zero based line and byte column that error
// messages carry as "(line=X, col=Y)".
func extractPosition(errMsg string) (int, int, bool) {
	m := posRE.FindStringSubmatch(errMsg)
	if m == nil {
		return 0, 0, false
	}
	line, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	col, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return line, col, true
}

// utf16Col converts a byte column of line in content to UTF-16 code
// units.
func utf16Col(content string, line, col int) uint32 {
	lines := strings.SplitN(content, "\n", line+2)
	if line >= len(lines) {
		return uint32(col)
	}
	ln := lines[line]
	if col > len(ln) {
		col = len(ln)
	}
	var n int
	for _, r := range ln[:col] {
		n += utf16.RuneLen(r)
	}
	return uint32(n)
}
