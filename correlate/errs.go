package correlate

import (
	"errors"
	"fmt"

	"github.com/leeola/tanc/parse"
	"github.com/leeola/tanc/token"
)

var (
	ErrUnsupportedSyntax = errors.New("unsupported syntax")
	ErrDuplicatePath     = errors.New("duplicate path")
)

// SyntaxErr reports a node the walk has no rule for.
type SyntaxErr struct {
	Kind parse.NodeKind
	Pos  *token.Pos
}

func (e *SyntaxErr) Unwrap() error {
	return ErrUnsupportedSyntax
}

func (e *SyntaxErr) Error() string {
	if e.Pos == nil {
		return fmt.Sprintf("%s: %s", ErrUnsupportedSyntax, e.Kind)
	}
	return fmt.Sprintf("%s: %s at %s", ErrUnsupportedSyntax, e.Kind, e.Pos)
}

func unsupported(n *parse.Node) error {
	e := &SyntaxErr{Kind: n.Kind}
	if t := n.FirstToken(); t != nil {
		e.Pos = t.Pos
	}
	return e
}
