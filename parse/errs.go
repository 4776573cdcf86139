package parse

import (
	"errors"
	"fmt"

	"github.com/leeola/tanc/token"
)

var (
	ErrParse    = errors.New("parse error")
	ErrTooDeep  = fmt.Errorf("%w: nesting too deep", ErrParse)
	ErrEmptyDoc = fmt.Errorf("%w: empty document", ErrParse)
)

func expectedErr(what string, tok *token.Token, pd *token.PosDoc, end int) error {
	if tok == nil {
		return fmt.Errorf("%w: expected %s at end of input (%s)", ErrParse, what, pd.Pos(end))
	}
	return fmt.Errorf("%w: expected %s, got %q at %s", ErrParse, what, tok.Bytes, tok.Pos)
}
