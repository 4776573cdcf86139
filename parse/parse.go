package parse

import (
	"fmt"

	"github.com/leeola/tanc/token"
)

// Parse parses a whole document.  The returned node has kind [NRoot] and
// holds a single expression node surrounded by trivia.
func Parse(d []byte, opts ...ParseOption) (*Node, error) {
	pOpts := &parseOpts{maxDepth: defaultMaxDepth}
	for _, o := range opts {
		o(pOpts)
	}
	toks, err := token.Tokenize(nil, d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if pOpts.tokens != nil {
		*pOpts.tokens = toks
	}
	p := &parser{
		toks: toks,
		pd:   token.NewPosDoc(d),
		n:    len(d),
		opts: pOpts,
	}
	root := &Node{Kind: NRoot}
	if p.peek() == nil {
		return nil, ErrEmptyDoc
	}
	e, err := p.expr(root)
	if err != nil {
		return nil, err
	}
	root.addNode(e)
	p.trivia(root)
	if t := p.peek(); t != nil {
		return nil, fmt.Errorf("%w: unexpected %q at %s", ErrParse, t.Bytes, t.Pos)
	}
	return root, nil
}

type parser struct {
	toks  []token.Token
	i     int
	pd    *token.PosDoc
	n     int
	depth int
	opts  *parseOpts
}

// peekN returns the k'th significant token ahead without consuming
// anything.
func (p *parser) peekN(k int) *token.Token {
	for j := p.i; j < len(p.toks); j++ {
		if p.toks[j].Type.Trivia() {
			continue
		}
		if k == 0 {
			return &p.toks[j]
		}
		k--
	}
	return nil
}

func (p *parser) peek() *token.Token {
	return p.peekN(0)
}

func (p *parser) at(tt token.TokenType) bool {
	t := p.peek()
	return t != nil && t.Type == tt
}

func (p *parser) atKw(kw string) bool {
	t := p.peek()
	return t != nil && t.Type == token.TKeyword && string(t.Bytes) == kw
}

// trivia moves pending whitespace and comments into n.
func (p *parser) trivia(n *Node) {
	for p.i < len(p.toks) && p.toks[p.i].Type.Trivia() {
		n.addToken(&p.toks[p.i])
		p.i++
	}
}

// bump moves pending trivia and the next significant token into n.
// pre: p.peek() != nil
func (p *parser) bump(n *Node) *token.Token {
	p.trivia(n)
	t := &p.toks[p.i]
	n.addToken(t)
	p.i++
	return t
}

func (p *parser) expect(n *Node, tt token.TokenType, what string) error {
	t := p.peek()
	if t == nil || t.Type != tt {
		return p.expected(what, t)
	}
	p.bump(n)
	return nil
}

func (p *parser) expectKw(n *Node, kw string) error {
	if !p.atKw(kw) {
		return p.expected("'"+kw+"'", p.peek())
	}
	p.bump(n)
	return nil
}

func (p *parser) expected(what string, t *token.Token) error {
	return expectedErr(what, t, p.pd, p.n)
}

func (p *parser) descend() error {
	p.depth++
	if p.depth > p.opts.maxDepth {
		t := p.peek()
		if t == nil {
			return ErrTooDeep
		}
		return fmt.Errorf("%w at %s", ErrTooDeep, t.Pos)
	}
	return nil
}

func (p *parser) leaf(parent *Node, kind NodeKind) *Node {
	p.trivia(parent)
	l := &Node{Kind: kind}
	p.bump(l)
	return l
}

func (p *parser) expr(parent *Node) (*Node, error) {
	p.trivia(parent)
	defer func() { p.depth-- }()
	if err := p.descend(); err != nil {
		return nil, err
	}
	t := p.peek()
	if t == nil {
		return nil, p.expected("expression", nil)
	}
	switch t.Type {
	case token.TKeyword:
		switch string(t.Bytes) {
		case "let":
			return p.letIn()
		case "with":
			return p.with()
		case "if":
			return p.ifExpr()
		case "assert":
			return p.assert()
		}
	case token.TIdent:
		if nt := p.peekN(1); nt != nil && (nt.Type == token.TColon || nt.Type == token.TAt) {
			return p.lambda()
		}
	case token.TLCurl:
		if p.isPattern() {
			return p.lambda()
		}
	}
	return p.binary(parent, 0)
}

// isPattern reports whether the '{' ahead opens a function argument
// pattern rather than an attribute set.
func (p *parser) isPattern() bool {
	t1, t2 := p.peekN(1), p.peekN(2)
	if t1 == nil {
		return false
	}
	lambdaNext := func(t *token.Token) bool {
		return t != nil && (t.Type == token.TColon || t.Type == token.TAt)
	}
	switch t1.Type {
	case token.TRCurl:
		return lambdaNext(t2)
	case token.TEllipsis:
		return true
	case token.TIdent:
		if t2 == nil {
			return false
		}
		switch t2.Type {
		case token.TComma, token.TQuestion:
			return true
		case token.TRCurl:
			return lambdaNext(p.peekN(3))
		}
	}
	return false
}

func (p *parser) lambda() (*Node, error) {
	n := &Node{Kind: NLambda}
	if p.at(token.TIdent) {
		n.addNode(p.leaf(n, NIdent))
		if p.at(token.TAt) {
			p.bump(n)
			pat, err := p.pattern(n)
			if err != nil {
				return nil, err
			}
			n.addNode(pat)
		}
	} else {
		pat, err := p.pattern(n)
		if err != nil {
			return nil, err
		}
		n.addNode(pat)
		if p.at(token.TAt) {
			p.bump(n)
			if !p.at(token.TIdent) {
				return nil, p.expected("identifier", p.peek())
			}
			n.addNode(p.leaf(n, NIdent))
		}
	}
	if err := p.expect(n, token.TColon, "':'"); err != nil {
		return nil, err
	}
	body, err := p.expr(n)
	if err != nil {
		return nil, err
	}
	n.addNode(body)
	return n, nil
}

func (p *parser) pattern(parent *Node) (*Node, error) {
	p.trivia(parent)
	pat := &Node{Kind: NPattern}
	if err := p.expect(pat, token.TLCurl, "'{'"); err != nil {
		return nil, err
	}
	for !p.at(token.TRCurl) {
		switch {
		case p.at(token.TEllipsis):
			p.bump(pat)
		case p.at(token.TIdent):
			p.trivia(pat)
			entry := &Node{Kind: NPatEntry}
			entry.addNode(p.leaf(entry, NIdent))
			if p.at(token.TQuestion) {
				p.bump(entry)
				def, err := p.expr(entry)
				if err != nil {
					return nil, err
				}
				entry.addNode(def)
			}
			pat.addNode(entry)
		default:
			return nil, p.expected("pattern entry", p.peek())
		}
		if p.at(token.TComma) {
			p.bump(pat)
			continue
		}
		if !p.at(token.TRCurl) {
			return nil, p.expected("',' or '}'", p.peek())
		}
	}
	p.bump(pat)
	return pat, nil
}

func (p *parser) letIn() (*Node, error) {
	n := &Node{Kind: NLetIn}
	p.bump(n)
	for !p.atKw("in") {
		if p.peek() == nil {
			return nil, p.expected("'in'", nil)
		}
		b, err := p.bindingOrInherit(n)
		if err != nil {
			return nil, err
		}
		n.addNode(b)
	}
	p.bump(n)
	body, err := p.expr(n)
	if err != nil {
		return nil, err
	}
	n.addNode(body)
	return n, nil
}

func (p *parser) with() (*Node, error) {
	n := &Node{Kind: NWith}
	p.bump(n)
	return p.stmtBody(n)
}

func (p *parser) assert() (*Node, error) {
	n := &Node{Kind: NAssert}
	p.bump(n)
	return p.stmtBody(n)
}

// stmtBody parses "expr ; expr" into n.
func (p *parser) stmtBody(n *Node) (*Node, error) {
	e, err := p.expr(n)
	if err != nil {
		return nil, err
	}
	n.addNode(e)
	if err := p.expect(n, token.TSemicolon, "';'"); err != nil {
		return nil, err
	}
	body, err := p.expr(n)
	if err != nil {
		return nil, err
	}
	n.addNode(body)
	return n, nil
}

func (p *parser) ifExpr() (*Node, error) {
	n := &Node{Kind: NIf}
	p.bump(n)
	for i, kw := range []string{"then", "else", ""} {
		e, err := p.expr(n)
		if err != nil {
			return nil, err
		}
		n.addNode(e)
		if i == 2 {
			break
		}
		if err := p.expectKw(n, kw); err != nil {
			return nil, err
		}
	}
	return n, nil
}

var binPrec = map[string]int{
	"->": 1,
	"||": 2,
	"&&": 3,
	"==": 4, "!=": 4,
	"<": 5, ">": 5, "<=": 5, ">=": 5,
	"//": 6,
	"+": 8, "-": 8,
	"*": 9, "/": 9,
	"++": 10,
}

var rightAssoc = map[string]bool{"->": true, "//": true, "++": true}

const (
	notPrec     = 7
	hasAttrPrec = 11
)

func (p *parser) binary(parent *Node, minPrec int) (*Node, error) {
	left, err := p.unary(parent)
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t == nil {
			break
		}
		if t.Type == token.TQuestion {
			if hasAttrPrec < minPrec {
				break
			}
			n := &Node{Kind: NHasAttr}
			n.addNode(left)
			p.bump(n)
			ap, err := p.attrPath(n)
			if err != nil {
				return nil, err
			}
			n.addNode(ap)
			left = n
			continue
		}
		if t.Type != token.TOp {
			break
		}
		op := string(t.Bytes)
		prec, ok := binPrec[op]
		if !ok || prec < minPrec {
			break
		}
		n := &Node{Kind: NBinOp}
		n.addNode(left)
		p.bump(n)
		next := prec + 1
		if rightAssoc[op] {
			next = prec
		}
		right, err := p.binary(n, next)
		if err != nil {
			return nil, err
		}
		n.addNode(right)
		left = n
	}
	return left, nil
}

func (p *parser) unary(parent *Node) (*Node, error) {
	p.trivia(parent)
	t := p.peek()
	if t == nil || t.Type != token.TOp || (!t.Is("!") && !t.Is("-")) {
		return p.apply(parent)
	}
	n := &Node{Kind: NUnaryOp}
	p.bump(n)
	var (
		operand *Node
		err     error
	)
	if t.Is("!") {
		operand, err = p.binary(n, notPrec+1)
	} else {
		operand, err = p.apply(n)
	}
	if err != nil {
		return nil, err
	}
	n.addNode(operand)
	return n, nil
}

func (p *parser) apply(parent *Node) (*Node, error) {
	left, err := p.selectExpr(parent)
	if err != nil {
		return nil, err
	}
	for p.startsOperand() {
		n := &Node{Kind: NApply}
		n.addNode(left)
		arg, err := p.selectExpr(n)
		if err != nil {
			return nil, err
		}
		n.addNode(arg)
		left = n
	}
	return left, nil
}

func (p *parser) startsOperand() bool {
	t := p.peek()
	if t == nil {
		return false
	}
	switch t.Type {
	case token.TIdent:
		return !t.Is("or")
	case token.TString, token.TIndString, token.TInteger, token.TFloat,
		token.TPath, token.TURI, token.TLCurl, token.TLSquare, token.TLParen:
		return true
	case token.TKeyword:
		return t.Is("rec")
	}
	return false
}

func (p *parser) selectExpr(parent *Node) (*Node, error) {
	base, err := p.primary(parent)
	if err != nil {
		return nil, err
	}
	if !p.at(token.TDot) {
		return base, nil
	}
	n := &Node{Kind: NSelect}
	n.addNode(base)
	p.bump(n)
	ap, err := p.attrPath(n)
	if err != nil {
		return nil, err
	}
	n.addNode(ap)
	if t := p.peek(); t != nil && t.Type == token.TIdent && t.Is("or") {
		p.bump(n)
		def, err := p.selectExpr(n)
		if err != nil {
			return nil, err
		}
		n.addNode(def)
	}
	return n, nil
}

func (p *parser) primary(parent *Node) (*Node, error) {
	p.trivia(parent)
	defer func() { p.depth-- }()
	if err := p.descend(); err != nil {
		return nil, err
	}
	t := p.peek()
	if t == nil {
		return nil, p.expected("expression", nil)
	}
	switch t.Type {
	case token.TIdent:
		return p.leaf(parent, NIdent), nil
	case token.TString, token.TIndString:
		return p.leaf(parent, NString), nil
	case token.TInteger, token.TFloat, token.TPath, token.TURI:
		return p.leaf(parent, NLiteral), nil
	case token.TLParen:
		n := &Node{Kind: NParen}
		p.bump(n)
		e, err := p.expr(n)
		if err != nil {
			return nil, err
		}
		n.addNode(e)
		if err := p.expect(n, token.TRParen, "')'"); err != nil {
			return nil, err
		}
		return n, nil
	case token.TLSquare:
		return p.list()
	case token.TLCurl:
		return p.attrSet()
	case token.TKeyword:
		if t.Is("rec") {
			return p.attrSet()
		}
	}
	return nil, p.expected("expression", t)
}

func (p *parser) list() (*Node, error) {
	n := &Node{Kind: NList}
	p.bump(n)
	for !p.at(token.TRSquare) {
		if p.peek() == nil {
			return nil, p.expected("']'", nil)
		}
		e, err := p.selectExpr(n)
		if err != nil {
			return nil, err
		}
		n.addNode(e)
	}
	p.bump(n)
	return n, nil
}

func (p *parser) attrSet() (*Node, error) {
	n := &Node{Kind: NAttrSet}
	if p.atKw("rec") {
		p.bump(n)
	}
	if err := p.expect(n, token.TLCurl, "'{'"); err != nil {
		return nil, err
	}
	for !p.at(token.TRCurl) {
		if p.peek() == nil {
			return nil, p.expected("'}'", nil)
		}
		b, err := p.bindingOrInherit(n)
		if err != nil {
			return nil, err
		}
		n.addNode(b)
	}
	p.bump(n)
	return n, nil
}

func (p *parser) bindingOrInherit(parent *Node) (*Node, error) {
	if p.atKw("inherit") {
		return p.inherit(parent)
	}
	return p.binding(parent)
}

func (p *parser) binding(parent *Node) (*Node, error) {
	p.trivia(parent)
	b := &Node{Kind: NBinding}
	ap, err := p.attrPath(b)
	if err != nil {
		return nil, err
	}
	b.addNode(ap)
	if err := p.expect(b, token.TAssign, "'='"); err != nil {
		return nil, err
	}
	v, err := p.expr(b)
	if err != nil {
		return nil, err
	}
	b.addNode(v)
	if err := p.expect(b, token.TSemicolon, "';'"); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *parser) inherit(parent *Node) (*Node, error) {
	p.trivia(parent)
	n := &Node{Kind: NInherit}
	p.bump(n)
	if p.at(token.TLParen) {
		p.trivia(n)
		from := &Node{Kind: NInheritFrom}
		p.bump(from)
		e, err := p.expr(from)
		if err != nil {
			return nil, err
		}
		from.addNode(e)
		if err := p.expect(from, token.TRParen, "')'"); err != nil {
			return nil, err
		}
		n.addNode(from)
	}
	for p.at(token.TIdent) || p.at(token.TString) {
		a, err := p.attr(n)
		if err != nil {
			return nil, err
		}
		n.addNode(a)
	}
	if err := p.expect(n, token.TSemicolon, "';'"); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) attrPath(parent *Node) (*Node, error) {
	p.trivia(parent)
	ap := &Node{Kind: NAttrPath}
	for {
		a, err := p.attr(ap)
		if err != nil {
			return nil, err
		}
		ap.addNode(a)
		if !p.at(token.TDot) {
			return ap, nil
		}
		p.bump(ap)
	}
}

func (p *parser) attr(parent *Node) (*Node, error) {
	t := p.peek()
	if t == nil {
		return nil, p.expected("attribute name", nil)
	}
	switch t.Type {
	case token.TIdent:
		return p.leaf(parent, NIdent), nil
	case token.TString:
		return p.leaf(parent, NString), nil
	}
	return nil, p.expected("attribute name", t)
}
