package parse

import (
	"fmt"
	"strings"

	"github.com/leeola/tanc/token"
)

type NodeKind int

const (
	NRoot NodeKind = iota
	NAttrSet
	NBinding
	NAttrPath
	NInherit
	NInheritFrom
	NIdent
	NString
	NLiteral
	NList
	NParen
	NSelect
	NHasAttr
	NApply
	NLambda
	NPattern
	NPatEntry
	NLetIn
	NWith
	NIf
	NAssert
	NBinOp
	NUnaryOp
)

func (k NodeKind) String() string {
	return map[NodeKind]string{
		NRoot:        "NRoot",
		NAttrSet:     "NAttrSet",
		NBinding:     "NBinding",
		NAttrPath:    "NAttrPath",
		NInherit:     "NInherit",
		NInheritFrom: "NInheritFrom",
		NIdent:       "NIdent",
		NString:      "NString",
		NLiteral:     "NLiteral",
		NList:        "NList",
		NParen:       "NParen",
		NSelect:      "NSelect",
		NHasAttr:     "NHasAttr",
		NApply:       "NApply",
		NLambda:      "NLambda",
		NPattern:     "NPattern",
		NPatEntry:    "NPatEntry",
		NLetIn:       "NLetIn",
		NWith:        "NWith",
		NIf:          "NIf",
		NAssert:      "NAssert",
		NBinOp:       "NBinOp",
		NUnaryOp:     "NUnaryOp",
	}[k]
}

// Node is an interior node of the syntax tree.  Children holds both nodes
// and tokens, in source order.
type Node struct {
	Kind     NodeKind
	Children []Element
}

// Element is a child of a Node: exactly one of Node and Token is set.
type Element struct {
	Node  *Node
	Token *token.Token
}

func (n *Node) addNode(c *Node) {
	n.Children = append(n.Children, Element{Node: c})
}

func (n *Node) addToken(t *token.Token) {
	n.Children = append(n.Children, Element{Token: t})
}

// FirstToken returns the first token of the subtree rooted at n, or nil if
// the subtree holds no tokens.
func (n *Node) FirstToken() *token.Token {
	for _, c := range n.Children {
		if c.Token != nil {
			return c.Token
		}
		if t := c.Node.FirstToken(); t != nil {
			return t
		}
	}
	return nil
}

// LastToken returns the last token of the subtree rooted at n.
func (n *Node) LastToken() *token.Token {
	for i := len(n.Children) - 1; i >= 0; i-- {
		c := n.Children[i]
		if c.Token != nil {
			return c.Token
		}
		if t := c.Node.LastToken(); t != nil {
			return t
		}
	}
	return nil
}

// Tokens calls f on each token of the subtree in source order until f
// returns false.
func (n *Node) Tokens(f func(*token.Token) bool) bool {
	for _, c := range n.Children {
		if c.Token != nil {
			if !f(c.Token) {
				return false
			}
			continue
		}
		if !c.Node.Tokens(f) {
			return false
		}
	}
	return true
}

// Nodes returns the direct child nodes of n.
func (n *Node) Nodes() []*Node {
	var res []*Node
	for _, c := range n.Children {
		if c.Node != nil {
			res = append(res, c.Node)
		}
	}
	return res
}

// Text returns the source text covered by n.
func (n *Node) Text() string {
	var sb strings.Builder
	n.Tokens(func(t *token.Token) bool {
		sb.Write(t.Bytes)
		return true
	})
	return sb.String()
}

// Dump writes an indented representation of the tree, for debugging.
func (n *Node) Dump() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, depth int) {
	ind := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s%s\n", ind, n.Kind)
	for _, c := range n.Children {
		if c.Token != nil {
			fmt.Fprintf(sb, "%s  %s %q\n", ind, c.Token.Type, c.Token.Bytes)
			continue
		}
		c.Node.dump(sb, depth+1)
	}
}
