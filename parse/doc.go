// Package parse builds a concrete syntax tree from Nix-style source.
//
// The tree is lossless: every [token.Token] produced by the tokenizer,
// including whitespace and comments, appears exactly once in the tree, and
// a depth first walk of the tree visits the tokens in source order.
//
// Trivia (whitespace and comments) preceding a construct is attached to the
// enclosing node, before the construct's own node.  Thus a comment that
// precedes a binding is a sibling of the [NBinding] node in its attribute
// set.
package parse
