// Package correlate walks a syntax tree and attaches the comments
// preceding each declaration to it.
//
// The walk tracks a (line, column) cursor through every token so that each
// documented declaration is reported both by its [docpath.Path] and by its
// source range.  Columns count UTF-16 code units.
//
// Comments accumulate in a buffer belonging to the innermost enclosing
// scope.  The next declaration in that scope takes the whole buffer as its
// documentation, the lines joined by newlines.  An attribute set takes the
// comments immediately preceding it, and its bindings start from an empty
// buffer.  Comments that no declaration follows are dropped.
//
// The walk understands attribute sets, bindings, inherit statements,
// lists, parentheses and simple values.  Any other expression stops the
// walk with [ErrUnsupportedSyntax].
package correlate
