// Package docfilter selects documented declarations with boolean
// expressions in the expr language (github.com/expr-lang/expr).
//
// An expression sees these variables:
//
//	path   string  the declaration's path, e.g. "{}.services{}.nginx"
//	name   string  the last named segment of path, or ""
//	doc    string  the documentation text
//	line   int     zero based line of the declaration start
//	depth  int     number of path segments
//
// and these functions:
//
//	under(path, prefix)  path equals prefix or lies below it
//	lines(s)             number of lines in s
package docfilter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/leeola/tanc/docindex"
	"github.com/leeola/tanc/docpath"
)

type Env struct {
	Path  string `expr:"path"`
	Name  string `expr:"name"`
	Doc   string `expr:"doc"`
	Line  int    `expr:"line"`
	Depth int    `expr:"depth"`
}

func NewEnv(e docindex.Entry) Env {
	env := Env{
		Path:  e.Path.String(),
		Doc:   e.Doc.String(),
		Line:  int(e.Range.Start.Line),
		Depth: len(e.Path),
	}
	for i := len(e.Path) - 1; i >= 0; i-- {
		if e.Path[i].Kind == docpath.Ident {
			env.Name = e.Path[i].Name
			break
		}
	}
	return env
}

type Filter struct {
	src  string
	prog *vm.Program
}

func Compile(src string) (*Filter, error) {
	prog, err := expr.Compile(src, exprOpts()...)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", src, err)
	}
	return &Filter{src: src, prog: prog}, nil
}

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Env(Env{}),
		expr.AsBool(),
		expr.Function("under", func(params ...any) (any, error) {
			p, err := docpath.Parse(params[0].(string))
			if err != nil {
				return nil, err
			}
			pfx, err := docpath.Parse(params[1].(string))
			if err != nil {
				return nil, err
			}
			return len(p) >= len(pfx) && p[:len(pfx)].Equal(pfx), nil
		},
			new(func(string, string) bool)),
		expr.Function("lines", func(params ...any) (any, error) {
			s := params[0].(string)
			if s == "" {
				return 0, nil
			}
			return strings.Count(s, "\n") + 1, nil
		},
			new(func(string) int)),
	}
}

func (f *Filter) String() string {
	return f.src
}

// Match reports whether e satisfies f.  A nil filter matches everything.
func (f *Filter) Match(e docindex.Entry) (bool, error) {
	if f == nil {
		return true, nil
	}
	res, err := expr.Run(f.prog, NewEnv(e))
	if err != nil {
		return false, fmt.Errorf("filter %q on %s: %w", f.src, e.Path, err)
	}
	return res.(bool), nil
}

// Apply returns the entries matching f, in order.
func (f *Filter) Apply(es []docindex.Entry) ([]docindex.Entry, error) {
	var res []docindex.Entry
	for _, e := range es {
		ok, err := f.Match(e)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, e)
		}
	}
	return res, nil
}
