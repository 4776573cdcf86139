package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	jsonpatch "github.com/evanphx/json-patch"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/leeola/tanc/docindex"
)

func diffMain(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := indexFile(cc, cfg.MainConfig, args[0])
	if err != nil {
		return err
	}
	b, err := indexFile(cc, cfg.MainConfig, args[1])
	if err != nil {
		return err
	}
	var differs bool
	switch cfg.Format {
	case JSONFormat:
		differs, err = writeMergePatch(cc.Out, docMap(a), docMap(b))
	case TextFormat:
		differs, err = writeDocDiff(cc.Out, docMap(a), docMap(b), cfg.colorOut(cc.Out))
	default:
		return fmt.Errorf("%w: diff does not output %s", cli.ErrUsage, cfg.Format)
	}
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// docMap maps the path strings of f's declarations to their docs.
func docMap(f *docindex.FileIndex) map[string]string {
	es := f.Entries()
	res := make(map[string]string, len(es))
	for i := range es {
		res[es[i].Path.String()] = es[i].Doc.String()
	}
	return res
}

// writeMergePatch writes the JSON merge patch taking doc map a to b.
func writeMergePatch(w io.Writer, a, b map[string]string) (bool, error) {
	ja, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	patch, err := jsonpatch.CreateMergePatch(ja, jb)
	if err != nil {
		return false, fmt.Errorf("unable to create merge patch: %w", err)
	}
	if string(patch) == "{}" {
		return false, nil
	}
	_, err = fmt.Fprintf(w, "%s\n", patch)
	return true, err
}

// writeDocDiff writes, in path order, each declaration whose doc differs
// between a and b, followed by a line diff of the doc texts.
func writeDocDiff(w io.Writer, a, b map[string]string, colored bool) (bool, error) {
	del, ins := fmt.Sprintf, fmt.Sprintf
	if colored {
		r, g := color.New(color.FgRed), color.New(color.FgGreen)
		r.EnableColor()
		g.EnableColor()
		del, ins = r.SprintfFunc(), g.SprintfFunc()
	}
	paths := make([]string, 0, len(a)+len(b))
	for p := range a {
		paths = append(paths, p)
	}
	for p := range b {
		if _, ok := a[p]; !ok {
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)

	differs := false
	for _, p := range paths {
		da, inA := a[p]
		db, inB := b[p]
		var err error
		switch {
		case !inB:
			_, err = fmt.Fprintf(w, "%s\n", del("- %s", p))
		case !inA:
			_, err = fmt.Fprintf(w, "%s\n", ins("+ %s", p))
		case da == db:
			continue
		default:
			if _, err = fmt.Fprintf(w, "~ %s\n", p); err != nil {
				return true, err
			}
			err = writeLineDiff(w, da, db, del, ins)
		}
		if err != nil {
			return true, err
		}
		differs = true
	}
	return differs, nil
}

func writeLineDiff(w io.Writer, a, b string, del, ins func(string, ...any) string) error {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(withNewline(a), withNewline(b))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	for _, d := range diffs {
		for _, ln := range strings.SplitAfter(d.Text, "\n") {
			if ln == "" {
				continue
			}
			ln = strings.TrimSuffix(ln, "\n")
			var s string
			switch d.Type {
			case diffpatch.DiffDelete:
				s = del("    -%s", ln)
			case diffpatch.DiffInsert:
				s = ins("    +%s", ln)
			default:
				s = "     " + ln
			}
			if _, err := fmt.Fprintf(w, "%s\n", s); err != nil {
				return err
			}
		}
	}
	return nil
}
