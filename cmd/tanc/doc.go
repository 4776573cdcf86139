package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/leeola/tanc/docindex"
	"github.com/leeola/tanc/docpath"
	"github.com/leeola/tanc/posindex"
)

func docMain(cfg *DocConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Doc.Parse(cc, args)
	if err != nil {
		cfg.Doc.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: doc requires a file and a position, got %v", cli.ErrUsage, args)
	}
	p, err := parsePosition(args[1])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	f, err := indexFile(cc, cfg.MainConfig, args[0])
	if err != nil {
		return err
	}
	e := f.EntryAt(p)
	if e == nil {
		cfg.Log.Info("no documentation", "file", args[0], "pos", p)
		return cli.ExitCodeErr(1)
	}
	return writeEntry(cc.Out, e)
}

func pathMain(cfg *PathConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Path.Parse(cc, args)
	if err != nil {
		cfg.Path.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: path requires a file and a path, got %v", cli.ErrUsage, args)
	}
	dp, err := docpath.Parse(args[1])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	f, err := indexFile(cc, cfg.MainConfig, args[0])
	if err != nil {
		return err
	}
	d := f.DocAtPath(dp)
	if d == nil {
		cfg.Log.Info("no documentation", "file", args[0], "path", dp)
		return cli.ExitCodeErr(1)
	}
	_, err = io.WriteString(cc.Out, withNewline(d.String()))
	return err
}

func writeEntry(w io.Writer, e *docindex.Entry) error {
	_, err := fmt.Fprintf(w, "%s %s\n%s", e.Path, e.Range, withNewline(e.Doc.String()))
	return err
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// parsePosition parses "line:character", both zero based.
func parsePosition(s string) (posindex.Position, error) {
	l, c, ok := strings.Cut(s, ":")
	if !ok {
		return posindex.Position{}, fmt.Errorf("position %q is not line:character", s)
	}
	line, err := strconv.ParseUint(l, 10, 32)
	if err != nil {
		return posindex.Position{}, fmt.Errorf("bad line in %q: %w", s, err)
	}
	char, err := strconv.ParseUint(c, 10, 32)
	if err != nil {
		return posindex.Position{}, fmt.Errorf("bad character in %q: %w", s, err)
	}
	return posindex.Position{Line: uint32(line), Character: uint32(char)}, nil
}

func readSource(cc *cli.Context, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cc.In)
	}
	return os.ReadFile(path)
}

func indexFile(cc *cli.Context, cfg *MainConfig, path string) (*docindex.FileIndex, error) {
	src, err := readSource(cc, path)
	if err != nil {
		return nil, err
	}
	f, err := docindex.NewFileIndex(src, docindex.WithLogger(cfg.Log))
	if err != nil {
		return nil, fmt.Errorf("error indexing %s: %w", path, err)
	}
	return f, nil
}
