package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/leeola/tanc/docfilter"
	"github.com/leeola/tanc/docindex"
	"github.com/leeola/tanc/parse"
	"github.com/leeola/tanc/token"
)

func dumpMain(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		cfg.Dump.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: dump requires at least one file", cli.ErrUsage)
	}
	if cfg.Tokens && cfg.Tree {
		return fmt.Errorf("%w: -tokens and -tree are exclusive", cli.ErrUsage)
	}
	srcs := make([]docindex.Source, 0, len(args))
	for _, arg := range args {
		src, err := readSource(cc, arg)
		if err != nil {
			return err
		}
		srcs = append(srcs, docindex.Source{FilePath: arg, Revision: revision(cfg.Rev), Src: src})
	}
	switch {
	case cfg.Tokens:
		return dumpTokens(cc.Out, srcs)
	case cfg.Tree:
		return dumpTrees(cc.Out, srcs)
	}
	var filter *docfilter.Filter
	if cfg.Where != "" {
		filter, err = docfilter.Compile(cfg.Where)
		if err != nil {
			return fmt.Errorf("%w: -where: %w", cli.ErrUsage, err)
		}
	}
	idx := docindex.New(docindex.WithLogger(cfg.Log))
	if err := idx.InsertAll(context.Background(), srcs); err != nil {
		return err
	}
	recs, err := dumpRecords(idx, filter)
	if err != nil {
		return err
	}
	return writeDump(cc.Out, cfg.Format, recs, cfg.colorOut(cc.Out))
}

func dumpTokens(w io.Writer, srcs []docindex.Source) error {
	for i := range srcs {
		toks, err := token.Tokenize(nil, srcs[i].Src)
		if err != nil {
			return fmt.Errorf("error tokenizing %s: %w", srcs[i].FilePath, err)
		}
		token.PrintTokens(w, toks, srcs[i].FilePath)
	}
	return nil
}

func dumpTrees(w io.Writer, srcs []docindex.Source) error {
	for i := range srcs {
		n, err := parse.Parse(srcs[i].Src)
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", srcs[i].FilePath, err)
		}
		if _, err := fmt.Fprintf(w, "%s:\n%s", srcs[i].FilePath, n.Dump()); err != nil {
			return err
		}
	}
	return nil
}

type dumpRecord struct {
	File  string `json:"file" yaml:"file"`
	Path  string `json:"path" yaml:"path"`
	Range string `json:"range" yaml:"range"`
	Doc   string `json:"doc" yaml:"doc"`
}

func dumpRecords(idx *docindex.RepositoryIndex, filter *docfilter.Filter) ([]dumpRecord, error) {
	var res []dumpRecord
	for _, k := range idx.Keys() {
		es, err := filter.Apply(idx.File(k.FilePath, k.Revision).Entries())
		if err != nil {
			return nil, fmt.Errorf("error filtering %s: %w", k, err)
		}
		for i := range es {
			res = append(res, dumpRecord{
				File:  k.String(),
				Path:  es[i].Path.String(),
				Range: es[i].Range.String(),
				Doc:   es[i].Doc.String(),
			})
		}
	}
	return res, nil
}

type painter struct {
	file, path, rng func(string, ...any) string
}

func newPainter(on bool) *painter {
	if !on {
		return &painter{file: fmt.Sprintf, path: fmt.Sprintf, rng: fmt.Sprintf}
	}
	file := color.New(color.Bold)
	path := color.RGB(0x5f, 0x87, 0xd7)
	rng := color.New(color.Faint)
	for _, c := range []*color.Color{file, path, rng} {
		c.EnableColor()
	}
	return &painter{file: file.SprintfFunc(), path: path.SprintfFunc(), rng: rng.SprintfFunc()}
}

func writeDump(w io.Writer, f Format, recs []dumpRecord, colored bool) error {
	switch f {
	case JSONFormat:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if recs == nil {
			recs = []dumpRecord{}
		}
		return enc.Encode(recs)
	case YAMLFormat:
		d, err := yaml.Marshal(recs)
		if err != nil {
			return err
		}
		_, err = w.Write(d)
		return err
	}
	p := newPainter(colored)
	file := ""
	for i := range recs {
		r := &recs[i]
		if r.File != file {
			file = r.File
			if _, err := fmt.Fprintf(w, "%s\n", p.file("%s:", file)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  %s %s\n", p.path("%s", r.Path), p.rng("%s", r.Range)); err != nil {
			return err
		}
		if r.Doc == "" {
			continue
		}
		for _, ln := range strings.Split(r.Doc, "\n") {
			if _, err := fmt.Fprintf(w, "    %s\n", ln); err != nil {
				return err
			}
		}
	}
	return nil
}
