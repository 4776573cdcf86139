package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "tanc").
		WithSynopsis("tanc [opts] command [opts]").
		WithDescription(mainDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tancMain(cfg, cc, args)
		}).
		WithSubs(
			DocCommand(cfg),
			PathCommand(cfg),
			DumpCommand(cfg),
			WatchCommand(cfg),
			DiffCommand(cfg),
			LSPCommand(cfg))
}

const mainDescription = `tanc extracts the comments documenting the declarations of Nix
attribute sets.

A declaration is named by its path: '{}' enters an attribute set, '.name'
a binding and '[n]' a list element.  So '{}.services{}.nginx' is the
binding nginx in the set bound to services at the top level.

Logging goes to stderr at level warn; -v and -q raise and lower the
verbosity, and TANC_LOG (debug, info, warn, error) overrides both.`

func DocCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DocConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Doc, "doc").
		WithAliases("d").
		WithSynopsis("doc <file> <line>:<character>").
		WithDescription("print the documentation at a zero based position").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return docMain(cfg, cc, args)
		})
}

func PathCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PathConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Path, "path").
		WithAliases("p").
		WithSynopsis("path <file> <path>").
		WithDescription("print the documentation of the declaration at a path").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return pathMain(cfg, cc, args)
		})
}

func DumpCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DumpConfig{MainConfig: mainCfg, Format: TextFormat}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, &cli.Opt{
		Name:        "f",
		Aliases:     []string{"format"},
		Description: "output format: text/t, json/j, yaml/y",
		Type:        cli.NamedFuncOpt(fmtFunc(&cfg.Format), "(format)"),
	})
	return cli.NewCommandAt(&cfg.Dump, "dump").
		WithSynopsis("dump [-where expr] [-f format] [-rev r] [-tokens|-tree] files").
		WithDescription(dumpDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return dumpMain(cfg, cc, args)
		})
}

const dumpDescription = `dump lists the documented declarations of files.

-where selects declarations with an expression over the variables
path, name, doc, line and depth, with the functions under(path, prefix)
and lines(s).  For example

  tanc dump -where 'under(path, "{}.services{}") && lines(doc) > 1' x.nix`

func WatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &WatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Watch, "watch").
		WithAliases("w").
		WithSynopsis("watch [-where expr] files").
		WithDescription("dump the documentation of files again whenever they change").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return watchMain(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg, Format: TextFormat}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, &cli.Opt{
		Name:        "f",
		Aliases:     []string{"format"},
		Description: "output format: text/t or json/j (a merge patch)",
		Type:        cli.NamedFuncOpt(fmtFunc(&cfg.Format), "(format)"),
	})
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithSynopsis("diff [-f format] a b").
		WithDescription("diff the documentation of two files; exits 1 if they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diffMain(cfg, cc, args)
		})
}

func LSPCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &LSPConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.LSP, "lsp").
		WithSynopsis("lsp [-gops]").
		WithDescription("serve documentation hovers over the language server protocol on stdio").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return lspMain(cfg, cc, args)
		})
}
