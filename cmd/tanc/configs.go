package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	LogFile       string `cli:"name=log-file desc='also write logs to this file'"`
	TruncLog      bool   `cli:"name=trunc-log desc='truncate the log file instead of appending'"`
	DontLogStderr bool   `cli:"name=dont-log-stderr desc='do not write logs to stderr'"`
	V             int    `cli:"name=v desc='verbosity: 1 info, 2 debug'"`
	Q             int    `cli:"name=q desc='quietness: 1 errors only, 2 nothing'"`
	Color         bool   `cli:"name=color desc='color output'"`

	Out      string
	CloseOut func() error

	Log      *slog.Logger
	CloseLog func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// colorOut reports whether output to w is colored: -color forces it,
// otherwise w must be a terminal.
func (cfg *MainConfig) colorOut(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type Format string

const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
	YAMLFormat Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "t":
		return TextFormat, nil
	case "json", "j":
		return JSONFormat, nil
	case "yaml", "y":
		return YAMLFormat, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

func fmtFunc(fp *Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = f
		return f, nil
	})
}

type DocConfig struct {
	*MainConfig

	Doc *cli.Command
}

type PathConfig struct {
	*MainConfig

	Path *cli.Command
}

type DumpConfig struct {
	*MainConfig
	Where  string `cli:"name=where desc='expr filter on path, name, doc, line, depth'"`
	Tokens bool   `cli:"name=tokens desc='dump tokens instead of docs'"`
	Tree   bool   `cli:"name=tree desc='dump syntax trees instead of docs'"`
	Rev    string `cli:"name=rev desc='revision label for the files'"`
	Format Format

	Dump *cli.Command
}

type WatchConfig struct {
	*MainConfig
	Where string `cli:"name=where desc='expr filter on path, name, doc, line, depth'"`

	Watch *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Format Format

	Diff *cli.Command
}

type LSPConfig struct {
	*MainConfig
	Gops bool `cli:"name=gops desc='start a gops diagnostics agent'"`

	LSP *cli.Command
}

func revision(rev string) *string {
	if rev == "" {
		return nil
	}
	return &rev
}
