package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/scott-cotton/cli"

	"github.com/leeola/tanc/docfilter"
	"github.com/leeola/tanc/docindex"
)

func watchMain(cfg *WatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Watch.Parse(cc, args)
	if err != nil {
		cfg.Watch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: watch requires at least one file", cli.ErrUsage)
	}
	var filter *docfilter.Filter
	if cfg.Where != "" {
		filter, err = docfilter.Compile(cfg.Where)
		if err != nil {
			return fmt.Errorf("%w: -where: %w", cli.ErrUsage, err)
		}
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	wt := &watcher{
		idx:     docindex.New(docindex.WithLogger(cfg.Log)),
		files:   make(map[string]string, len(args)),
		filter:  filter,
		out:     cc.Out,
		colored: cfg.colorOut(cc.Out),
		cfg:     cfg.MainConfig,
	}
	dirs := map[string]bool{}
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return err
		}
		wt.files[abs] = arg
		// editors often replace files by renaming, so watch the directory.
		dirs[filepath.Dir(abs)] = true
		wt.update(arg)
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("unable to watch %s: %w", dir, err)
		}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return wt.run(ctx, w.Events, w.Errors)
}

type watcher struct {
	idx     *docindex.RepositoryIndex
	files   map[string]string // absolute path -> name as given
	filter  *docfilter.Filter
	out     io.Writer
	colored bool
	cfg     *MainConfig
}

func (wt *watcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			wt.handle(ev)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			wt.cfg.Log.Warn("watch error", "err", err)
		}
	}
}

func (wt *watcher) handle(ev fsnotify.Event) {
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	name, ok := wt.files[abs]
	if !ok {
		return
	}
	switch {
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		wt.update(name)
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if wt.idx.Remove(name, nil) {
			wt.cfg.Log.Info("removed", "file", name)
		}
	}
}

// update re-indexes name and dumps its declarations.  On failure the
// previous index of name is kept and dumped.
func (wt *watcher) update(name string) {
	src, err := os.ReadFile(name)
	if err == nil {
		err = wt.idx.Insert(name, nil, src)
	}
	if err != nil {
		wt.cfg.Log.Error("unable to index", "file", name, "err", err)
	}
	f := wt.idx.File(name, nil)
	if f == nil {
		return
	}
	es, err := wt.filter.Apply(f.Entries())
	if err != nil {
		wt.cfg.Log.Error("filter failed", "file", name, "err", err)
		return
	}
	recs := make([]dumpRecord, len(es))
	for i := range es {
		recs[i] = dumpRecord{
			File:  name,
			Path:  es[i].Path.String(),
			Range: es[i].Range.String(),
			Doc:   es[i].Doc.String(),
		}
	}
	if len(recs) == 0 {
		fmt.Fprintf(wt.out, "%s: no documentation\n", name)
		return
	}
	if err := writeDump(wt.out, TextFormat, recs, wt.colored); err != nil {
		wt.cfg.Log.Error("write failed", "err", err)
	}
}
