package docindex

import (
	"log/slog"

	"github.com/leeola/tanc/parse"
)

type opts struct {
	log       *slog.Logger
	parseOpts []parse.ParseOption
	workers   int
}

type Option func(*opts)

// WithLogger sets the logger.  The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *opts) { o.log = l }
}

func WithParseOptions(po ...parse.ParseOption) Option {
	return func(o *opts) { o.parseOpts = append(o.parseOpts, po...) }
}

// WithWorkers bounds the number of files InsertAll indexes at once.
func WithWorkers(n int) Option {
	return func(o *opts) { o.workers = n }
}

func buildOpts(options []Option) *opts {
	res := &opts{}
	for _, o := range options {
		o(res)
	}
	if res.log == nil {
		res.log = slog.Default()
	}
	return res
}
