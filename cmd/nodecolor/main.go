// Command nodecolor colors the nodes of a graph file from an RGB or hex color
// attribute and prints the result.
//
// Usage:
//
//	nodecolor [flags] <graph-file>
//
// The input format follows the file extension (.yaml, .yml, .json, .csv,
// .dot, .gv) unless -format is given. With -out the colored graph is written
// back in the format of the output path. With -watch the file is colored
// again on every save.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"nodecolor/internal/codec"
	"nodecolor/internal/colorize"
	"nodecolor/internal/config"
	"nodecolor/internal/logging"
	"nodecolor/internal/watcher"

	"go.uber.org/zap"
)

// Exit codes
const (
	exitOK        = 0
	exitError     = 1 // bad usage, unreadable input, or no color column
	exitMalformed = 2 // some nodes carried malformed color values
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	format     string
	out        string
	outFormat  string
	keyword    string
	policy     string
	logLevel   string
	watch      bool
	plain      bool
	input      string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("nodecolor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "nodecolor: Color nodes based on a RGB or hex color attribute\n\n")
		fmt.Fprintf(stderr, "Usage: nodecolor [flags] <graph-file>\n\n")
		fs.PrintDefaults()
	}

	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "Config file (default: search standard locations)")
	fs.StringVar(&o.format, "format", "", "Input format: yaml, json, csv, dot (default: from extension)")
	fs.StringVar(&o.out, "out", "", "Write the colored graph to this file")
	fs.StringVar(&o.outFormat, "out-format", "", "Output format (default: from -out extension)")
	fs.StringVar(&o.keyword, "keyword", "", "Column-name substring to look for (overrides config)")
	fs.StringVar(&o.policy, "policy", "", "Failure policy: independent or atomic (overrides config)")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	fs.BoolVar(&o.watch, "watch", false, "Color the file again whenever it changes")
	fs.BoolVar(&o.plain, "plain", false, "Print without color swatches")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one graph file")
	}
	o.input = fs.Arg(0)

	if o.format == "" {
		o.format = codec.FormatFromPath(o.input)
	}
	if o.format == "" {
		return nil, fmt.Errorf("cannot infer format of %s, use -format", o.input)
	}
	if o.watch && o.out != "" && samePath(o.out, o.input) {
		return nil, errors.New("-out must differ from the watched file")
	}
	if o.out != "" && o.outFormat == "" {
		o.outFormat = codec.FormatFromPath(o.out)
		if o.outFormat == "" {
			o.outFormat = o.format
		}
	}
	return o, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "nodecolor: %v\n", err)
		return exitError
	}

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "nodecolor: %v\n", err)
		return exitError
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	defer logger.Sync()

	colorOpts := append(cfg.ColorizeOptions(), colorize.WithLogger(logger))
	if o.policy != "" {
		p, err := colorize.ParsePolicy(o.policy)
		if err != nil {
			fmt.Fprintf(stderr, "nodecolor: %v\n", err)
			return exitError
		}
		colorOpts = append(colorOpts, colorize.WithPolicy(p))
	}
	if o.keyword != "" {
		colorOpts = append(colorOpts, colorize.WithKeyword(o.keyword))
	}

	job := &job{
		opts:      o,
		colorizer: colorize.New(colorOpts...),
		printer:   newPrinter(stdout, o.plain),
		logger:    logger,
	}

	code := job.once()
	if !o.watch {
		return code
	}

	w := watcher.New(o.input, func() { job.once() }).WithLogger(logger)
	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "nodecolor: watch: %v\n", err)
		return exitError
	}
	return exitOK
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, _, err = config.LoadFromPath(path)
	} else {
		cfg, _, err = config.Load()
	}
	return cfg, err
}

// job is one configured coloring of the input file
type job struct {
	opts      *options
	colorizer *colorize.Colorizer
	printer   *printer
	logger    *zap.Logger
}

// once reads, colors, prints and optionally writes the graph
func (j *job) once() int {
	in, err := codec.New(j.opts.format)
	if err != nil {
		j.printer.fail(err)
		return exitError
	}

	f, err := os.Open(j.opts.input)
	if err != nil {
		j.printer.fail(err)
		return exitError
	}
	g, err := in.Parse(f)
	f.Close()
	if err != nil {
		j.printer.fail(err)
		return exitError
	}
	if g.Name == "" {
		g.Name = j.opts.input
	}

	report := j.colorizer.Run(g)
	j.printer.report(g, report)
	if report.Err != nil {
		return exitError
	}

	if j.opts.out != "" {
		if err := writeGraph(j.opts.out, j.opts.outFormat, g); err != nil {
			j.printer.fail(err)
			return exitError
		}
		j.logger.Info("colored graph written", zap.String("path", j.opts.out))
	}

	if !report.Success {
		return exitMalformed
	}
	return exitOK
}
