// Package cli is the command-line shell around the resize service. It owns
// argument parsing, human-readable output and the exit code.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"imagepro/batch"
	"imagepro/config"
	"imagepro/converter"
	"imagepro/models"
	"imagepro/service"
	"imagepro/validation"
	"imagepro/watcher"
)

const Version = "1.0.0"

const (
	ExitSuccess         = 0
	ExitInvalidArgument = 2
	ExitInputNotFound   = 3
	ExitProcessing      = 4
)

// Run executes the command in args (without the program name) and returns
// the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "resize":
		return runResize(ctx, args[1:], stdout, stderr)
	case "watch":
		return runWatch(ctx, args[1:], stdout, stderr)
	case "version", "--version":
		fmt.Fprintf(stdout, "imagepro %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		printUsage(stdout)
		return ExitSuccess
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", args[0])
		printUsage(stderr)
		return ExitInvalidArgument
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `ImagePro - generate responsive JPEG variants

Usage:
  imagepro resize [flags] <file|dir|glob>...
  imagepro watch --dir <dir> [flags]
  imagepro version

Examples:
  imagepro resize --input photo.jpg --width 300,600,900
  imagepro resize --height 400,800 --output ./thumbs photos/*.jpg
  imagepro watch --dir ./inbox --width 320,640,1280 --output ./public/img

Run "imagepro <command> -h" for the flags of a command.
`)
}

func runResize(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgument
	}
	logger := newLogger(cfg, stderr)
	defer logger.Sync()

	fs := flag.NewFlagSet("resize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "", "Input JPEG file")
	var jf jobFlags
	jf.register(fs, cfg)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitInvalidArgument
	}

	base, err := jf.args(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgument
	}

	patterns := fs.Args()
	if *input != "" {
		patterns = append([]string{*input}, patterns...)
	}
	if len(patterns) == 0 {
		fmt.Fprintln(stderr, "Error: no input given (use --input or pass files)")
		return ExitInvalidArgument
	}

	inputs, err := batch.ExpandInputs(patterns)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgument
	}
	if len(inputs) == 0 {
		fmt.Fprintln(stderr, "Error: no JPEG files matched the given inputs")
		return ExitInputNotFound
	}

	proc := newProcessor(jf.concurrency)
	runner := batch.NewRunner(proc, logger)
	pr := &printer{stdout: stdout, stderr: stderr, srcset: jf.srcset, urlPrefix: jf.urlPrefix}

	code := ExitSuccess
	seen := 0
	runner.Run(ctx, inputs, base, func(res batch.Result) {
		if seen > 0 {
			fmt.Fprintln(stdout)
		}
		seen++
		pr.result(res)
		code = max(code, exitCode(res))
	})
	if ctx.Err() != nil {
		code = max(code, ExitProcessing)
	}
	return code
}

func runWatch(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgument
	}
	logger := newLogger(cfg, stderr)
	defer logger.Sync()

	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("dir", "", "Directory to watch for new JPEG files")
	debounce := fs.Duration("debounce", watcher.DefaultDebounce, "Quiet period before a changed file is processed")
	var jf jobFlags
	jf.register(fs, cfg)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitInvalidArgument
	}
	if *dir == "" {
		fmt.Fprintln(stderr, "Error: --dir is required")
		return ExitInvalidArgument
	}

	base, err := jf.args(fs)
	if err == nil {
		err = validation.ValidateOptions(base)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgument
	}

	w, err := watcher.NewWatcher(watcher.Options{
		Dir:       *dir,
		OutputDir: base.OutputDir,
		Debounce:  *debounce,
		Logger:    logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgument
	}
	defer w.Close()

	runner := batch.NewRunner(newProcessor(jf.concurrency), logger)
	pr := &printer{stdout: stdout, stderr: stderr, srcset: jf.srcset, urlPrefix: jf.urlPrefix}

	g, gctx := errgroup.WithContext(ctx)
	paths := make(chan string)

	g.Go(func() error {
		return w.Run(gctx, paths)
	})
	g.Go(func() error {
		for path := range paths {
			runner.Run(gctx, []string{path}, base, pr.result)
			fmt.Fprintln(stdout)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Watch stopped", zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInputNotFound
	}
	return ExitSuccess
}

func newProcessor(concurrency int) *service.Processor {
	return service.NewProcessor(converter.NewConverter(), service.WithConcurrency(concurrency))
}

// exitCode maps one input's result onto the process exit code.
func exitCode(res batch.Result) int {
	if res.Err != nil {
		switch {
		case errors.Is(res.Err, models.ErrInvalidArgument):
			return ExitInvalidArgument
		case errors.Is(res.Err, models.ErrInputNotFound):
			return ExitInputNotFound
		default:
			return ExitProcessing
		}
	}
	if res.Report.Status.OK() {
		return ExitSuccess
	}
	// The input can vanish between validation and probing.
	if errors.Is(res.Report.Err, models.ErrInputNotFound) {
		return ExitInputNotFound
	}
	return ExitProcessing
}

// newLogger writes structured logs to w. Production keeps the terminal
// quiet below warnings since the human report already goes to stdout.
func newLogger(cfg *config.Config, w io.Writer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encCfg)
	level := zapcore.WarnLevel

	if cfg.IsDevelopment() {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encCfg)
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core)
}
