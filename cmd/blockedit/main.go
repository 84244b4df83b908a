// Package main is the entry point for the blockedit command.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/blockedit/internal/config"
	"github.com/dshills/blockedit/internal/engine"
	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/exchange"
	"github.com/dshills/blockedit/internal/logging"
	"github.com/dshills/blockedit/internal/parse"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var errUsage = errors.New("usage")

type options struct {
	configPath string
	logLevel   string
	scriptPath string
	format     string
	readOnly   bool
	watch      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("blockedit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	var showVersion bool
	fs.StringVar(&opts.configPath, "config", config.DefaultFile, "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", config.DefaultFile, "Path to configuration file (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	fs.StringVar(&opts.scriptPath, "script", "", "Edit script for the edit command")
	fs.StringVar(&opts.format, "format", "json", "Output format for the edit command (json, html)")
	fs.BoolVar(&opts.readOnly, "readonly", false, "Reject mutations in edit scripts")
	fs.BoolVar(&opts.watch, "watch", false, "Run again whenever the configuration file changes")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "blockedit - block document converter and editor\n\n")
		fmt.Fprintf(stderr, "Usage: blockedit [options] <command> [file]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  render    Convert HTML or JSON input to canonical HTML\n")
		fmt.Fprintf(stderr, "  json      Convert HTML or JSON input to the JSON exchange format\n")
		fmt.Fprintf(stderr, "  edit      Apply an edit script to the input document\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  blockedit render post.html\n")
		fmt.Fprintf(stderr, "  blockedit json < post.html > post.json\n")
		fmt.Fprintf(stderr, "  blockedit -script ops.json -format html edit post.json\n")
		fmt.Fprintf(stderr, "  blockedit -watch render post.html\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "blockedit %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(config.WithPath(opts.configPath))
	if err != nil {
		fmt.Fprintf(stderr, "Error: loading config: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	}

	lc := cfg.LoggerConfig()
	lc.Output = stderr
	log := logging.NewLogger(lc)

	in := stdin
	if fs.NArg() == 2 {
		f, err := os.Open(fs.Arg(1))
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	if opts.watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = watch(ctx, fs.Arg(0), opts, cfg, log, in, stdout)
	} else {
		err = execute(fs.Arg(0), opts, cfg, log, in, stdout)
	}
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			fs.Usage()
			return 2
		}
		log.WithError(err).Error("command %s failed", fs.Arg(0))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func execute(cmd string, opts options, cfg *config.Config, log *logging.Logger, in io.Reader, out io.Writer) error {
	editorOpts := []engine.Option{
		engine.WithConfig(cfg),
		engine.WithLogger(log),
	}
	if opts.readOnly {
		editorOpts = append(editorOpts, engine.WithReadOnly())
	}

	switch cmd {
	case "render", "json":
	case "edit":
		if opts.scriptPath == "" {
			return fmt.Errorf("%w: edit requires -script", errUsage)
		}
		if opts.format != "json" && opts.format != "html" {
			return fmt.Errorf("%w: unknown format %q", errUsage, opts.format)
		}
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	blocks, err := readBlocks(in)
	if err != nil {
		return err
	}
	log.Debug("read %d blocks", len(blocks))
	ed := engine.New(append(editorOpts, engine.WithBlocks(blocks...))...)

	format := cmd
	if cmd == "render" {
		format = "html"
	}
	if cmd == "edit" {
		script, err := os.ReadFile(opts.scriptPath)
		if err != nil {
			return err
		}
		if err := applyScript(ed, script); err != nil {
			return err
		}
		format = opts.format
	}
	return writeDocument(ed, format, out)
}

// watch runs cmd once, then again with the reloaded settings every time
// the configuration file changes, until ctx is done.
func watch(ctx context.Context, cmd string, opts options, cfg *config.Config, log *logging.Logger, in io.Reader, out io.Writer) error {
	input, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	if err := execute(cmd, opts, cfg, log, bytes.NewReader(input), out); err != nil {
		return err
	}

	log.Info("watching %s", opts.configPath)
	return config.Watch(ctx, opts.configPath, func(next *config.Config, err error) {
		if err != nil {
			log.WithError(err).Warn("config reload failed")
			return
		}
		if opts.logLevel != "" {
			next.Logging.Level = opts.logLevel
		}
		log.SetLevel(logging.ParseLogLevel(next.Logging.Level))
		log.Debug("config reloaded")
		if err := execute(cmd, opts, next, log, bytes.NewReader(input), out); err != nil {
			log.WithError(err).Error("command %s failed", cmd)
		}
	})
}

// readBlocks decodes JSON exchange input when it starts with an object and
// parses HTML otherwise.
func readBlocks(r io.Reader) ([]*block.Block, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		doc, err := exchange.Unmarshal(trimmed)
		if err != nil {
			return nil, err
		}
		return doc.Blocks(), nil
	}
	return parse.HTML(bytes.NewReader(data))
}

func writeDocument(ed *engine.Editor, format string, out io.Writer) error {
	var data []byte
	switch format {
	case "html":
		data = append([]byte(ed.Render()), '\n')
	default:
		b, err := exchange.MarshalIndent(ed.Document())
		if err != nil {
			return err
		}
		data = b
	}
	_, err := out.Write(data)
	return err
}
