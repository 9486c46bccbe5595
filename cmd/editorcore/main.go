// Command editorcore is a smoke harness for the document-model core: it
// constructs an Editor, opens a file (or a one-line sample text), replays a
// handful of events, and prints the resulting text and view stream. It
// exercises the public internal/editor API end to end without a terminal
// front end, which is out of this core's scope.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/inkwell-editor/core/internal/editor"
	"github.com/inkwell-editor/core/internal/editorlog"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	content := opts.Content
	if opts.FilePath != "" {
		data, err := os.ReadFile(opts.FilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", opts.FilePath, err)
			return 1
		}
		content = string(data)
	}

	logger := editorlog.New(editorlog.Config{
		Level:     editorlog.ParseLevel(opts.LogLevel),
		Component: "editorcore",
		Pretty:    true,
	})

	cfg := editor.DefaultConfig()
	cfg.Content = content
	cfg.Logger = logger
	ed := editor.New(cfg)

	if opts.Demo {
		runDemo(ed, logger)
	}

	fmt.Println(ed.Text())
	return 0
}

// runDemo exercises a few representative operations — an insert, a view
// build, an undo — so a fresh reader can see the whole event-sourced round trip in
// one run without a terminal.
func runDemo(ed *editor.Editor, logger *editorlog.Logger) {
	id := ed.InsertAtCursor("\n")
	logger.Info("recorded insert as event %d", id)

	stream := ed.BuildView()
	logger.Info("built view with %d tokens", len(stream.Tokens))

	if _, err := ed.Undo(); err != nil && !errors.Is(err, editor.ErrUndoExhausted) {
		logger.Error("undo failed: %v", err)
	}
}

type options struct {
	Content  string
	FilePath string
	LogLevel string
	Demo     bool
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.FilePath, "file", "", "Path to a file to load")
	flag.StringVar(&opts.FilePath, "f", "", "Path to a file to load (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.Demo, "demo", true, "Record a small demo sequence of events before printing")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "editorcore - document-model core smoke harness\n\n")
		fmt.Fprintf(os.Stderr, "Usage: editorcore [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("editorcore %s (%s)\n", version, commit)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if opts.Content == "" && opts.FilePath == "" {
		opts.Content = "hello, editorcore\n"
	}

	return opts
}
