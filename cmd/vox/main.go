package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"vox/internal"
)

type stdPrinter struct {
	w io.Writer
}

func (s stdPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Fprintln(s.w, a...)
}

// diagPrinter paints every line it prints, colours are off when not on a terminal
type diagPrinter struct {
	w io.Writer
	c *color.Color
}

func (d diagPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Fprintln(d.w, d.c.Red(fmt.Sprint(a...)))
}

type source struct {
	absPath string
	text    string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("vox", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "yaml configuration file")
	logLevel := flags.String("log-level", "", "log level, overrides the configuration")
	printAst := flags.Bool("ast", false, "print the syntax tree instead of running")
	check := flags.Bool("check", false, "only report static errors, files are checked concurrently")
	noColor := flags.Bool("no-color", false, "never colour diagnostics")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vox [flags] /path/to/source.vox...")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	cfg := internal.DefaultConfig()
	if *configPath != "" {
		loaded, err := internal.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		cfg = loaded
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(cfg.Level())
	if *logLevel != "" {
		level, err := logrus.ParseLevel(*logLevel)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		logger.SetLevel(level)
	}

	c := color.New()
	if *noColor || !term.IsTerminal(int(os.Stderr.Fd())) {
		c.Disable()
	}
	errOut := diagPrinter{w: os.Stderr, c: c}

	sources, err := readSources(flags.Args())
	if err != nil {
		logger.WithError(err).Error("cannot read source")
		return 66
	}

	switch {
	case *check:
		return checkAll(sources, cfg, logger, errOut)
	case *printAst:
		status := 0
		for _, src := range sources {
			tree, diags := internal.FormatTree(src.absPath, src.text, cfg, logger)
			fmt.Print(tree)
			for _, d := range diags {
				errOut.Println(d.String())
				status = 65
			}
		}
		return status
	}

	interp := internal.NewInterpreter(cfg, stdPrinter{w: os.Stdout}, errOut, logger)
	for _, src := range sources {
		err := interp.Exec(src.absPath, src.text)
		switch {
		case errors.Is(err, internal.ErrStatic):
			return 65
		case err != nil:
			return 70
		}
	}
	return 0
}

func readSources(paths []string) ([]source, error) {
	sources := make([]source, len(paths))
	for i, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		b, err := os.ReadFile(absPath)
		if err != nil {
			return nil, err
		}
		sources[i] = source{absPath: absPath, text: string(b)}
	}
	return sources, nil
}

// checkAll gives every file its own parser, so files are independent
func checkAll(sources []source, cfg *internal.Config, logger *logrus.Logger, errOut internal.IPrinter) int {
	results := make([][]internal.Diagnostic, len(sources))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			results[i] = internal.Check(src.absPath, src.text, cfg, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("check failed")
		return 70
	}

	status := 0
	for i, diags := range results {
		for _, d := range diags {
			errOut.Println(sources[i].absPath + ": " + d.String())
			status = 65
		}
	}
	return status
}
