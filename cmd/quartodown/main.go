package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"pkt.systems/quartodown"
	"pkt.systems/quartodown/internal/nav"
	"pkt.systems/quartodown/internal/pipeline"
	"pkt.systems/quartodown/internal/quarto"
	"pkt.systems/version"
)

const defaultConfigFile = "quartodown.yml"

func init() {
	version.SetDefaultModule("pkt.systems/quartodown")
}

func main() {
	var (
		renderMode  bool
		navPath     string
		configPath  string
		docsDir     string
		quartoPath  string
		keepOutputs bool
		force       bool
		outPath     string
		maxDepth    int
		verbose     bool
	)

	flags := pflag.NewFlagSet("quartodown", pflag.ExitOnError)
	flags.BoolVarP(&renderMode, "render", "r", false, "Render .qmd sources with quarto before converting")
	flags.StringVar(&navPath, "nav", "", "Rewrite .qmd nav entries in the given mkdocs config and exit")
	flags.StringVarP(&configPath, "config", "c", defaultConfigFile, "Tool configuration file")
	flags.StringVarP(&docsDir, "docs-dir", "d", "", "Directory holding .qmd sources (overrides config)")
	flags.StringVar(&quartoPath, "quarto", "", "Path to the quarto executable (overrides config)")
	flags.BoolVar(&keepOutputs, "keep-outputs", false, "Keep intermediate files quarto generates")
	flags.BoolVarP(&force, "force", "f", false, "Re-render even when targets are up to date")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.IntVar(&maxDepth, "max-depth", 0, "Block nesting depth cap (0 uses the default)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: quartodown [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nWithout --render, quarto-rendered Markdown is read from the inputs")
		fmt.Fprintln(os.Stderr, "(or stdin) and the converted document is written to stdout.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	logger := newLogger(verbose)
	defer func() { _ = logger.Sync() }()

	if navPath != "" {
		if err := nav.RewriteFile(navPath); err != nil {
			fmt.Fprintf(os.Stderr, "rewrite nav: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := pipeline.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if docsDir != "" {
		cfg.DocsDir = docsDir
	}
	if quartoPath != "" {
		cfg.QuartoPath = quartoPath
	}
	if keepOutputs {
		cfg.KeepOutputs = true
	}
	if maxDepth > 0 {
		cfg.MaxDepth = maxDepth
	}

	if renderMode {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		runner, err := quarto.NewRunner(cfg.QuartoPath, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "quarto: %v\n", err)
			os.Exit(1)
		}
		p := &pipeline.Pipeline{Config: cfg, Runner: runner, Logger: logger, Force: force}
		if err := p.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "render: %v\n", err)
			os.Exit(1)
		}
		return
	}

	reader, closer, err := openInputs(flags.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	src, err := io.ReadAll(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}

	var opts []quartodown.Option
	if cfg.MaxDepth > 0 {
		opts = append(opts, quartodown.WithMaxDepth(cfg.MaxDepth))
	}
	out, err := quartodown.TransformDocument(src, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		os.Exit(1)
	}

	writer, closeOut, err := resolveOutput(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}
	if _, err := writer.Write(out); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if term.IsTerminal(int(os.Stderr.Fd())) {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		path := strings.TrimSpace(raw)
		if path == "" {
			return nil, nil, fmt.Errorf("empty input argument")
		}
		sources = append(sources, inputSource{open: func() (io.Reader, io.Closer, error) {
			return openFile(path)
		}})
	}
	return &multiInputReader{sources: sources}, nil, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}
