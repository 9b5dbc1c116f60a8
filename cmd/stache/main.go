// Package main is the entry point for stache, a typed-character engine for
// Handlebars templates.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/dshills/stache/internal/config"
	"github.com/dshills/stache/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `name:"config" short:"c" help:"Configuration file (.toml, .yaml or .yml)" type:"path" env:"STACHE_CONFIG"`
	LogLevel string `name:"log-level" help:"Override the configured log level (debug, info, warn, error)"`
	LogFile  string `name:"log-file" help:"Write logs to this file instead of standard error" type:"path"`

	stdout io.Writer
	stdin  io.Reader
	closer io.Closer
}

// CLI defines the command-line interface using Kong.
type CLI struct {
	Globals

	Replay  ReplayCmd  `cmd:"" help:"Replay a key script against a document and print the result"`
	Tokens  TokensCmd  `cmd:"" help:"Print the tokens of a template"`
	Tree    TreeCmd    `cmd:"" help:"Print the syntax tree of a template"`
	Edit    EditCmd    `cmd:"" help:"Edit a template in the terminal"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// settings resolves the configuration, applying command-line overrides.
func (g *Globals) settings() (config.Settings, error) {
	s, err := config.Load(g.Config)
	if err != nil {
		return config.Settings{}, err
	}
	if g.LogLevel != "" {
		s.Logging.Level = g.LogLevel
		if err := s.Validate(); err != nil {
			return config.Settings{}, err
		}
	}
	return s, nil
}

// logger creates the process logger. With quiet set and no log file, logs
// are discarded.
func (g *Globals) logger(s config.Settings, quiet bool) (*logging.Logger, error) {
	var out io.Writer = os.Stderr
	switch {
	case g.LogFile != "":
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		g.closer = f
		out = f
	case quiet:
		return logging.Null(), nil
	}

	l := logging.New(logging.Config{Level: s.LogLevel(), Output: out, Prefix: "stache"})
	logging.SetDefault(l)
	return l, nil
}

// close releases resources opened by logger.
func (g *Globals) close() {
	if g.closer != nil {
		_ = g.closer.Close()
		g.closer = nil
	}
}

// readInput reads a named file, or standard input for "-".
func (g *Globals) readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(g.stdin)
		if err != nil {
			return "", fmt.Errorf("reading standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newParser(cli *CLI, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name("stache"),
		kong.Description("Typed-character engine for Handlebars templates"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	}, opts...)
	return kong.New(cli, opts...)
}

func main() {
	var cli CLI
	cli.stdout = os.Stdout
	cli.stdin = os.Stdin

	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run(&cli.Globals)
	cli.close()
	ctx.FatalIfErrorf(err)
}
