package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/stache/internal/config"
	"github.com/dshills/stache/internal/engine/buffer"
	"github.com/dshills/stache/internal/session"
	"github.com/dshills/stache/internal/syntax"
	"github.com/dshills/stache/internal/term"
)

// ReplayCmd types a key script into a document.
type ReplayCmd struct {
	Script    string `arg:"" optional:"" help:"Key script file, or - for standard input"`
	Keys      string `name:"keys" short:"k" help:"Inline key script, used instead of a script file"`
	Doc       string `name:"doc" short:"d" help:"Initial document" type:"existingfile"`
	Caret     int64  `name:"caret" help:"Initial caret offset (default: end of document)" default:"-1"`
	Trace     bool   `name:"trace" short:"t" help:"Print what each key did"`
	Plain     bool   `name:"plain" help:"Disable the typed-character engine"`
	ShowCaret bool   `name:"show-caret" help:"Mark the final caret with |"`
}

func (c *ReplayCmd) Run(g *Globals) error {
	script := c.Keys
	if script == "" {
		if c.Script == "" {
			return errors.New("a key script file or --keys is required")
		}
		var err error
		if script, err = g.readInput(c.Script); err != nil {
			return fmt.Errorf("reading key script: %w", err)
		}
	}

	s, err := g.settings()
	if err != nil {
		return err
	}
	logger, err := g.logger(s, false)
	if err != nil {
		return err
	}

	opts := []session.Option{session.WithSettings(s), session.WithLogger(logger)}
	if c.Doc != "" {
		text, err := g.readInput(c.Doc)
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}
		opts = append(opts, session.WithText(text))
	}
	if c.Caret >= 0 {
		opts = append(opts, session.WithCaret(buffer.ByteOffset(c.Caret)))
	}
	if c.Plain {
		opts = append(opts, session.WithoutEngine())
	}

	sess, err := session.New(opts...)
	if err != nil {
		return err
	}

	results, err := sess.Replay(session.ParseScript(script))
	if c.Trace {
		for _, res := range results {
			fmt.Fprintf(g.stdout, "%-7s %s\n", res.Key, res.Summary())
		}
	}
	if err != nil {
		return err
	}

	text := sess.Text()
	if c.ShowCaret {
		at := sess.Caret()
		text = text[:at] + "|" + text[at:]
	}
	fmt.Fprintln(g.stdout, text)
	return nil
}

// TokensCmd prints the tokens of a template.
type TokensCmd struct {
	File string `arg:"" help:"Template file, or - for standard input"`
}

func (c *TokensCmd) Run(g *Globals) error {
	text, err := g.readInput(c.File)
	if err != nil {
		return err
	}
	for _, tok := range syntax.Tokenize(text) {
		fmt.Fprintln(g.stdout, tok)
	}
	return nil
}

// TreeCmd prints the syntax tree of a template.
type TreeCmd struct {
	File string `arg:"" help:"Template file, or - for standard input"`
}

func (c *TreeCmd) Run(g *Globals) error {
	text, err := g.readInput(c.File)
	if err != nil {
		return err
	}
	return syntax.Parse(text).Dump(g.stdout)
}

// EditCmd opens the terminal editor.
type EditCmd struct {
	File  string `arg:"" optional:"" help:"Template file to edit (created on save)" type:"path"`
	Watch bool   `name:"watch" short:"w" help:"Reload the configuration file when it changes" default:"true" negatable:""`
}

func (c *EditCmd) Run(g *Globals) error {
	s, err := g.settings()
	if err != nil {
		return err
	}
	logger, err := g.logger(s, true)
	if err != nil {
		return err
	}

	var text string
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		text = string(data)
	}

	sess, err := session.New(session.WithText(text), session.WithCaret(0), session.WithSettings(s), session.WithLogger(logger))
	if err != nil {
		return err
	}
	ed, err := term.NewTerminal(sess, c.File, logger)
	if err != nil {
		return fmt.Errorf("creating terminal: %w", err)
	}

	if c.Watch && g.Config != "" {
		w, err := config.NewWatcher(g.Config, func(next config.Settings) {
			if err := sess.SetSettings(next); err != nil {
				ed.Notify(err.Error())
				return
			}
			logger.Info("configuration reloaded from %s", g.Config)
			ed.Notify("configuration reloaded")
		}, config.WithErrorHandler(func(err error) {
			logger.Warn("configuration reload: %v", err)
			ed.Notify(err.Error())
		}))
		if err != nil {
			return fmt.Errorf("watching %s: %w", g.Config, err)
		}
		defer w.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ed.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	if err := ed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintf(g.stdout, "stache %s\n", version)
	fmt.Fprintf(g.stdout, "Commit: %s\n", commit)
	fmt.Fprintf(g.stdout, "Built: %s\n", date)
	return nil
}
