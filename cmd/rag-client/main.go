package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/futig/rag-client/internal/builder"
)

type globals struct {
	Env      string `help:"Environment name, selects the .env.<env> file." default:"local"`
	LogLevel string `help:"Log level for stderr output." default:"warn" enum:"debug,info,warn,error"`
}

type chatCmd struct {
	File string `help:"Document to upload before the prompt opens." type:"existingfile" optional:""`
}

func (c *chatCmd) Run(ctx context.Context, g *globals) error {
	console, cleanup, err := builder.BuildConsole(g.Env, g.LogLevel, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := console.Start(ctx); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	if c.File != "" {
		if err := console.Upload(ctx, c.File); err != nil {
			return err
		}
	}

	if err := console.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

type askCmd struct {
	File      string   `help:"Document to upload." type:"existingfile" required:""`
	Questions []string `arg:"" help:"Questions to ask, in order."`
}

func (c *askCmd) Run(ctx context.Context, g *globals) error {
	console, cleanup, err := builder.BuildConsole(g.Env, g.LogLevel, strings.NewReader(""), os.Stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := console.Start(ctx); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	if err := console.Upload(ctx, c.File); err != nil {
		return err
	}

	for _, q := range c.Questions {
		if err := console.Ask(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

var cli struct {
	globals

	Chat chatCmd `cmd:"" default:"withargs" help:"Upload a document and chat about it interactively."`
	Ask  askCmd  `cmd:"" help:"Upload a document and ask questions non-interactively."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx := kong.Parse(&cli,
		kong.Name("rag-client"),
		kong.Description("Ask questions about a document indexed by a RAG backend."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	err := kctx.Run(&cli.globals)
	kctx.FatalIfErrorf(err)
}
