package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/rag-client/internal/builder"
)

func main() {
	environment := flag.String("env", "local", "environment name, selects the .env.<env> file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := builder.Build(*environment)
	if err != nil {
		log.Fatal("Failed to build application:", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}
