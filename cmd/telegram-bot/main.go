package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/rag-client/internal/builder"
	"go.uber.org/zap"
)

func main() {
	environment := flag.String("env", "local", "environment name, selects the .env.<env> file")
	flag.Parse()

	bot, logger, cleanup, err := builder.BuildTelegramBot(*environment)
	if err != nil {
		log.Fatal("Failed to build telegram bot:", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Start(ctx); err != nil {
		logger.Error("telegram bot failed to start", zap.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("received shutdown signal")

	// In-flight flows see the cancelled context; Stop waits for them to unwind.
	if err := bot.Stop(); err != nil {
		logger.Error("error stopping bot", zap.Error(err))
		return
	}
	logger.Info("telegram bot stopped gracefully")
}
