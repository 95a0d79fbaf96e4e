// Package telegram exposes the document Q&A chat as a Telegram bot.
package telegram

import (
	"context"
	"fmt"

	"github.com/futig/rag-client/internal/config"
	"github.com/futig/rag-client/internal/telegram/bot"
	"github.com/futig/rag-client/internal/telegram/handlers"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot creates the bot and registers one handler per update kind:
// documents run the upload flow, text runs the query flow, buttons export.
func NewBot(
	cfg *config.TelegramConfig,
	chatUC handlers.ChatUsecase,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, chatUC, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	api := b.GetAPI()
	for _, h := range []handlers.Handler{
		handlers.NewCallbackHandler(api, b.GetExporter(), logger),
		handlers.NewDocumentHandler(api, chatUC, handlers.NewTelegramDownloader(api), logger),
		handlers.NewTextHandler(api, chatUC, logger),
	} {
		b.RegisterHandler(h)
	}

	return b, nil
}
