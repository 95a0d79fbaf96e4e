package builder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/futig/rag-client/internal/api"
	chatapi "github.com/futig/rag-client/internal/api/chat"
	"github.com/futig/rag-client/internal/cli"
	"github.com/futig/rag-client/internal/config"
	"github.com/futig/rag-client/internal/integration/rag"
	"github.com/futig/rag-client/internal/pkg/formatter"
	"github.com/futig/rag-client/internal/pkg/validator"
	"github.com/futig/rag-client/internal/telegram"
	"github.com/futig/rag-client/internal/usecase/chat"
	"go.uber.org/zap"
)

// core holds what every surface shares.
type core struct {
	cfg    *config.Config
	logger *zap.Logger
	store  sessionStore
	chatUC *chat.ChatUsecase
}

func (c *core) close() {
	c.store.Close()
	_ = c.logger.Sync()
}

func buildCore(environment, logLevel string, logOutput ...string) (*core, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	logger, err := setupLogger(logLevel, logOutput...)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	store, err := setupSessionStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var ragConnector chat.RagConnector
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the RAG service")
		ragConnector = rag.NewMockConnector(logger)
	} else {
		logger.Info("Using real connector for the RAG service",
			zap.String("url", cfg.RAGConnectorCfg.Url),
		)
		ragConnector = rag.NewConnector(cfg.RAGConnectorCfg, logger)
	}

	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)

	chatUC := chat.NewUsecase(
		store,
		fileValidator,
		ragConnector,
		formatter.NewFactory(),
		logger,
	)
	logger.Info("Use cases initialized")

	return &core{
		cfg:    cfg,
		logger: logger,
		store:  store,
		chatUC: chatUC,
	}, nil
}

// Build wires the web gateway.
func Build(environment string) (*App, error) {
	c, err := buildCore(environment, "")
	if err != nil {
		return nil, err
	}

	c.logger.Info("Building web gateway",
		zap.String("environment", c.cfg.Environment),
		zap.String("server_addr", c.cfg.ServerAddr),
	)

	chatHandler := chatapi.NewHandler(c.chatUC, c.cfg.FileUploadCfg)
	router := api.SetupRouter(chatHandler, c.logger, c.cfg.RAGConnectorCfg.RequestTimeout+10*time.Second)
	c.logger.Info("HTTP router configured")

	// Write timeout covers a full RAG round trip plus the upload body.
	server := &http.Server{
		Addr:         c.cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: c.cfg.RAGConnectorCfg.RequestTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	c.logger.Info("Application built successfully",
		zap.String("environment", c.cfg.Environment),
	)

	return &App{
		server: server,
		core:   c,
		logger: c.logger,
	}, nil
}

// BuildTelegramBot creates the Telegram bot and returns a func releasing its resources.
func BuildTelegramBot(environment string) (telegram.Bot, *zap.Logger, func(), error) {
	c, err := buildCore(environment, "")
	if err != nil {
		return nil, nil, nil, err
	}

	c.logger.Info("Building Telegram bot",
		zap.String("environment", c.cfg.Environment),
	)

	bot, err := telegram.NewBot(&c.cfg.TelegramCfg, c.chatUC, c.logger)
	if err != nil {
		c.close()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	c.logger.Info("Telegram bot built successfully")
	return bot, c.logger, c.close, nil
}

// BuildConsole wires the terminal client. Logs go to stderr so they do not
// interleave with the conversation on stdout.
func BuildConsole(environment, logLevel string, in io.Reader, out io.Writer) (*cli.Console, func(), error) {
	c, err := buildCore(environment, logLevel, "stderr")
	if err != nil {
		return nil, nil, err
	}

	return cli.NewConsole(c.chatUC, in, out), c.close, nil
}
