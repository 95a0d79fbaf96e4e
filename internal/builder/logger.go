package builder

import (
	"github.com/futig/rag-client/internal/pkg/logger"
	"go.uber.org/zap"
)

func setupLogger(level string, outputPaths ...string) (*zap.Logger, error) {
	l, err := logger.New(level, outputPaths...)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
