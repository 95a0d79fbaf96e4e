// Package common builds the HTTP plumbing shared by backend connectors.
package common

import (
	"github.com/futig/rag-client/internal/config"
	pkgRetry "github.com/futig/rag-client/internal/pkg/retry"
	pkgHTTP "github.com/futig/rag-client/pkg/http"
	"go.uber.org/zap"
)

const userAgent = "rag-client/1.0"

// NewBaseConnector turns the env-level client settings into a pkg/http
// connector. Retries apply to transport failures only.
func NewBaseConnector(cfg config.HTTPClientConfig, retryCfg pkgRetry.RetryConfig, logger *zap.Logger) *pkgHTTP.Connector {
	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithUserAgent(userAgent),
		pkgHTTP.WithAuthToken(cfg.Token),
		pkgHTTP.WithRequestLogging(),
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("TLS verification disabled for backend", zap.String("url", cfg.Url))
		opts = append(opts, pkgHTTP.WithInsecureSkipVerify(true))
	}

	return pkgHTTP.NewConnector(&pkgHTTP.ConnectorConfig{
		BaseURL: cfg.Url,
		Logger:  logger,
		Retry:   retryCfg.ToRetryOptions(),
	}, opts...)
}
