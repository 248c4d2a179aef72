package common

import (
	"errors"

	"github.com/futig/behavior-profile/internal/config"
	"github.com/futig/behavior-profile/internal/entity"
	pkgHTTP "github.com/futig/behavior-profile/pkg/http"
	"go.uber.org/zap"
)

func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return pkgHTTP.NewConnector(
		connCfg,
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(cfg.Token),
	)
}

// IsRetryable reports transport failures and 5xx/429 responses
func IsRetryable(err error) bool {
	var netErr *pkgHTTP.NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr *pkgHTTP.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.IsRetryable()
	}
	return false
}

// ToRemoteError translates an HTTP error response into the domain error
// carrying the server message; other errors are returned unchanged.
func ToRemoteError(err error) error {
	var httpErr *pkgHTTP.HTTPError
	if errors.As(err, &httpErr) {
		return &entity.RemoteError{
			StatusCode: httpErr.StatusCode,
			Message:    httpErr.ServerMessage,
			Err:        err,
		}
	}
	return err
}
