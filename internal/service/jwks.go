package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"go.uber.org/zap"
)

const jwksClientTimeout = 10 * time.Second

// NewJWKSKeyfunc builds a key source backed by a remote JWKS endpoint that is
// refreshed in the background. Start-up does not fail when the endpoint is
// still unreachable.
func NewJWKSKeyfunc(url string, refresh time.Duration, logger *zap.Logger) (keyfunc.Keyfunc, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if refresh <= 0 {
		refresh = 10 * time.Minute
	}
	storage, err := jwkset.NewStorageFromHTTP(url, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: jwksClientTimeout},
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refresh,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("jwks refresh failed", zap.String("url", url), zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create jwks storage: %w", err)
	}
	k, err := keyfunc.New(keyfunc.Options{Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("create keyfunc: %w", err)
	}
	return k, nil
}
