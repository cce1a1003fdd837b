package services

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// KeepAlive pings a self URL on a fixed interval so free-tier hosts do
// not idle the process. Ping failures are logged and retried on the
// next tick; the loop stops when the context is cancelled.
type KeepAlive struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *zap.Logger
}

func NewKeepAlive(url string, interval time.Duration, logger *zap.Logger) *KeepAlive {
	return &KeepAlive{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

func (k *KeepAlive) Run(ctx context.Context) {
	if k.url == "" {
		k.logger.Info("keep-alive disabled, SELF_URL not set")
		return
	}

	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k.ping(ctx)
		}
	}
}

func (k *KeepAlive) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		k.logger.Warn("keep-alive request build failed", zap.Error(err))
		return
	}

	resp, err := k.client.Do(req)
	if err != nil {
		k.logger.Warn("keep-alive ping failed", zap.Error(err))
		return
	}
	resp.Body.Close()
	k.logger.Debug("keep-alive ping", zap.String("url", k.url), zap.Int("status", resp.StatusCode))
}
