package main

import (
	"context"
	"log/slog"
	"time"

	"bookhub/internal/microservices/http-api/repository"
)

const refreshTokenSweepInterval = time.Hour

// pruneRefreshTokens deletes expired and revoked refresh tokens until ctx is done.
func pruneRefreshTokens(ctx context.Context, tokens repository.RefreshTokenRepository, log *slog.Logger) {
	ticker := time.NewTicker(refreshTokenSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := tokens.DeleteExpired(ctx, now)
			if err != nil {
				log.Warn("refresh_token_prune_failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("refresh_tokens_pruned", "count", n)
			}
		}
	}
}
