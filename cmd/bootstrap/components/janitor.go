package components

import (
	"context"
	"log/slog"
	"time"

	"tableplan/internal/usecase/commands"

	"go.uber.org/fx"
)

var JanitorModule = fx.Module("janitor",
	fx.Invoke(startIdempotencyJanitor),
)

const idempotencyCleanupInterval = time.Hour

// startIdempotencyJanitor prunes expired idempotency keys in the background.
// Keys past their TTL can never be replayed, they only accumulate.
func startIdempotencyJanitor(lc fx.Lifecycle, repo commands.IdempotencyRepository, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(idempotencyCleanupInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						n, err := repo.DeleteExpired(ctx)
						if err != nil {
							logger.Warn("期限切れの冪等性キーの削除に失敗しました", "error", err)
							continue
						}
						if n > 0 {
							logger.Info("期限切れの冪等性キーを削除しました", "count", n)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}
