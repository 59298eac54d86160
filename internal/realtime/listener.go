package realtime

import (
	"context"
	"time"

	"github.com/msp993/backlog-zenith-project/internal/models"
	"go.uber.org/zap"
)

// ChangeSource delivers database change events. onSubscribed runs each
// time a subscription is established.
type ChangeSource interface {
	Listen(ctx context.Context, channel string, onSubscribed func(), handle func(models.ChangeEvent)) error
}

// Follow keeps a subscription to channel open until ctx is done,
// subscribing again after retryDelay whenever it fails.
func Follow(
	ctx context.Context,
	src ChangeSource,
	channel string,
	retryDelay time.Duration,
	onSubscribed func(),
	handle func(models.ChangeEvent),
) {
	for {
		err := src.Listen(ctx, channel, onSubscribed, handle)
		if ctx.Err() != nil {
			return
		}
		zap.L().Error("change listener stopped, retrying",
			zap.Error(err),
			zap.Duration("delay", retryDelay),
			zap.String("type", "technical"))

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}
}
