package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/msp993/backlog-zenith-project/internal/models"
	"go.uber.org/zap"
)

// Listen subscribes to channel on a dedicated connection and calls handle
// for every change event until ctx is done or the connection fails.
// onSubscribed runs once LISTEN is in effect, before any event is handled.
func (r *Repository) Listen(
	ctx context.Context, channel string, onSubscribed func(), handle func(models.ChangeEvent),
) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return wrapDBError(err, "Listen: acquire connection")
	}
	defer conn.Release()

	if _, err = conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		return wrapDBError(err, "Listen: subscribe")
	}

	zap.L().Info("listening for table changes", zap.String("channel", channel))
	if onSubscribed != nil {
		onSubscribed()
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			return wrapDBError(err, "Listen: wait for notification")
		}

		var event models.ChangeEvent
		if err = json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			zap.L().Warn("skipping malformed change payload",
				zap.String("payload", notification.Payload),
				zap.Error(err),
			)
			continue
		}

		handle(event)
	}
}

// WithAdvisoryLock runs fn while holding the session advisory lock key.
// It reports false without running fn when another session holds the lock.
func (r *Repository) WithAdvisoryLock(ctx context.Context, key int64, fn func(context.Context) error) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, wrapDBError(err, "WithAdvisoryLock: acquire connection")
	}
	defer conn.Release()

	var locked bool
	if err = conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&locked); err != nil {
		return false, wrapDBError(err, "WithAdvisoryLock: lock")
	}
	if !locked {
		return false, nil
	}

	defer func() {
		var unlocked bool
		err := conn.QueryRow(context.Background(), "SELECT pg_advisory_unlock($1)", key).Scan(&unlocked)
		if err != nil || !unlocked {
			zap.L().Error("failed to release advisory lock", zap.Int64("key", key), zap.Error(err))
		}
	}()

	return true, fn(ctx)
}
