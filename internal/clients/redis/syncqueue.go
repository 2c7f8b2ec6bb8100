package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/campusboard/timetable-backend/internal/logger"
)

// SyncQueue is a durable FIFO of group ids whose external calendars need a
// push. Redis keeps the queue alive across restarts so a sync requested
// right before a deploy is not lost.
type SyncQueue interface {
	Enqueue(ctx context.Context, groupID uuid.UUID) error
	// Dequeue blocks up to timeout; ok is false when the queue stayed empty.
	Dequeue(ctx context.Context, timeout time.Duration) (groupID uuid.UUID, ok bool, err error)
	Close() error
}

type syncQueue struct {
	log *logger.Logger
	rdb *goredis.Client
	key string
}

func NewSyncQueue(log *logger.Logger) (SyncQueue, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	key := strings.TrimSpace(os.Getenv("REDIS_SYNC_QUEUE_KEY"))
	if key == "" {
		key = "calendar_sync"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &syncQueue{
		log: log.With("service", "RedisSyncQueue"),
		rdb: rdb,
		key: key,
	}, nil
}

func (q *syncQueue) Enqueue(ctx context.Context, groupID uuid.UUID) error {
	if q == nil || q.rdb == nil {
		return fmt.Errorf("sync queue not initialized")
	}
	return q.rdb.LPush(ctx, q.key, groupID.String()).Err()
}

func (q *syncQueue) Dequeue(ctx context.Context, timeout time.Duration) (uuid.UUID, bool, error) {
	if q == nil || q.rdb == nil {
		return uuid.Nil, false, fmt.Errorf("sync queue not initialized")
	}

	vals, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	// BRPOP returns [key, value]
	if len(vals) != 2 {
		return uuid.Nil, false, fmt.Errorf("unexpected BRPOP reply of length %d", len(vals))
	}

	groupID, err := uuid.Parse(vals[1])
	if err != nil {
		q.log.Warn("Dropping malformed queue entry", "value", vals[1], "error", err)
		return uuid.Nil, false, nil
	}
	return groupID, true, nil
}

func (q *syncQueue) Close() error {
	if q == nil || q.rdb == nil {
		return nil
	}
	return q.rdb.Close()
}
