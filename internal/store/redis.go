package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/leonid6372/trades-pager/internal/common/domain"
	"github.com/leonid6372/trades-pager/pkg/errs"
	"github.com/leonid6372/trades-pager/pkg/log"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func windowKey(sessionID string) string {
	return fmt.Sprintf("trades-pager:%s:window", sessionID)
}

// listRange converts an offset/limit pair into the inclusive LRANGE bounds.
func listRange(offset, limit int) (start, stop int64) {
	return int64(offset), int64(offset + limit - 1)
}

// RedisWindow is a Store backed by a Redis list of JSON encoded trades, one list per session.
type RedisWindow struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration

	repo    domain.TradesRepository
	account string

	loadMu sync.Mutex
}

func NewRedisWindow(client redis.UniversalClient, sessionID string, ttl time.Duration,
	repo domain.TradesRepository, account string,
) *RedisWindow {
	return &RedisWindow{
		client:  client,
		key:     windowKey(sessionID),
		ttl:     ttl,
		repo:    repo,
		account: account,
	}
}

func (w *RedisWindow) Load(ctx context.Context, offset, length int) error {
	if err := checkRange(offset, length); err != nil {
		return err
	}

	w.loadMu.Lock()
	defer w.loadMu.Unlock()

	loaded, err := w.client.LLen(ctx, w.key).Result()
	if err != nil {
		return errs.NewStack(err)
	}

	from := min(offset, int(loaded))

	fetched, err := w.repo.GetTradesRange(ctx, w.account, int64(from), int64(offset+length-from))
	if err != nil {
		return errs.NewStack(err)
	}

	values := make([][]byte, 0, len(fetched))
	for _, trade := range fetched {
		data, err := json.Marshal(trade)
		if err != nil {
			return errs.NewStack(fmt.Errorf("failed to encode trade %d: %w", trade.ID, err))
		}
		values = append(values, data)
	}

	pipe := w.client.TxPipeline()
	for i, data := range values {
		if idx := int64(from + i); idx < loaded {
			pipe.LSet(ctx, w.key, idx, data)
		} else {
			pipe.RPush(ctx, w.key, data)
		}
	}
	w.touch(ctx, pipe)

	if _, err := pipe.Exec(ctx); err != nil {
		return errs.NewStack(err)
	}

	log.Debug("redis window loaded",
		zap.String("key", w.key),
		zap.Int("from", from),
		zap.Int("fetched", len(fetched)),
	)

	return nil
}

// TotalLoaded renews the list TTL along with the read so a session that keeps paging inside the
// loaded rows does not lose them.
func (w *RedisWindow) TotalLoaded(ctx context.Context) (int, error) {
	pipe := w.client.Pipeline()
	llen := pipe.LLen(ctx, w.key)
	w.touch(ctx, pipe)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errs.NewStack(err)
	}

	return int(llen.Val()), nil
}

func (w *RedisWindow) Rows(ctx context.Context, offset, limit int) ([]*domain.Trade, error) {
	if err := checkRange(offset, limit); err != nil {
		return nil, err
	}

	start, stop := listRange(offset, limit)

	pipe := w.client.Pipeline()
	lrange := pipe.LRange(ctx, w.key, start, stop)
	w.touch(ctx, pipe)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errs.NewStack(err)
	}

	values := lrange.Val()

	rows := make([]*domain.Trade, 0, len(values))
	for _, value := range values {
		trade := &domain.Trade{}
		if err := json.Unmarshal([]byte(value), trade); err != nil {
			return nil, errs.NewStack(fmt.Errorf("failed to decode trade: %w", err))
		}
		rows = append(rows, trade)
	}

	return rows, nil
}

func (w *RedisWindow) touch(ctx context.Context, pipe redis.Pipeliner) {
	if w.ttl > 0 {
		pipe.Expire(ctx, w.key, w.ttl)
	}
}

func (w *RedisWindow) Reset(ctx context.Context) error {
	w.loadMu.Lock()
	defer w.loadMu.Unlock()

	if err := w.client.Del(ctx, w.key).Err(); err != nil {
		return errs.NewStack(err)
	}

	return nil
}
