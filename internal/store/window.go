package store

import (
	"context"
	"sync"

	"github.com/leonid6372/trades-pager/internal/common/domain"
	"github.com/leonid6372/trades-pager/pkg/errs"
	"github.com/leonid6372/trades-pager/pkg/log"
	"go.uber.org/zap"
)

// Window is an in-memory Store.
type Window struct {
	repo    domain.TradesRepository
	account string

	loadMu sync.Mutex

	mu   sync.RWMutex
	rows []*domain.Trade
}

func NewWindow(repo domain.TradesRepository, account string) *Window {
	return &Window{
		repo:    repo,
		account: account,
	}
}

func (w *Window) Load(ctx context.Context, offset, length int) error {
	if err := checkRange(offset, length); err != nil {
		return err
	}

	w.loadMu.Lock()
	defer w.loadMu.Unlock()

	w.mu.RLock()
	from := min(offset, len(w.rows))
	w.mu.RUnlock()

	fetched, err := w.repo.GetTradesRange(ctx, w.account, int64(from), int64(offset+length-from))
	if err != nil {
		return errs.NewStack(err)
	}

	w.mu.Lock()
	for i, trade := range fetched {
		if idx := from + i; idx < len(w.rows) {
			w.rows[idx] = trade
		} else {
			w.rows = append(w.rows, trade)
		}
	}
	loaded := len(w.rows)
	w.mu.Unlock()

	log.Debug("window loaded",
		zap.String("account", w.account),
		zap.Int("from", from),
		zap.Int("fetched", len(fetched)),
		zap.Int("total_loaded", loaded),
	)

	return nil
}

func (w *Window) TotalLoaded(context.Context) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.rows), nil
}

func (w *Window) Rows(_ context.Context, offset, limit int) ([]*domain.Trade, error) {
	if err := checkRange(offset, limit); err != nil {
		return nil, err
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	if offset >= len(w.rows) {
		return []*domain.Trade{}, nil
	}

	end := min(offset+limit, len(w.rows))

	rows := make([]*domain.Trade, end-offset)
	copy(rows, w.rows[offset:end])

	return rows, nil
}

func (w *Window) Reset(context.Context) error {
	w.loadMu.Lock()
	defer w.loadMu.Unlock()

	w.mu.Lock()
	w.rows = nil
	w.mu.Unlock()

	return nil
}
