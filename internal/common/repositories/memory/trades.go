package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/leonid6372/trades-pager/internal/common/domain"
)

// TradesRepository keeps trades per account in insertion order, newest first. It is used by the
// simulation CLI and by tests.
type TradesRepository struct {
	mu     sync.RWMutex
	trades map[string][]*domain.Trade

	lastID     int64
	rangeCalls int
	failNext   error
}

func NewTradesRepository() *TradesRepository {
	return &TradesRepository{
		trades: make(map[string][]*domain.Trade),
	}
}

func (tr *TradesRepository) SetTrades(account string, trades []*domain.Trade) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.trades[account] = trades
}

// AddTrades stores trades under their accounts, assigning ids and creation times when missing, and
// keeps every account ordered newest first.
func (tr *TradesRepository) AddTrades(_ context.Context, trades []*domain.Trade) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	touched := make(map[string]struct{})
	for _, trade := range trades {
		if trade.ID == 0 {
			tr.lastID++
			trade.ID = tr.lastID
		} else if trade.ID > tr.lastID {
			tr.lastID = trade.ID
		}
		if trade.CreatedAt.IsZero() {
			trade.CreatedAt = time.Now()
		}

		tr.trades[trade.Account] = append(tr.trades[trade.Account], trade)
		touched[trade.Account] = struct{}{}
	}

	for account := range touched {
		slices.SortStableFunc(tr.trades[account], func(a, b *domain.Trade) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		})
	}

	return nil
}

// FailNext makes the next GetTradesRange call return err.
func (tr *TradesRepository) FailNext(err error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.failNext = err
}

func (tr *TradesRepository) RangeCalls() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	return tr.rangeCalls
}

func (tr *TradesRepository) GetTradesCount(_ context.Context, account string) (int64, error) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	return int64(len(tr.trades[account])), nil
}

func (tr *TradesRepository) GetTradesRange(ctx context.Context, account string, offset, limit int64) ([]*domain.Trade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.rangeCalls++

	if tr.failNext != nil {
		err := tr.failNext
		tr.failNext = nil
		return nil, err
	}

	trades := tr.trades[account]
	if offset >= int64(len(trades)) {
		return []*domain.Trade{}, nil
	}

	end := min(offset+limit, int64(len(trades)))

	result := make([]*domain.Trade, end-offset)
	copy(result, trades[offset:end])

	return result, nil
}
