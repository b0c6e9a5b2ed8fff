package postgres

import (
	"fmt"
	"time"

	"github.com/leonid6372/trades-pager/internal/common/domain"
	"github.com/shopspring/decimal"
)

// Trade is a trades row. Numeric columns are selected as text to keep their exact scale.
type Trade struct {
	ID      int64  `db:"id"`
	Account string `db:"account"`

	Symbol string `db:"symbol"`
	Side   string `db:"side"`
	Size   string `db:"size"`
	Price  string `db:"price"`
	PnL    string `db:"pnl"`

	CreatedAt time.Time `db:"created_at"`
}

func (t *Trade) CreateDomain() (*domain.Trade, error) {
	size, err := decimal.NewFromString(t.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to parse size of trade %d: %w", t.ID, err)
	}

	price, err := decimal.NewFromString(t.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price of trade %d: %w", t.ID, err)
	}

	pnl, err := decimal.NewFromString(t.PnL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pnl of trade %d: %w", t.ID, err)
	}

	trade := &domain.Trade{
		ID:        t.ID,
		Account:   t.Account,
		Symbol:    t.Symbol,
		Side:      t.Side,
		Size:      size,
		Price:     price,
		PnL:       pnl,
		CreatedAt: t.CreatedAt,
	}

	return trade, nil
}
