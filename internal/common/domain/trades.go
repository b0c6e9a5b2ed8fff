package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type TradesRepository interface {
	GetTradesCount(ctx context.Context, account string) (int64, error)
	GetTradesRange(ctx context.Context, account string, offset, limit int64) ([]*Trade, error)
	AddTrades(ctx context.Context, trades []*Trade) error
}

type Trade struct {
	ID      int64  `json:"id"`
	Account string `json:"account"`

	Symbol string          `json:"symbol"`
	Side   string          `json:"side"`
	Size   decimal.Decimal `json:"size"`
	Price  decimal.Decimal `json:"price"`
	PnL    decimal.Decimal `json:"pnl"`

	CreatedAt time.Time `json:"created_at"`
}

// Notional is the position value of the trade at its execution price.
func (t *Trade) Notional() decimal.Decimal {
	return t.Size.Mul(t.Price)
}
