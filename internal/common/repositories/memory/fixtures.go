package memory

import (
	"fmt"
	"time"

	"github.com/leonid6372/trades-pager/internal/common/domain"
	"github.com/shopspring/decimal"
)

var fixtureSymbols = []string{"SOL-PERP", "BTC-PERP", "ETH-PERP", "JTO-PERP"}

// GenerateTrades builds n deterministic trades for account, newest first, one minute apart
// ending at last.
func GenerateTrades(account string, n int, last time.Time) []*domain.Trade {
	trades := make([]*domain.Trade, 0, n)

	for i := 0; i < n; i++ {
		id := int64(n - i)

		side := domain.TradeSideLong
		if id%2 == 0 {
			side = domain.TradeSideShort
		}

		trades = append(trades, &domain.Trade{
			ID:        id,
			Account:   account,
			Symbol:    fixtureSymbols[int(id)%len(fixtureSymbols)],
			Side:      side,
			Size:      decimal.NewFromInt(id%7 + 1),
			Price:     decimal.RequireFromString(fmt.Sprintf("%d.%02d", 100+id, id%100)),
			PnL:       decimal.NewFromInt(id%11 - 5),
			CreatedAt: last.Add(-time.Duration(i) * time.Minute),
		})
	}

	return trades
}
