package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leonid6372/trades-pager/internal/common/domain"
	"github.com/leonid6372/trades-pager/pkg/errs"
)

type tradesRepository struct {
	psql *pgxpool.Pool
}

func NewTradesRepository(pool *pgxpool.Pool) domain.TradesRepository {
	return &tradesRepository{
		psql: pool,
	}
}

func (tr *tradesRepository) GetTradesCount(ctx context.Context, account string) (int64, error) {
	query := `SELECT COUNT(*) FROM trades_pager.trades WHERE account = $1`
	var tradesCount int64
	if err := tr.psql.QueryRow(ctx, query, account).Scan(&tradesCount); err != nil {
		return 0, errs.NewStack(err)
	}

	return tradesCount, nil
}

// GetTradesRange returns up to limit trades of the account starting at offset, newest first.
func (tr *tradesRepository) GetTradesRange(ctx context.Context, account string, offset, limit int64) ([]*domain.Trade, error) {
	query := `SELECT id,
			account,
			symbol,
			side,
			size::text,
			price::text,
			pnl::text,
			created_at
		FROM trades_pager.trades
		WHERE account = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := tr.psql.Query(ctx, query, account, limit, offset)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*domain.Trade{}, nil
		}

		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	trades := []*domain.Trade{}
	for rows.Next() {
		trade := &Trade{}
		if err := rows.Scan(
			&trade.ID,
			&trade.Account,
			&trade.Symbol,
			&trade.Side,
			&trade.Size,
			&trade.Price,
			&trade.PnL,
			&trade.CreatedAt,
		); err != nil {
			return nil, errs.NewStack(err)
		}

		domainTrade, err := trade.CreateDomain()
		if err != nil {
			return nil, errs.NewStack(err)
		}

		trades = append(trades, domainTrade)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.NewStack(err)
	}

	return trades, nil
}

// AddTrades inserts trades in one batch. Ids and zero creation times are assigned by the database.
func (tr *tradesRepository) AddTrades(ctx context.Context, trades []*domain.Trade) error {
	query := `INSERT INTO trades_pager.trades (account, symbol, side, size, price, pnl, created_at)
		VALUES ($1, $2, $3, $4::text::numeric, $5::text::numeric, $6::text::numeric, COALESCE($7, now()))`

	batch := &pgx.Batch{}
	for _, trade := range trades {
		var createdAt *time.Time
		if !trade.CreatedAt.IsZero() {
			createdAt = &trade.CreatedAt
		}

		batch.Queue(query,
			trade.Account,
			trade.Symbol,
			trade.Side,
			trade.Size.String(),
			trade.Price.String(),
			trade.PnL.String(),
			createdAt,
		)
	}

	if err := tr.psql.SendBatch(ctx, batch).Close(); err != nil {
		return errs.NewStack(err)
	}

	return nil
}
